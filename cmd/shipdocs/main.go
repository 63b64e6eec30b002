// Package main 启动 shipdocs.
package main

import (
	"os"

	"github.com/yeisme/shipdocs/pkg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
