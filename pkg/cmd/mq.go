package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mq "github.com/yeisme/shipdocs/pkg/internal/storage/mq"
)

var (
	mqCmd = &cobra.Command{
		Use:     "mq",
		Short:   "Message queue (document event transport) commands",
		Aliases: []string{"messagequeue"},
	}

	mqListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list the event transports compiled into this binary, marking the configured one",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			var current string
			if cfg, _, err := loadConfig(); err == nil {
				current = string(cfg.MQ.Type)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Registered mq types:")

			for _, t := range mq.RegisteredTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), marker(string(t) == current)+string(t))
			}
		},
	}
)

// marker 当前配置使用的类型前加 *.
func marker(active bool) string {
	if active {
		return " * "
	}

	return "   "
}

// registerMQCommands 注册 MQ 相关命令.
func registerMQCommands() {
	rootCmd.AddCommand(mqCmd)
	mqCmd.AddCommand(mqListCmd)
}
