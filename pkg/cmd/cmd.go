// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yeisme/shipdocs/pkg/configs"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:           "shipdocs",
		Short:         "Shipment document storage service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./", "config file or directory containing config.*")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	registerServeCommand()
	registerConfigsCommands()
	registerDBCommands()
	registerMQCommands()
	registerDocumentsCommands()
}

// loadConfig 读取配置，--debug 覆盖 server.debug.
func loadConfig() (*configs.AppConfig, *viper.Viper, error) {
	cfg, v, err := configs.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if debug {
		cfg.Server.Debug = true
	}

	return cfg, v, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
