package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// config 子命令.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "config subcommands",
	}

	// 打印当前使用的配置文件路径.
	pathCmd = &cobra.Command{
		Use:   "path",
		Short: "print the path of the current config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, v, err := loadConfig()
			if err != nil {
				return err
			}

			if f := v.ConfigFileUsed(); f != "" {
				fmt.Fprintln(cmd.OutOrStdout(), f)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "no config file used (defaults and environment only)")

			return nil
		},
	}

	// 以 JSON 打印解析后的配置，--debug 时附带 viper 的调试输出.
	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "print the current config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, v, err := loadConfig()
			if err != nil {
				return err
			}

			if debug {
				v.Debug()
			}

			b, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			return nil
		},
	}
)

// registerConfigsCommands 注册 CLI 子命令.
func registerConfigsCommands() {
	configCmd.AddCommand(pathCmd)
	configCmd.AddCommand(debugCmd)

	rootCmd.AddCommand(configCmd)
}
