/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/josephgoksu/TaskTree/internal/telemetry"
)

// configCmd is the parent config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage TaskTree configuration",
	Long:  `View and manage TaskTree configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after defaults, the config file, TASKTREE_* environment variables and flags are merged.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src := appConfig.Config
		if src == "" {
			src = "(none, using defaults)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n", src)
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(appConfig); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		return enc.Close()
	},
}

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage telemetry settings",
	Long: `View and manage TaskTree's anonymous telemetry settings.

Telemetry is off unless you enable it here and configure telemetry.apiKey.
Only command names, intent kinds and gesture modes are sent; task titles and
descriptions never leave your machine.`,
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telemetry.Load()
		if err != nil {
			return fmt.Errorf("failed to read telemetry status: %w", err)
		}
		if cfg.IsEnabled() {
			fmt.Fprintln(cmd.OutOrStdout(), "Telemetry: enabled")
			fmt.Fprintf(cmd.OutOrStdout(), "  Anonymous ID: %s\n", cfg.AnonymousID)
			if appConfig.Telemetry.APIKey == "" || !appConfig.Telemetry.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "  (no events are sent until telemetry.enabled and telemetry.apiKey are configured)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "  To disable: tasktree config telemetry disable")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Telemetry: disabled")
		fmt.Fprintln(cmd.OutOrStdout(), "  To enable: tasktree config telemetry enable")
		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, true)
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, false)
	},
}

func setTelemetry(cmd *cobra.Command, enabled bool) error {
	cfg, err := telemetry.Load()
	if err != nil {
		return fmt.Errorf("failed to read telemetry config: %w", err)
	}
	if enabled {
		cfg.Enable()
	} else {
		cfg.Disable()
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save telemetry config: %w", err)
	}
	if enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "Telemetry enabled. Thank you for helping improve TaskTree!")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Telemetry disabled.")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(telemetryCmd)

	telemetryCmd.AddCommand(telemetryStatusCmd)
	telemetryCmd.AddCommand(telemetryEnableCmd)
	telemetryCmd.AddCommand(telemetryDisableCmd)
}
