package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"skinsight/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand(ctx))

	return configCmd
}

// newConfigShowCommand renders the effective configuration, defaults and
// environment overlays included, with secrets redacted.
func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			source := ctx.configPath
			if !ctx.configExists {
				source += " (missing, defaults in effect)"
			}
			rows := [][]string{
				{"Config file", source},
				{"Data dir", cfg.Paths.DataDir},
				{"Log dir", cfg.Paths.LogDir},
				{"Gateway model", cfg.Gateway.TextModel},
				{"Gateway image model", cfg.Gateway.ImageModel},
				{"Gateway API key", redactSecret(cfg.Gateway.APIKey)},
				{"Camera device", cfg.Capture.Device},
				{"Capture size", fmt.Sprintf("%dx%d", cfg.Capture.Width, cfg.Capture.Height)},
				{"Sync", syncDescription(cfg)},
				{"Ntfy topic", valueOrDash(cfg.Notifications.NtfyTopic)},
				{"Log level", cfg.Logging.Level},
				{"Log format", cfg.Logging.Format},
			}
			out := renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// newConfigInitCommand writes the commented sample file. The destination is
// the global --config flag, falling back to the default location.
func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configInitTarget(ctx)
			if err != nil {
				return err
			}

			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf("%s already exists (pass --force to replace it)", target)
			} else if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("check config path: %w", err)
			}

			if err := config.CreateSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set gateway.api_key (or export GEMINI_API_KEY) before scanning.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing configuration file")
	return cmd
}

func configInitTarget(ctx *commandContext) (string, error) {
	if requested := ctx.requestedConfigPath(); requested != "" {
		return config.ExpandPath(requested)
	}
	return config.DefaultConfigPath()
}

func redactSecret(secret string) string {
	if secret == "" {
		return "not set"
	}
	return "set (" + strconv.Itoa(len(secret)) + " chars)"
}

func syncDescription(cfg *config.Config) string {
	if !cfg.SyncEnabled() {
		return "local only"
	}
	return cfg.Sync.URL
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
