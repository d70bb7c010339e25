package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"skinsight/internal/config"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent daily check-ins",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(runCtx context.Context, a *app) error {
				history, err := a.manager.ProgressHistory(runCtx, limit)
				if err != nil {
					return err
				}
				if len(history) == 0 {
					fmt.Fprintln(a.out, "Noch keine Check-ins.")
					return nil
				}
				fmt.Fprintln(a.out, renderProgressTable(history))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 30, "Maximum number of entries to show")
	return cmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of settings and analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(runCtx context.Context, a *app) error {
				data, name, err := a.manager.ExportSnapshot(runCtx)
				if err != nil {
					return err
				}

				target := strings.TrimSpace(outputPath)
				if target == "" {
					target = name
				}
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return err
				}
				if err := os.WriteFile(expanded, data, 0o644); err != nil {
					return fmt.Errorf("write backup: %w", err)
				}
				fmt.Fprintf(a.out, "Backup written to %s\n", expanded)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Backup file path (defaults to a dated name)")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore settings and analysis from a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(runCtx context.Context, a *app) error {
				path, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read backup: %w", err)
				}
				if err := a.manager.ImportSnapshot(runCtx, data); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Backup %s restored\n", filepath.Base(path))
				return nil
			})
		},
	}
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all local data and start over",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(runCtx context.Context, a *app) error {
				if !force {
					if !promptYes(a.in, a.out, "Alle Daten unwiderruflich löschen?") {
						fmt.Fprintln(a.out, "Abgebrochen.")
						return nil
					}
				}
				if err := a.manager.ResetAccount(runCtx); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Alle Daten gelöscht.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}
