package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDailyCommand(ctx *commandContext) *cobra.Command {
	var stress int
	var feeling int

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Record the daily check-in with a quick scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(runCtx context.Context, a *app) error {
				return runDailyCheckIn(runCtx, a, stress, feeling)
			})
		},
	}

	cmd.Flags().IntVar(&stress, "stress", 0, "Stress level 1-5 (prompted when omitted)")
	cmd.Flags().IntVar(&feeling, "feeling", 0, "Skin feeling 1-5 (prompted when omitted)")
	return cmd
}

func runDailyCheckIn(ctx context.Context, a *app, stress, feeling int) error {
	if !a.manager.Snapshot().Settings.SetupComplete {
		return fmt.Errorf("no analysis yet: run `skinsight scan` first")
	}

	var err error
	if stress < 1 || stress > 5 {
		if stress, err = promptIntInRange(a.in, a.out, "Stresslevel heute", 1, 5); err != nil {
			return err
		}
	}
	if feeling < 1 || feeling > 5 {
		if feeling, err = promptIntInRange(a.in, a.out, "Hautgefühl heute", 1, 5); err != nil {
			return err
		}
	}

	if err := a.manager.OpenScanHub(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Quick Scan läuft...")
	if err := a.manager.StartDailyScan(ctx); err != nil {
		return err
	}
	if _, err := a.waitCaptured(ctx); err != nil {
		return err
	}

	if err := a.manager.CompleteDailyScan(ctx, stress, feeling); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Check-in gespeichert.")
	return nil
}
