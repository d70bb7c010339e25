package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"skinsight/internal/session"
)

func newProductCommand(ctx *commandContext) *cobra.Command {
	var attach string

	cmd := &cobra.Command{
		Use:   "product",
		Short: "Scan a skincare product and rate its fit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(runCtx context.Context, a *app) error {
				return runProductScan(runCtx, a, attach)
			})
		},
	}

	cmd.Flags().StringVar(&attach, "attach", "", "Add the product to a routine: morning or evening")
	return cmd
}

func runProductScan(ctx context.Context, a *app, attach string) error {
	if err := a.requireGateway(); err != nil {
		return err
	}
	switch attach {
	case "", string(session.Morning), string(session.Evening):
	default:
		return fmt.Errorf("invalid --attach value %q: use morning or evening", attach)
	}

	if err := a.manager.OpenScanHub(); err != nil {
		return err
	}
	if err := a.manager.StartProductScan(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Produkt vor die Kamera halten und Enter drücken.")
	if _, err := a.in.ReadString('\n'); err != nil {
		a.manager.Abort()
		return err
	}
	if err := a.manager.TriggerCapture(); err != nil {
		a.manager.Abort()
		return err
	}
	if _, err := a.waitCaptured(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Produkt wird analysiert...")
	if err := a.manager.CompleteProductScan(ctx); err != nil {
		if err = retryProduct(ctx, a, err); err != nil {
			return err
		}
	}

	snapshot := a.manager.Snapshot()
	renderProduct(a.out, snapshot.ScannedProduct)

	timeOfDay := session.TimeOfDay(attach)
	if timeOfDay == "" && stdinIsTerminal() && snapshot.Analysis != nil {
		if promptYes(a.in, a.out, "Produkt zur Routine hinzufügen?") {
			choice, err := promptChoice(a.in, a.out, "Zu welcher Routine?", []string{"Morgens", "Abends"})
			if err != nil {
				return err
			}
			timeOfDay = session.Morning
			if choice == "Abends" {
				timeOfDay = session.Evening
			}
		}
	}
	if timeOfDay != "" {
		if err := a.manager.AttachScannedProduct(ctx, timeOfDay); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Produkt zur Routine hinzugefügt.")
	}
	return nil
}

func retryProduct(ctx context.Context, a *app, err error) error {
	for {
		state := a.manager.Snapshot().TransientError
		if state == nil || !state.Retryable {
			return err
		}
		if !stdinIsTerminal() || !promptYes(a.in, a.out, state.Message+" Erneut versuchen?") {
			a.manager.Abort()
			return err
		}
		if err = a.manager.Retry(ctx); err == nil {
			return nil
		}
	}
}
