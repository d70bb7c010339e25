package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(runCtx context.Context, a *app) error {
				if a.cfg.Notifications.NtfyTopic == "" {
					fmt.Fprintln(a.out, "Notifications are disabled (set notifications.ntfy_topic)")
					return nil
				}
				if err := a.notifier.TestNotification(runCtx); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Test notification sent")
				return nil
			})
		},
	}
}
