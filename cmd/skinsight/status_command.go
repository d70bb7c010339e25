package main

import (
	"context"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"skinsight/internal/capture"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var live bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check camera, gateway, and storage readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(runCtx context.Context, a *app) error {
				rows := [][]string{
					{"Data dir", a.cfg.Paths.DataDir, "ok"},
					{"Gateway", a.cfg.Gateway.TextModel, okOrMissing(a.gateway.Configured(), "no API key")},
					{"ffmpeg", "ffmpeg", okOrMissing(binaryAvailable("ffmpeg"), "not in PATH")},
					{"Camera", a.cfg.Capture.Device, okOrMissing(capture.ProbeDevice(a.cfg.Capture.Device) == nil, "not openable")},
					{"Sync", syncDescription(a.cfg), "ok"},
					{"Notifications", a.cfg.Notifications.NtfyTopic, okOrMissing(a.cfg.Notifications.NtfyTopic != "", "disabled")},
				}
				if live {
					rows = append(rows, []string{"Gateway (live)", a.cfg.Gateway.TextModel, gatewayHealth(runCtx, a)})
				}
				printTable(a, []string{"Check", "Target", "Status"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "Issue a real gateway request to verify the credential")
	return cmd
}

func gatewayHealth(ctx context.Context, a *app) string {
	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := a.gateway.HealthCheck(checkCtx); err != nil {
		return err.Error()
	}
	return "ok"
}

func printTable(a *app, headers []string, rows [][]string) {
	out := renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft})
	_, _ = a.out.Write([]byte(out + "\n"))
}

func okOrMissing(ok bool, detail string) string {
	if ok {
		return "ok"
	}
	return detail
}

func binaryAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
