package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"skinsight/internal/capture"
	"skinsight/internal/config"
	"skinsight/internal/enrich"
	"skinsight/internal/logging"
	"skinsight/internal/notifications"
	"skinsight/internal/scan"
	"skinsight/internal/services/gemini"
	"skinsight/internal/session"
	"skinsight/internal/store"
)

type commandContext struct {
	configFlag *string
	framesFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, framesFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		framesFlag: framesFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, resolvedPath, exists, err := config.Load(c.requestedConfigPath())
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath = resolvedPath
		c.configExists = exists
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) requestedConfigPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) framesDir() string {
	if c.framesFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.framesFlag)
}

// app bundles the wired collaborators a command works with.
type app struct {
	cfg      *config.Config
	store    store.Adapter
	gateway  *gemini.Client
	notifier notifications.Service
	camera   *capture.Controller
	manager  *session.Manager

	in       *bufio.Reader
	out      io.Writer
	captured chan scan.Mode
	failed   chan session.ErrorState
}

// withApp builds the full application stack, loads persisted state, and
// hands control to fn. The store lock and camera monitor are torn down on
// return.
func (c *commandContext) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "skinsight.log")},
	})
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	client := gemini.NewClient(gemini.Config{
		APIKey:         cfg.Gateway.APIKey,
		BaseURL:        cfg.Gateway.BaseURL,
		TextModel:      cfg.Gateway.TextModel,
		ImageModel:     cfg.Gateway.ImageModel,
		TimeoutSeconds: cfg.Gateway.TimeoutSeconds,
	}, gemini.WithLogger(logger))

	device, err := c.buildDevice(cfg)
	if err != nil {
		return err
	}
	controller := capture.NewController(device, capture.Constraints{
		Width:       cfg.Capture.Width,
		Height:      cfg.Capture.Height,
		JPEGQuality: cfg.Capture.JPEGQuality,
	}, logger)

	a := &app{
		cfg:      cfg,
		store:    store.NewSyncAdapter(st, cfg, logger),
		gateway:  client,
		notifier: notifications.NewService(cfg),
		camera:   controller,
		in:       bufio.NewReader(cmd.InOrStdin()),
		out:      cmd.OutOrStdout(),
		captured: make(chan scan.Mode, 1),
		failed:   make(chan session.ErrorState, 1),
	}

	events := session.Events{
		ScanProgress: func(pose scan.Pose, percent float64) {
			fmt.Fprintf(a.out, "\r%s  %3.0f%%", pose.Label, percent)
		},
		Caption: func(text string) {
			fmt.Fprintln(a.out, text)
		},
		CapturesComplete: func(mode scan.Mode) {
			select {
			case a.captured <- mode:
			default:
			}
		},
		CaptureFailed: func(state session.ErrorState) {
			select {
			case a.failed <- state:
			default:
			}
		},
	}
	a.manager = session.NewManager(
		cfg,
		a.store,
		client,
		enrich.New(client, cfg.Enrichment.MaxSteps, cfg.Enrichment.Parallelism, logger),
		a.notifier,
		controller,
		events,
		logger,
	)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.manager.Load(ctx); err != nil {
		return err
	}

	monitor := capture.NewMonitor(cfg.Capture.Device, logger,
		func(device string) { logger.Info("camera attached", logging.String("device", device)) },
		func(device string) { logger.Warn("camera detached", logging.String("device", device)) },
	)
	if monitor != nil {
		if err := monitor.Start(ctx); err != nil {
			logger.Warn("camera monitor unavailable", logging.Error(err))
		} else {
			defer monitor.Stop()
		}
	}

	return fn(ctx, a)
}

func (c *commandContext) buildDevice(cfg *config.Config) (capture.Device, error) {
	if dir := c.framesDir(); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return nil, err
		}
		return capture.NewFileDevice(expanded)
	}
	return capture.NewFFmpegDevice("ffmpeg", cfg.Capture.Device), nil
}

// waitCaptured blocks until the running capture sequence completes or the
// context is cancelled.
func (a *app) waitCaptured(ctx context.Context) (scan.Mode, error) {
	select {
	case mode := <-a.captured:
		fmt.Fprintln(a.out)
		return mode, nil
	case state := <-a.failed:
		fmt.Fprintln(a.out)
		a.manager.Abort()
		return 0, fmt.Errorf("capture failed: %s", state.Message)
	case <-ctx.Done():
		a.manager.Abort()
		return 0, ctx.Err()
	}
}

// requireGateway refuses gateway-dependent actions without an API key
// instead of letting them fail mid-flow.
func (a *app) requireGateway() error {
	if !a.gateway.Configured() {
		return fmt.Errorf("no API key configured: set GEMINI_API_KEY or gateway.api_key in the config file")
	}
	return nil
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
