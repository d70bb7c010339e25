package scan

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"skinsight/internal/logging"
)

const (
	defaultDetectionDelay = 3 * time.Second
	defaultTickInterval   = 80 * time.Millisecond
	defaultTickStep       = 1.2
	defaultCooldown       = 2 * time.Second
)

// Camera is the slice of the capture controller the sequencer drives.
type Camera interface {
	Acquire(ctx context.Context) error
	Release()
	CaptureFrame(ctx context.Context) ([]byte, error)
}

// Capture pairs a pose with its captured frame.
type Capture struct {
	Pose  Pose
	Frame []byte
}

// Events are the sequencer's callbacks. All fields are optional. Callbacks
// run on the sequencer goroutine; keep them short.
type Events struct {
	DetectionStarted func(pose Pose)
	Progress         func(pose Pose, percent float64)
	FrameCaptured    func(capture Capture)
	PoseAdvanced     func(next Pose)
	SequenceDone     func(captures []Capture)
	SequenceFailed   func(err error)
}

// Config carries the sequencer timing. Zero fields fall back to the
// application defaults.
type Config struct {
	DetectionDelay time.Duration
	TickInterval   time.Duration
	TickStep       float64
	Cooldown       time.Duration
}

func (c Config) withDefaults() Config {
	if c.DetectionDelay <= 0 {
		c.DetectionDelay = defaultDetectionDelay
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.TickStep <= 0 {
		c.TickStep = defaultTickStep
	}
	if c.Cooldown < 0 {
		c.Cooldown = defaultCooldown
	}
	return c
}

// Sequencer drives a timed capture run: per pose it waits out the detection
// delay, advances a progress bar on a fixed tick, captures exactly one frame
// when progress crosses 100%, then cools down before the next pose.
type Sequencer struct {
	cfg    Config
	mode   Mode
	poses  []Pose
	camera Camera
	events Events
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	stopped bool
	stop    chan struct{}
	done    chan struct{}
	trigger chan struct{}
}

// New builds a sequencer for the given mode.
func New(cfg Config, mode Mode, camera Camera, events Events, logger *slog.Logger) *Sequencer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sequencer{
		cfg:    cfg.withDefaults(),
		mode:   mode,
		poses:  Poses(mode),
		camera: camera,
		events: events,
		logger: logging.NewComponentLogger(logger, "scan"),
	}
}

// Start acquires the camera and launches the sequence goroutine. A failed
// acquire is returned directly; nothing is left running.
func (s *Sequencer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scan: sequence already running")
	}
	if err := s.camera.Acquire(ctx); err != nil {
		return err
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.trigger = make(chan struct{}, 1)
	s.running = true
	s.stopped = false

	s.logger.Info("scan sequence started",
		logging.String(logging.FieldEventType, "scan_started"),
		logging.String("mode", s.mode.String()))

	go s.run(ctx, s.stop, s.done, s.trigger)
	return nil
}

// Stop halts the sequence and waits for the goroutine to exit. The camera
// is released before Stop returns. Safe to call after completion.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	stop, done := s.stop, s.done
	alreadyStopped := s.stopped
	s.stopped = true
	s.mu.Unlock()

	if !alreadyStopped {
		close(stop)
	}
	<-done
}

// Trigger requests a manual capture. Only meaningful in product mode.
func (s *Sequencer) Trigger() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeProduct {
		return errors.New("scan: manual trigger only supported in product mode")
	}
	if !s.running {
		return errors.New("scan: sequence not running")
	}
	select {
	case s.trigger <- struct{}{}:
	default:
	}
	return nil
}

// Running reports whether a sequence goroutine is active.
func (s *Sequencer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Sequencer) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}, trigger <-chan struct{}) {
	defer func() {
		s.camera.Release()
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		close(done)
	}()

	captures := make([]Capture, 0, len(s.poses))

	for i, pose := range s.poses {
		if s.events.DetectionStarted != nil {
			s.events.DetectionStarted(pose)
		}

		var frame []byte
		var err error
		if s.mode == ModeProduct {
			frame, err = s.awaitTrigger(ctx, stop, trigger)
		} else {
			frame, err = s.capturePose(ctx, stop, pose)
		}
		if err != nil {
			if errors.Is(err, errStopped) {
				s.logger.Info("scan sequence stopped",
					logging.String(logging.FieldEventType, "scan_stopped"),
					logging.String(logging.FieldPose, pose.ID))
				return
			}
			s.logger.Warn("scan sequence failed",
				logging.Error(err),
				logging.String(logging.FieldPose, pose.ID))
			if s.events.SequenceFailed != nil {
				s.events.SequenceFailed(err)
			}
			return
		}

		capture := Capture{Pose: pose, Frame: frame}
		captures = append(captures, capture)
		s.logger.Debug("frame captured",
			logging.String(logging.FieldEventType, "frame_captured"),
			logging.String(logging.FieldPose, pose.ID))
		if s.events.FrameCaptured != nil {
			s.events.FrameCaptured(capture)
		}

		if i < len(s.poses)-1 {
			if !s.wait(ctx, stop, s.cfg.Cooldown) {
				return
			}
			if s.events.PoseAdvanced != nil {
				s.events.PoseAdvanced(s.poses[i+1])
			}
		}
	}

	s.logger.Info("scan sequence complete",
		logging.String(logging.FieldEventType, "scan_complete"),
		logging.Int("captures", len(captures)))
	if s.events.SequenceDone != nil {
		s.events.SequenceDone(captures)
	}
}

var errStopped = errors.New("scan: stopped")

// capturePose waits out the detection delay, then ticks progress until it
// crosses 100% and captures a single frame. Progress resets before the
// capture is dispatched and ticks are suspended while it is in flight, so
// one crossing yields exactly one frame.
func (s *Sequencer) capturePose(ctx context.Context, stop <-chan struct{}, pose Pose) ([]byte, error) {
	if !s.wait(ctx, stop, s.cfg.DetectionDelay) {
		return nil, errStopped
	}

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	progress := 0.0
	for {
		select {
		case <-ctx.Done():
			return nil, errStopped
		case <-stop:
			return nil, errStopped
		case <-ticker.C:
			if progress >= 100 {
				progress = 0
				ticker.Stop()
				return s.camera.CaptureFrame(ctx)
			}
			progress += s.cfg.TickStep
			if s.events.Progress != nil {
				s.events.Progress(pose, min(progress, 100))
			}
		}
	}
}

// awaitTrigger blocks until the user fires a manual capture.
func (s *Sequencer) awaitTrigger(ctx context.Context, stop <-chan struct{}, trigger <-chan struct{}) ([]byte, error) {
	if !s.wait(ctx, stop, s.cfg.DetectionDelay) {
		return nil, errStopped
	}
	select {
	case <-ctx.Done():
		return nil, errStopped
	case <-stop:
		return nil, errStopped
	case <-trigger:
		return s.camera.CaptureFrame(ctx)
	}
}

// wait sleeps for d unless the sequence is stopped first.
func (s *Sequencer) wait(ctx context.Context, stop <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}
