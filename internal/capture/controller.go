package capture

import (
	"context"
	"log/slog"
	"sync"

	"skinsight/internal/logging"
	"skinsight/internal/services"
)

// Controller owns the camera lifecycle. Acquire and Release are balanced
// by the scan sequencer; Release is idempotent so error paths can call it
// unconditionally.
type Controller struct {
	device      Device
	constraints Constraints
	logger      *slog.Logger

	mu       sync.Mutex
	stream   Stream
	acquires int
	releases int
}

// NewController builds a controller for the supplied device.
func NewController(device Device, constraints Constraints, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{
		device:      device,
		constraints: constraints,
		logger:      logging.NewComponentLogger(logger, "capture"),
	}
}

// Acquire opens the camera stream. Calling Acquire while a stream is
// already open is a no-op.
func (c *Controller) Acquire(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		return nil
	}
	if c.device == nil {
		return services.Wrap(services.ErrDeviceUnavailable, "capture", "acquire", "no device configured", nil)
	}

	stream, err := c.device.Open(ctx, c.constraints)
	if err != nil {
		return services.Wrap(services.ErrDeviceUnavailable, "capture", "acquire", "open stream", err)
	}

	c.stream = stream
	c.acquires++
	c.logger.Debug("camera acquired",
		logging.String(logging.FieldEventType, "camera_acquired"),
		logging.Int("acquires", c.acquires))
	return nil
}

// Release closes the stream if one is open. Safe to call repeatedly.
func (c *Controller) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream == nil {
		return
	}
	if err := c.stream.Close(); err != nil {
		c.logger.Warn("camera stream close failed", logging.Error(err))
	}
	c.stream = nil
	c.releases++
	c.logger.Debug("camera released",
		logging.String(logging.FieldEventType, "camera_released"),
		logging.Int("releases", c.releases))
}

// CaptureFrame grabs one encoded frame from the open stream.
func (c *Controller) CaptureFrame(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	stream := c.stream
	c.mu.Unlock()

	if stream == nil {
		return nil, services.Wrap(services.ErrNoActiveStream, "capture", "frame", "acquire the camera first", nil)
	}
	frame, err := stream.Frame(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrDeviceUnavailable, "capture", "frame", "read frame", err)
	}
	return frame, nil
}

// Active reports whether a stream is currently open.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream != nil
}

// Balanced reports whether every successful acquire has a matching
// release. Used by lifecycle tests.
func (c *Controller) Balanced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream != nil {
		return false
	}
	return c.acquires == c.releases
}
