package capture

import "context"

// Constraints describe the frame geometry and encoding requested from a
// camera device.
type Constraints struct {
	Width       int
	Height      int
	Facing      string
	JPEGQuality float64
}

// Stream delivers encoded frames from an open camera.
type Stream interface {
	// Frame returns the next JPEG-encoded frame.
	Frame(ctx context.Context) ([]byte, error)
	Close() error
}

// Device is the boundary to the camera hardware. Implementations map
// platform failures (missing node, permission denied, device busy) onto
// plain errors; the Controller classifies them.
type Device interface {
	Open(ctx context.Context, constraints Constraints) (Stream, error)
}
