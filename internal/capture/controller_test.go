package capture

import (
	"context"
	"errors"
	"testing"

	"skinsight/internal/services"
)

type fakeStream struct {
	frames   [][]byte
	next     int
	closed   int
	frameErr error
}

func (s *fakeStream) Frame(ctx context.Context) ([]byte, error) {
	if s.frameErr != nil {
		return nil, s.frameErr
	}
	if s.next >= len(s.frames) {
		return []byte("frame"), nil
	}
	frame := s.frames[s.next]
	s.next++
	return frame, nil
}

func (s *fakeStream) Close() error {
	s.closed++
	return nil
}

type fakeDevice struct {
	stream  *fakeStream
	openErr error
	opens   int
}

func (d *fakeDevice) Open(ctx context.Context, constraints Constraints) (Stream, error) {
	d.opens++
	if d.openErr != nil {
		return nil, d.openErr
	}
	if d.stream == nil {
		d.stream = &fakeStream{}
	}
	return d.stream, nil
}

func TestControllerAcquireCaptureRelease(t *testing.T) {
	device := &fakeDevice{stream: &fakeStream{frames: [][]byte{[]byte("a")}}}
	ctrl := NewController(device, Constraints{Width: 1280, Height: 720}, nil)

	if err := ctrl.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !ctrl.Active() {
		t.Fatal("expected active stream")
	}

	frame, err := ctrl.CaptureFrame(context.Background())
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	if string(frame) != "a" {
		t.Errorf("frame = %q", frame)
	}

	ctrl.Release()
	if ctrl.Active() {
		t.Fatal("expected released stream")
	}
	if !ctrl.Balanced() {
		t.Fatal("acquires and releases should balance")
	}
}

func TestControllerAcquireIsIdempotent(t *testing.T) {
	device := &fakeDevice{}
	ctrl := NewController(device, Constraints{}, nil)

	if err := ctrl.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if device.opens != 1 {
		t.Errorf("opens = %d, want 1", device.opens)
	}
}

func TestControllerReleaseIsIdempotent(t *testing.T) {
	device := &fakeDevice{stream: &fakeStream{}}
	ctrl := NewController(device, Constraints{}, nil)

	if err := ctrl.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctrl.Release()
	ctrl.Release()
	ctrl.Release()
	if device.stream.closed != 1 {
		t.Errorf("close count = %d, want 1", device.stream.closed)
	}
	if !ctrl.Balanced() {
		t.Fatal("acquires and releases should balance")
	}
}

func TestControllerAcquireFailureIsDeviceUnavailable(t *testing.T) {
	device := &fakeDevice{openErr: errors.New("EBUSY")}
	ctrl := NewController(device, Constraints{}, nil)

	err := ctrl.Acquire(context.Background())
	if !errors.Is(err, services.ErrDeviceUnavailable) {
		t.Fatalf("want device unavailable, got %v", err)
	}
	if ctrl.Active() {
		t.Fatal("failed acquire must not leave an active stream")
	}
}

func TestCaptureFrameBeforeAcquire(t *testing.T) {
	ctrl := NewController(&fakeDevice{}, Constraints{}, nil)
	_, err := ctrl.CaptureFrame(context.Background())
	if !errors.Is(err, services.ErrNoActiveStream) {
		t.Fatalf("want no active stream error, got %v", err)
	}
}

func TestCaptureFrameErrorIsDeviceUnavailable(t *testing.T) {
	device := &fakeDevice{stream: &fakeStream{frameErr: errors.New("EIO")}}
	ctrl := NewController(device, Constraints{}, nil)
	if err := ctrl.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, err := ctrl.CaptureFrame(context.Background())
	if !errors.Is(err, services.ErrDeviceUnavailable) {
		t.Fatalf("want device unavailable, got %v", err)
	}
}
