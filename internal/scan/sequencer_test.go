package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeCamera struct {
	mu       sync.Mutex
	acquires int
	releases int
	frames   int
	frameErr error
}

func (c *fakeCamera) Acquire(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acquires++
	return nil
}

func (c *fakeCamera) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releases++
}

func (c *fakeCamera) CaptureFrame(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frameErr != nil {
		return nil, c.frameErr
	}
	c.frames++
	return []byte{byte(c.frames)}, nil
}

func (c *fakeCamera) counts() (int, int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acquires, c.releases, c.frames
}

func fastConfig() Config {
	return Config{
		DetectionDelay: time.Millisecond,
		TickInterval:   time.Millisecond,
		TickStep:       50,
		Cooldown:       time.Millisecond,
	}
}

func TestFullSequenceCapturesEachPoseOnce(t *testing.T) {
	camera := &fakeCamera{}
	var mu sync.Mutex
	var captured []string
	doneCh := make(chan []Capture, 1)

	seq := New(fastConfig(), ModeFull, camera, Events{
		FrameCaptured: func(c Capture) {
			mu.Lock()
			captured = append(captured, c.Pose.ID)
			mu.Unlock()
		},
		SequenceDone: func(captures []Capture) { doneCh <- captures },
	}, nil)

	if err := seq.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var captures []Capture
	select {
	case captures = <-doneCh:
	case <-time.After(5 * time.Second):
		t.Fatal("sequence did not complete")
	}
	seq.Stop()

	if len(captures) != 3 {
		t.Fatalf("captures = %d, want 3", len(captures))
	}
	want := []string{"front", "left", "right"}
	mu.Lock()
	defer mu.Unlock()
	for i, id := range want {
		if captured[i] != id {
			t.Errorf("capture %d = %q, want %q", i, captured[i], id)
		}
	}

	acquires, releases, frames := camera.counts()
	if frames != 3 {
		t.Errorf("frames = %d, want exactly one per pose", frames)
	}
	if acquires != 1 || releases != 1 {
		t.Errorf("acquires/releases = %d/%d, want 1/1", acquires, releases)
	}
}

func TestQuickModeCapturesSingleFrame(t *testing.T) {
	camera := &fakeCamera{}
	doneCh := make(chan []Capture, 1)

	seq := New(fastConfig(), ModeQuick, camera, Events{
		SequenceDone: func(captures []Capture) { doneCh <- captures },
	}, nil)
	if err := seq.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	select {
	case captures := <-doneCh:
		if len(captures) != 1 || captures[0].Pose.ID != "front" {
			t.Fatalf("captures = %+v", captures)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("quick scan did not complete")
	}
	seq.Stop()
}

func TestProgressNeverExceedsFullScale(t *testing.T) {
	camera := &fakeCamera{}
	doneCh := make(chan struct{})
	var mu sync.Mutex
	var maxSeen float64

	seq := New(fastConfig(), ModeQuick, camera, Events{
		Progress: func(_ Pose, percent float64) {
			mu.Lock()
			if percent > maxSeen {
				maxSeen = percent
			}
			mu.Unlock()
		},
		SequenceDone: func([]Capture) { close(doneCh) },
	}, nil)
	if err := seq.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	select {
	case <-doneCh:
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not complete")
	}
	seq.Stop()

	mu.Lock()
	defer mu.Unlock()
	if maxSeen > 100 {
		t.Errorf("progress reached %v, must cap at 100", maxSeen)
	}
}

func TestStopReleasesCameraAndJoins(t *testing.T) {
	camera := &fakeCamera{}
	cfg := fastConfig()
	cfg.DetectionDelay = time.Hour // park the goroutine in detection

	seq := New(cfg, ModeFull, camera, Events{}, nil)
	if err := seq.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	seq.Stop()

	if seq.Running() {
		t.Fatal("sequencer still running after Stop")
	}
	acquires, releases, frames := camera.counts()
	if acquires != 1 || releases != 1 {
		t.Errorf("acquires/releases = %d/%d, want 1/1", acquires, releases)
	}
	if frames != 0 {
		t.Errorf("frames = %d, want 0 after early stop", frames)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	seq := New(fastConfig(), ModeQuick, &fakeCamera{}, Events{}, nil)
	if err := seq.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	seq.Stop()
	seq.Stop()
}

func TestCaptureFailureEmitsSequenceFailed(t *testing.T) {
	camera := &fakeCamera{frameErr: errors.New("EIO")}
	failCh := make(chan error, 1)

	seq := New(fastConfig(), ModeQuick, camera, Events{
		SequenceFailed: func(err error) { failCh <- err },
	}, nil)
	if err := seq.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-failCh:
		if err == nil {
			t.Fatal("expected failure error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("failure was not reported")
	}
	seq.Stop()

	_, releases, _ := camera.counts()
	if releases != 1 {
		t.Errorf("releases = %d, failed run must still release the camera", releases)
	}
}

func TestProductModeWaitsForTrigger(t *testing.T) {
	camera := &fakeCamera{}
	doneCh := make(chan []Capture, 1)

	seq := New(fastConfig(), ModeProduct, camera, Events{
		SequenceDone: func(captures []Capture) { doneCh <- captures },
	}, nil)
	if err := seq.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	// No capture until triggered.
	time.Sleep(20 * time.Millisecond)
	if _, _, frames := camera.counts(); frames != 0 {
		t.Fatalf("frames = %d before trigger", frames)
	}

	if err := seq.Trigger(); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	select {
	case captures := <-doneCh:
		if len(captures) != 1 || captures[0].Pose.ID != "product" {
			t.Fatalf("captures = %+v", captures)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("product scan did not complete after trigger")
	}
	seq.Stop()
}

func TestTriggerRejectedOutsideProductMode(t *testing.T) {
	seq := New(fastConfig(), ModeFull, &fakeCamera{}, Events{}, nil)
	if err := seq.Trigger(); err == nil {
		t.Fatal("trigger outside product mode must fail")
	}
}
