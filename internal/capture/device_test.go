package capture

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileDeviceCyclesFramesInOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	device, err := NewFileDevice(dir)
	if err != nil {
		t.Fatalf("NewFileDevice: %v", err)
	}
	stream, err := device.Open(context.Background(), Constraints{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer stream.Close()

	want := []string{"a.jpg", "b.jpg", "a.jpg"}
	for i, expected := range want {
		frame, err := stream.Frame(context.Background())
		if err != nil {
			t.Fatalf("Frame %d: %v", i, err)
		}
		if string(frame) != expected {
			t.Errorf("frame %d = %q, want %q", i, frame, expected)
		}
	}
}

func TestFileDeviceEmptyDir(t *testing.T) {
	if _, err := NewFileDevice(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without images")
	}
}

func TestFrameArgs(t *testing.T) {
	args := frameArgs("/dev/video0", Constraints{Width: 1280, Height: 720, JPEGQuality: 0.85})
	joined := strings.Join(args, " ")

	for _, fragment := range []string{
		"-f v4l2",
		"-video_size 1280x720",
		"-i /dev/video0",
		"-frames:v 1",
		"-q:v 6",
		"pipe:1",
	} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("args missing %q: %s", fragment, joined)
		}
	}
}

func TestFrameArgsQualityFallback(t *testing.T) {
	args := frameArgs("/dev/video0", Constraints{JPEGQuality: 0})
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "-video_size") {
		t.Error("video_size emitted without dimensions")
	}
	if !strings.Contains(joined, "-q:v 6") {
		t.Errorf("default quality not applied: %s", joined)
	}
}
