package capture

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpegDevice grabs frames from a video4linux node by invoking ffmpeg
// once per capture. Open probes both the binary and the device node so
// failures surface before a sequence starts instead of mid-scan.
type FFmpegDevice struct {
	binary string
	node   string
}

// NewFFmpegDevice builds a device for the given node. An empty binary
// falls back to resolving "ffmpeg" from PATH.
func NewFFmpegDevice(binary, node string) *FFmpegDevice {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegDevice{binary: binary, node: strings.TrimSpace(node)}
}

func (d *FFmpegDevice) Open(ctx context.Context, constraints Constraints) (Stream, error) {
	resolved, err := exec.LookPath(d.binary)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg binary %q not found: %w", d.binary, err)
	}
	if d.node == "" {
		return nil, fmt.Errorf("no camera device configured")
	}
	if err := ProbeDevice(d.node); err != nil {
		return nil, err
	}
	return &ffmpegStream{binary: resolved, node: d.node, args: frameArgs(d.node, constraints)}, nil
}

type ffmpegStream struct {
	binary string
	node   string
	args   []string
}

func (s *ffmpegStream) Frame(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.binary, s.args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := lastLine(stderr.String()); detail != "" {
			return nil, fmt.Errorf("capture frame from %s: %w: %s", s.node, err, detail)
		}
		return nil, fmt.Errorf("capture frame from %s: %w", s.node, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("capture frame from %s: empty output", s.node)
	}
	return stdout.Bytes(), nil
}

func (s *ffmpegStream) Close() error { return nil }

// frameArgs builds the single-frame grab invocation. The configured 0..1
// JPEG quality maps onto ffmpeg's inverted 2..31 qscale.
func frameArgs(node string, constraints Constraints) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-f", "v4l2"}
	if constraints.Width > 0 && constraints.Height > 0 {
		args = append(args, "-video_size", fmt.Sprintf("%dx%d", constraints.Width, constraints.Height))
	}
	args = append(args, "-i", node, "-frames:v", "1")

	quality := constraints.JPEGQuality
	if quality <= 0 || quality > 1 {
		quality = 0.85
	}
	qscale := 2 + int((1-quality)*29+0.5)
	args = append(args, "-q:v", strconv.Itoa(qscale), "-f", "image2", "pipe:1")
	return args
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
