package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileDevice serves frames from still images on disk, cycling through them
// in name order. It stands in for the camera when none is attached.
type FileDevice struct {
	paths []string
}

// NewFileDevice collects the image files in dir. At least one JPEG or PNG
// must be present.
func NewFileDevice(dir string) (*FileDevice, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no image files in %s", dir)
	}
	sort.Strings(paths)
	return &FileDevice{paths: paths}, nil
}

func (d *FileDevice) Open(context.Context, Constraints) (Stream, error) {
	return &fileStream{paths: d.paths}, nil
}

type fileStream struct {
	mu    sync.Mutex
	paths []string
	index int
}

func (s *fileStream) Frame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	path := s.paths[s.index%len(s.paths)]
	s.index++
	s.mu.Unlock()
	return os.ReadFile(path)
}

func (s *fileStream) Close() error { return nil }
