package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AudioSink persists synthesized audio and returns where it went.
type AudioSink interface {
	Put(ctx context.Context, name string, audio []byte) (string, error)
}

// ErrInvalidName is returned for names that would escape the sink root.
var ErrInvalidName = errors.New("invalid audio name")

// FileSink writes audio files into a local directory.
type FileSink struct {
	dir string
}

// NewFileSink creates a sink rooted at dir. The directory is created on the
// first write.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Put writes audio to dir/name.
func (s *FileSink) Put(ctx context.Context, name string, audio []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio %s: %w", name, err)
	}
	return path, nil
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
