// Package screenshot captures the screen by shelling out to a platform
// screenshot utility.
package screenshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PathPlaceholder is replaced by the output path in a command template.
const PathPlaceholder = "{path}"

const defaultTimeout = 30 * time.Second

// CommandCapturer runs an external command that writes an image to a path.
type CommandCapturer struct {
	command []string
	dir     string
	timeout time.Duration
}

// NewCommandCapturerParams configures a CommandCapturer.
//
// Command is a whitespace-separated template containing {path}; when empty
// the platform default is used. Dir defaults to os.TempDir().
type NewCommandCapturerParams struct {
	Command string
	Dir     string
	Timeout time.Duration
}

// NewCommandCapturer creates a capturer for the given command template.
func NewCommandCapturer(params NewCommandCapturerParams) (*CommandCapturer, error) {
	tmpl := params.Command
	if tmpl == "" {
		tmpl = DefaultCommand(runtime.GOOS)
	}
	command := strings.Fields(tmpl)
	if len(command) == 0 {
		return nil, errors.New("screenshot command is empty")
	}
	if !strings.Contains(tmpl, PathPlaceholder) {
		return nil, fmt.Errorf("screenshot command %q has no %s placeholder", tmpl, PathPlaceholder)
	}

	dir := params.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &CommandCapturer{
		command: command,
		dir:     dir,
		timeout: timeout,
	}, nil
}

// DefaultCommand returns the capture command template for goos.
func DefaultCommand(goos string) string {
	switch goos {
	case "darwin":
		return "screencapture -x {path}"
	default:
		return "import -window root {path}"
	}
}

// Capture runs the command and returns the path of the written image. The
// caller owns the file and should remove it when done.
func (c *CommandCapturer) Capture(ctx context.Context) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("nanoid: %w", err)
	}
	path := filepath.Join(c.dir, "hyperplex-"+id+".png")

	args := make([]string, len(c.command))
	for i, part := range c.command {
		args[i] = strings.ReplaceAll(part, PathPlaceholder, path)
	}

	if _, err := exec.LookPath(args[0]); err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", args[0], err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		os.Remove(path)
		return "", fmt.Errorf("%s timed out", args[0])
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%s failed: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%s produced no image: %w", args[0], err)
	}
	if info.Size() == 0 {
		os.Remove(path)
		return "", fmt.Errorf("%s produced an empty image", args[0])
	}

	return path, nil
}
