package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/raphi011/divert/internal/log"
)

// command builds an *exec.Cmd with a normalized environment.
// LC_ALL=C forces unlocalized output so callers can match on it.
func command(ctx context.Context, dir, name string, args ...string) *exec.Cmd {
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	c.Env = append(os.Environ(), "LC_ALL=C")
	return c
}

// OutputContext executes a command and returns stdout, with stderr in the
// error if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	log.FromContext(ctx).Command(name, args...)

	var stderr bytes.Buffer
	c := command(ctx, dir, name, args...)
	c.Stderr = &stderr
	out, err := c.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, err
	}
	return out, nil
}

// Capture holds the full outcome of a command, including a non-zero exit.
type Capture struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CaptureContext executes a command and captures stdout, stderr and the exit
// code. A non-zero exit is not an error here; the returned error is non-nil
// only when the command could not be run at all (missing binary, cancelled
// context).
func CaptureContext(ctx context.Context, dir, name string, args ...string) (Capture, error) {
	log.FromContext(ctx).Command(name, args...)

	var stdout, stderr bytes.Buffer
	c := command(ctx, dir, name, args...)
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Capture{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, err
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}
