// Package selector runs slurp to let the user pick a region, an output or one of a set
// of boxes.
package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/example/hyprshot/internal/geometry"
)

// ErrCancelled is returned when the user dismisses the selection.
var ErrCancelled = errors.New("selection cancelled")

// Slurp runs the slurp region selector.
type Slurp struct {
	Path string
	// Exited is invoked the moment the slurp process ends, before its output is parsed.
	Exited func()

	run func(ctx context.Context, stdin io.Reader, args ...string) (string, error)
}

// New returns a selector backed by the slurp binary at path.
func New(path string) *Slurp {
	if strings.TrimSpace(path) == "" {
		path = "slurp"
	}
	return &Slurp{Path: path}
}

// Region lets the user drag an arbitrary rectangle.
func (s *Slurp) Region(ctx context.Context) (geometry.Rect, error) {
	return s.selectRect(ctx, nil, "-d")
}

// Output lets the user click one output.
func (s *Slurp) Output(ctx context.Context) (geometry.Rect, error) {
	return s.selectRect(ctx, nil, "-o", "-r")
}

// Pick restricts the selection to the given boxes.
func (s *Slurp) Pick(ctx context.Context, boxes []geometry.Rect) (geometry.Rect, error) {
	if len(boxes) == 0 {
		return geometry.Rect{}, errors.New("no candidate boxes to pick from")
	}
	var buf bytes.Buffer
	for _, b := range boxes {
		fmt.Fprintln(&buf, b.String())
	}
	return s.selectRect(ctx, &buf, "-r")
}

func (s *Slurp) selectRect(ctx context.Context, stdin io.Reader, args ...string) (geometry.Rect, error) {
	run := s.run
	if run == nil {
		run = s.exec
	}
	out, err := run(ctx, stdin, args...)
	if s.Exited != nil {
		s.Exited()
	}
	if err != nil {
		if ctx.Err() != nil {
			return geometry.Rect{}, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return geometry.Rect{}, ErrCancelled
		}
		return geometry.Rect{}, fmt.Errorf("run %s: %w", s.Path, err)
	}
	rect, err := geometry.Parse(out)
	if errors.Is(err, geometry.ErrEmpty) {
		return geometry.Rect{}, ErrCancelled
	}
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("%s output: %w", s.Path, err)
	}
	return rect, nil
}

func (s *Slurp) exec(ctx context.Context, stdin io.Reader, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, s.Path, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	out, err := cmd.Output()
	return string(out), err
}
