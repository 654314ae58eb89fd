// Package capture turns a layout rectangle into PNG pixels using grim.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/example/hyprshot/internal/geometry"
)

// Options tweaks what grim records.
type Options struct {
	IncludeCursor bool
}

// Grim runs the grim screenshot tool.
type Grim struct {
	Path string
	Opts Options

	run func(ctx context.Context, stdout io.Writer, args ...string) error
}

// NewGrim returns a capturer backed by the grim binary at path.
func NewGrim(path string, opts Options) *Grim {
	if strings.TrimSpace(path) == "" {
		path = "grim"
	}
	return &Grim{Path: path, Opts: opts}
}

// Capture writes a PNG of rect to w.
func (g *Grim) Capture(ctx context.Context, rect geometry.Rect, w io.Writer) error {
	if rect.Empty() {
		return fmt.Errorf("capture %s: %w", rect, geometry.ErrEmpty)
	}
	if err := g.invoke(ctx, w, g.args(rect, "-")...); err != nil {
		return fmt.Errorf("capture %s: %w", rect, err)
	}
	return nil
}

// CaptureFile writes a PNG of rect to path.
func (g *Grim) CaptureFile(ctx context.Context, rect geometry.Rect, path string) error {
	if rect.Empty() {
		return fmt.Errorf("capture %s: %w", rect, geometry.ErrEmpty)
	}
	if err := g.invoke(ctx, nil, g.args(rect, path)...); err != nil {
		return fmt.Errorf("capture %s to %s: %w", rect, path, err)
	}
	return nil
}

func (g *Grim) args(rect geometry.Rect, dest string) []string {
	args := []string{"-g", rect.String()}
	if g.Opts.IncludeCursor {
		args = append(args, "-c")
	}
	return append(args, dest)
}

func (g *Grim) invoke(ctx context.Context, stdout io.Writer, args ...string) error {
	run := g.run
	if run == nil {
		run = g.exec
	}
	return run(ctx, stdout, args...)
}

func (g *Grim) exec(ctx context.Context, stdout io.Writer, args ...string) error {
	cmd := exec.CommandContext(ctx, g.Path, args...)
	cmd.Stdout = stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", g.Path, err, msg)
		}
		return fmt.Errorf("%s: %w", g.Path, err)
	}
	return nil
}
