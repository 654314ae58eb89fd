//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"sync"
	"time"

	"golang.design/x/clipboard"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// System writes through golang.design/x/clipboard. The selection is owned by this
// process, so callers must Keep it alive until the user had a chance to paste.
type System struct {
	Hold time.Duration

	changed <-chan struct{}
}

// WriteImage implements Writer.
func (s *System) WriteImage(ctx context.Context, r io.Reader) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("clipboard image is not a PNG: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.changed = clipboard.Write(clipboard.FmtImage, data)
	return nil
}

// Keep implements Keeper. It returns once another client takes the selection.
func (s *System) Keep(ctx context.Context) {
	keep(ctx, s.changed, s.Hold)
}
