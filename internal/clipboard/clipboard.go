// Package clipboard publishes captured PNG data to the desktop clipboard.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// MIMEType is the type advertised for captured images.
const MIMEType = "image/png"

// Writer accepts PNG bytes and exposes them as clipboard image content.
type Writer interface {
	WriteImage(ctx context.Context, r io.Reader) error
}

// Keeper is implemented by writers that serve the selection from this process. Keep
// blocks until the content is replaced, ctx is done or the writer's hold time passes.
type Keeper interface {
	Keep(ctx context.Context)
}

// DefaultHold is how long System keeps serving an image nobody has replaced.
const DefaultHold = time.Minute

var lookPath = exec.LookPath

// stderrWaitDelay bounds how long WLCopy waits for stderr after wl-copy itself exits.
const stderrWaitDelay = 200 * time.Millisecond

// New picks wl-copy when it is installed and falls back to the in-process clipboard.
func New(wlCopyPath string) Writer {
	if strings.TrimSpace(wlCopyPath) == "" {
		wlCopyPath = "wl-copy"
	}
	if resolved, err := lookPath(wlCopyPath); err == nil {
		return &WLCopy{Path: resolved}
	}
	return &System{Hold: DefaultHold}
}

// WLCopy pipes data into wl-copy, which forks to keep serving the selection after we exit.
type WLCopy struct {
	Path string
}

// WriteImage implements Writer.
func (w *WLCopy) WriteImage(ctx context.Context, r io.Reader) error {
	cmd := exec.CommandContext(ctx, w.Path, "--type", MIMEType)
	cmd.Stdin = r
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// The forked server inherits stderr and holds it open until the selection changes.
	cmd.WaitDelay = stderrWaitDelay
	if err := cmd.Run(); err != nil && !errors.Is(err, exec.ErrWaitDelay) {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", w.Path, err, msg)
		}
		return fmt.Errorf("%s: %w", w.Path, err)
	}
	return nil
}

func keep(ctx context.Context, changed <-chan struct{}, hold time.Duration) {
	if changed == nil || hold <= 0 {
		return
	}
	t := time.NewTimer(hold)
	defer t.Stop()
	select {
	case <-changed:
	case <-ctx.Done():
	case <-t.C:
	}
}
