// Package workflow runs one screenshot: copy to the clipboard, offer to save, save.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/example/hyprshot/internal/clipboard"
	"github.com/example/hyprshot/internal/geometry"
	"github.com/example/hyprshot/internal/notify"
	"github.com/example/hyprshot/internal/platform"
)

// FilenameLayout formats the capture start time into the default file name.
const FilenameLayout = "2006-01-02-150405.png"

// Capturer records a rectangle of the screen as PNG.
type Capturer interface {
	Capture(ctx context.Context, rect geometry.Rect, w io.Writer) error
	CaptureFile(ctx context.Context, rect geometry.Rect, path string) error
}

// Notifier shows the clipboard prompt and the save confirmation.
type Notifier interface {
	Copied(ctx context.Context, timeout time.Duration) (platform.Response, error)
	Saved(path string) error
}

// Workflow wires the capture tool, the clipboard and the notifications together.
type Workflow struct {
	Capturer  Capturer
	Clipboard clipboard.Writer
	Notifier  Notifier
	Hook      Hook
	Logger    *slog.Logger
}

// Options describes a single run.
type Options struct {
	Rect     geometry.Rect
	SaveDir  string
	Filename string
	Timeout  time.Duration
	// PostSave is run with the saved path appended after a successful save.
	PostSave []string
	// ClipboardOnly skips the save prompt.
	ClipboardOnly bool
}

// Result reports what happened after the clipboard copy.
type Result struct {
	Saved bool
	Path  string
}

// Filename returns the default file name for a capture started at t.
func Filename(t time.Time) string {
	return t.Format(FilenameLayout)
}

// Run captures opts.Rect into the clipboard and, when the user asks for it from the
// notification, captures it again into SaveDir.
func (w *Workflow) Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Rect.Empty() {
		return Result{}, fmt.Errorf("capture %s: %w", opts.Rect, geometry.ErrEmpty)
	}
	if err := w.copy(ctx, opts.Rect); err != nil {
		return Result{}, err
	}
	w.logger().Debug("copied to clipboard", slog.String("geometry", opts.Rect.String()))
	defer w.keepClipboard(ctx)
	if opts.ClipboardOnly || w.Notifier == nil {
		return Result{}, nil
	}

	resp, err := w.Notifier.Copied(ctx, opts.Timeout)
	if err != nil {
		w.logger().Warn("notification failed, not offering to save", slog.Any("err", err))
		return Result{}, nil
	}
	w.logger().Debug("notification finished", slog.String("outcome", resp.Outcome.String()), slog.String("action", resp.Action))
	if !resp.Chose(notify.SaveAction) {
		return Result{}, nil
	}

	path, err := w.save(ctx, opts)
	if err != nil {
		return Result{}, err
	}
	return Result{Saved: true, Path: path}, nil
}

// Raw writes the PNG of rect to out without touching the clipboard or notifications.
func (w *Workflow) Raw(ctx context.Context, rect geometry.Rect, out io.Writer) error {
	return w.Capturer.Capture(ctx, rect, out)
}

func (w *Workflow) copy(ctx context.Context, rect geometry.Rect) error {
	pr, pw := io.Pipe()
	captured := make(chan error, 1)
	go func() {
		err := w.Capturer.Capture(ctx, rect, pw)
		pw.CloseWithError(err)
		captured <- err
	}()
	copyErr := w.Clipboard.WriteImage(ctx, pr)
	// Unblock the capture if the clipboard stopped reading early.
	pr.CloseWithError(errors.Join(copyErr, io.ErrClosedPipe))
	captureErr := <-captured
	// A failed capture surfaces through the clipboard reader too; report the cause.
	if captureErr != nil && (copyErr == nil || errors.Is(copyErr, captureErr)) {
		return captureErr
	}
	if copyErr != nil {
		return fmt.Errorf("copy to clipboard: %w", copyErr)
	}
	return nil
}

func (w *Workflow) save(ctx context.Context, opts Options) (string, error) {
	if err := os.MkdirAll(opts.SaveDir, 0o755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	name := opts.Filename
	if name == "" {
		name = Filename(time.Now())
	}
	path := filepath.Join(opts.SaveDir, name)
	if err := w.Capturer.CaptureFile(ctx, opts.Rect, path); err != nil {
		return "", err
	}
	w.logger().Debug("saved image", slog.String("path", path))

	if len(opts.PostSave) > 0 && w.Hook != nil {
		if err := w.Hook.Run(ctx, opts.PostSave, path); err != nil {
			w.logger().Warn("post-save command failed", slog.String("command", opts.PostSave[0]), slog.Any("err", err))
		}
	}
	if w.Notifier != nil {
		if err := w.Notifier.Saved(path); err != nil {
			w.logger().Warn("save notification failed", slog.Any("err", err))
		}
	}
	return path, nil
}

// keepClipboard blocks while an in-process clipboard still serves the image, so the
// copy outlives the run.
func (w *Workflow) keepClipboard(ctx context.Context) {
	k, ok := w.Clipboard.(clipboard.Keeper)
	if !ok {
		return
	}
	w.logger().Debug("serving clipboard until the selection is replaced")
	k.Keep(ctx)
}

func (w *Workflow) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
