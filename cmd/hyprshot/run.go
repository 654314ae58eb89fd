package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/example/hyprshot/internal/capture"
	"github.com/example/hyprshot/internal/clipboard"
	"github.com/example/hyprshot/internal/compositor"
	"github.com/example/hyprshot/internal/config"
	"github.com/example/hyprshot/internal/freeze"
	"github.com/example/hyprshot/internal/notify"
	"github.com/example/hyprshot/internal/selector"
	"github.com/example/hyprshot/internal/target"
	"github.com/example/hyprshot/internal/workflow"
)

// RunConfig is the parsed command line merged with the rc file.
type RunConfig struct {
	Target        target.Target
	Delay         time.Duration
	Debug         bool
	NotifyTimeout time.Duration
	PostSave      []string
	SaveDir       string
	Filename      string
	Raw           bool
	ClipboardOnly bool
	Freeze        bool
	IncludeCursor bool
	Tools         config.Tools
	Notify        notify.Preferences
}

// LogValue keeps the debug line compact.
func (rc RunConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("target", rc.Target.String()),
		slog.Duration("delay", rc.Delay),
		slog.Duration("notify_timeout", rc.NotifyTimeout),
		slog.String("save_dir", rc.SaveDir),
		slog.Any("post_save", rc.PostSave),
		slog.Bool("raw", rc.Raw),
		slog.Bool("clipboard_only", rc.ClipboardOnly),
		slog.Bool("freeze", rc.Freeze),
	)
}

// freezer is a running freeze helper; *freeze.Supervisor satisfies it.
type freezer interface {
	Release()
	ReleaseOn(done <-chan struct{})
}

// deps are the collaborators of one run.
type deps struct {
	compositor  compositor.Backend
	newSelector func(exited func()) target.RegionSelector
	startFreeze func(ctx context.Context, opts freeze.Options) (freezer, error)
	capturer    workflow.Capturer
	clipboard   clipboard.Writer
	notifier    workflow.Notifier
	hook        workflow.Hook
}

var (
	now           = time.Now
	newCompositor = func(path string) compositor.Backend { return compositor.NewHyprctl(path) }
	newDeps       = defaultDeps
)

func defaultDeps(rc RunConfig, comp compositor.Backend, logger *slog.Logger) deps {
	notifier := notify.New(rc.Notify)
	notifier.Logger = logger
	return deps{
		compositor: comp,
		newSelector: func(exited func()) target.RegionSelector {
			s := selector.New(rc.Tools.Slurp)
			s.Exited = exited
			return s
		},
		startFreeze: startFreeze,
		capturer:    capture.NewGrim(rc.Tools.Grim, capture.Options{IncludeCursor: rc.IncludeCursor}),
		clipboard:   clipboard.New(rc.Tools.WLCopy),
		notifier:    notifier,
		hook:        workflow.Command{},
	}
}

// startFreeze hides a missing helper behind a nil interface.
func startFreeze(ctx context.Context, opts freeze.Options) (freezer, error) {
	s, err := freeze.Start(ctx, opts)
	if s == nil {
		return nil, err
	}
	return s, err
}

// execute runs one capture: freeze, resolve, unfreeze, wait, then copy and offer to save.
func execute(ctx context.Context, rc RunConfig, d deps, stdout io.Writer, logger *slog.Logger) error {
	started := now()

	var sup freezer = noFreeze{}
	if rc.Freeze && rc.Target.Interactive() {
		s, err := d.startFreeze(ctx, freeze.Options{Path: rc.Tools.Hyprpicker, Logger: logger})
		if err != nil {
			logger.Warn("freeze helper failed to start", slog.Any("err", err))
		}
		if s != nil {
			sup = s
		}
	}
	defer sup.Release()

	selectorDone := make(chan struct{})
	var once sync.Once
	sup.ReleaseOn(selectorDone)
	resolver := &target.Resolver{
		Compositor: d.compositor,
		Selector:   d.newSelector(func() { once.Do(func() { close(selectorDone) }) }),
		Logger:     logger,
	}
	rect, err := resolver.Resolve(ctx, rc.Target)
	sup.Release()
	if err != nil {
		return fmt.Errorf("%s: %w", rc.Target, err)
	}

	if err := wait(ctx, rc.Delay); err != nil {
		return err
	}

	wf := &workflow.Workflow{
		Capturer:  d.capturer,
		Clipboard: d.clipboard,
		Notifier:  d.notifier,
		Hook:      d.hook,
		Logger:    logger,
	}
	if rc.Raw {
		return wf.Raw(ctx, rect, stdout)
	}

	filename := rc.Filename
	if filename == "" {
		filename = workflow.Filename(started)
	}
	res, err := wf.Run(ctx, workflow.Options{
		Rect:          rect,
		SaveDir:       rc.SaveDir,
		Filename:      filename,
		Timeout:       rc.NotifyTimeout,
		PostSave:      rc.PostSave,
		ClipboardOnly: rc.ClipboardOnly,
	})
	if err != nil {
		return err
	}
	if res.Saved {
		logger.Debug("screenshot saved", slog.String("path", res.Path))
	}
	return nil
}

type noFreeze struct{}

func (noFreeze) Release() {}
func (noFreeze) ReleaseOn(<-chan struct{}) {}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
