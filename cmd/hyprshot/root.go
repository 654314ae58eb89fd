package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/hyprshot/internal/compositor"
	"github.com/example/hyprshot/internal/config"
	"github.com/example/hyprshot/internal/notify"
	"github.com/example/hyprshot/internal/target"
)

type rootFlags struct {
	modes         []string
	delay         float64
	debug         bool
	timeoutMS     int
	outputDir     string
	filename      string
	raw           bool
	clipboardOnly bool
	noFreeze      bool
	configPath    string
}

type rootCmd struct {
	*cobra.Command
	stdout io.Writer
	stderr io.Writer
	flags  rootFlags
}

func newRootCmd(stdout, stderr io.Writer) *rootCmd {
	r := &rootCmd{stdout: stdout, stderr: stderr}
	r.Command = &cobra.Command{
		Use:           "hyprshot",
		Short:         "Take screenshots in Hyprland using your mouse",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          r.checkArgs,
		RunE:          r.runE,
	}
	r.SetOut(stdout)
	r.SetErr(stderr)
	r.SetVersionTemplate(versionTemplate("hyprshot"))
	r.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(r, err, exitFailure)
	})

	fs := r.Flags()
	fs.SortFlags = false
	fs.StringArrayVarP(&r.flags.modes, "mode", "m", nil, "one of: output, window, region, active, OUTPUT_NAME (repeatable)")
	fs.StringVarP(&r.flags.outputDir, "output-folder", "o", "", "directory in which to save the screenshot")
	fs.StringVarP(&r.flags.filename, "filename", "f", "", "the file `name` of the resulting screenshot")
	fs.Float64VarP(&r.flags.delay, "delay", "D", 0, "how many `seconds` to wait before taking the screenshot")
	fs.BoolVarP(&r.flags.debug, "debug", "d", false, "print debug information")
	fs.IntVarP(&r.flags.timeoutMS, "notif-timeout", "t", int(config.DefaultNotifyTimeout/time.Millisecond), "notification timeout in `milliseconds`")
	fs.BoolVarP(&r.flags.raw, "raw", "r", false, "output raw image data to stdout")
	fs.BoolVar(&r.flags.clipboardOnly, "clipboard-only", false, "copy the screenshot to the clipboard without offering to save it")
	fs.BoolVar(&r.flags.noFreeze, "no-freeze", false, "do not freeze the screen while selecting")
	fs.StringVar(&r.flags.configPath, "config", configPathOverride, "read settings from this rc `file`")
	r.InitDefaultHelpFlag()
	r.InitDefaultVersionFlag()
	installHelp(r)
	return r
}

// checkArgs rejects positional arguments before "--".
func (r *rootCmd) checkArgs(c *cobra.Command, args []string) error {
	stray := args
	if dash := c.ArgsLenAtDash(); dash >= 0 {
		stray = args[:dash]
	}
	if len(stray) > 0 {
		return usageError(r, fmt.Errorf("unexpected argument %q", stray[0]), exitFailure)
	}
	return nil
}

func (r *rootCmd) runE(c *cobra.Command, args []string) error {
	var postSave []string
	if dash := c.ArgsLenAtDash(); dash >= 0 {
		postSave = args[dash:]
	}

	level := slog.LevelWarn
	if r.flags.debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level, r.stderr)

	if !target.HasMode(r.flags.modes) {
		return usageError(r, target.ErrNoMode, exitNoMode)
	}

	cfg, err := config.NewLoader(version, r.flags.configPath).Load()
	if err != nil {
		logger.Warn("failed to load config, using defaults", slog.Any("err", err))
		cfg = config.New()
	}

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comp := newCompositor(cfg.Tools.Hyprctl)
	rc, err := r.buildRunConfig(ctx, c, cfg, comp, postSave)
	if err != nil {
		return err
	}
	logger.Debug("run config", slog.Any("config", rc))
	return execute(ctx, rc, newDeps(rc, comp, logger), r.stdout, logger)
}

// buildRunConfig merges flags over the rc file. The result is not modified afterwards.
func (r *rootCmd) buildRunConfig(ctx context.Context, c *cobra.Command, cfg *config.Config, comp compositor.Backend, postSave []string) (RunConfig, error) {
	var outputs []string
	if target.NeedsOutputs(r.flags.modes) {
		monitors, err := comp.Monitors(ctx)
		if err != nil {
			return RunConfig{}, fmt.Errorf("list outputs: %w", err)
		}
		outputs = compositor.Names(monitors)
	}
	t, err := target.Parse(r.flags.modes, outputs)
	switch {
	case errors.Is(err, target.ErrNoMode):
		return RunConfig{}, usageError(r, err, exitNoMode)
	case err != nil:
		return RunConfig{}, usageError(r, err, exitFailure)
	}

	delay := cfg.Delay
	if c.Flags().Changed("delay") {
		if r.flags.delay < 0 {
			return RunConfig{}, usageError(r, fmt.Errorf("invalid delay %v: must not be negative", r.flags.delay), exitFailure)
		}
		delay = time.Duration(r.flags.delay * float64(time.Second))
	}
	timeout := cfg.NotifyTimeout
	if c.Flags().Changed("notif-timeout") {
		if r.flags.timeoutMS < 0 {
			return RunConfig{}, usageError(r, fmt.Errorf("invalid notification timeout %d", r.flags.timeoutMS), exitFailure)
		}
		timeout = time.Duration(r.flags.timeoutMS) * time.Millisecond
	}
	filename := strings.TrimSpace(r.flags.filename)
	if strings.ContainsRune(filename, os.PathSeparator) {
		return RunConfig{}, usageError(r, fmt.Errorf("file name %q must not contain a path separator", filename), exitFailure)
	}

	prefs := notify.Preferences{
		Title:       cfg.Notify.Title,
		CopiedText:  cfg.Notify.Body,
		SaveLabel:   cfg.Notify.Action,
		SavedFormat: cfg.Notify.Saved,
	}
	return RunConfig{
		Target:        t,
		Delay:         delay,
		Debug:         r.flags.debug,
		NotifyTimeout: timeout,
		PostSave:      postSave,
		SaveDir:       cfg.ResolveSaveDir(r.flags.outputDir),
		Filename:      filename,
		Raw:           r.flags.raw,
		ClipboardOnly: r.flags.clipboardOnly,
		Freeze:        cfg.Freeze && !r.flags.noFreeze,
		IncludeCursor: cfg.IncludeCursor,
		Tools:         cfg.Tools,
		Notify:        prefs.ApplyEnv(),
	}, nil
}
