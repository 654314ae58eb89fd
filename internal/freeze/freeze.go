// Package freeze keeps the screen frozen with hyprpicker while a selection is in progress.
package freeze

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSettle is how long the helper gets to paint its frozen frame.
const DefaultSettle = 200 * time.Millisecond

var (
	lookPath = exec.LookPath
	sleep    = time.Sleep
)

// Options configures the freeze helper.
type Options struct {
	Path   string
	Args   []string
	Settle time.Duration
	Logger *slog.Logger
}

// Supervisor owns a running freeze helper.
type Supervisor struct {
	cmd      *exec.Cmd
	logger   *slog.Logger
	once     sync.Once
	released atomic.Bool
	exited   chan struct{}
}

// Start launches the helper. It returns a nil Supervisor and no error when the helper is
// not installed.
func Start(ctx context.Context, opts Options) (*Supervisor, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	path := opts.Path
	if path == "" {
		path = "hyprpicker"
	}
	resolved, err := lookPath(path)
	if err != nil {
		logger.Debug("freeze helper unavailable", slog.String("path", path), slog.String("err", err.Error()))
		return nil, nil
	}
	args := opts.Args
	if args == nil {
		args = []string{"-r", "-z"}
	}
	cmd := exec.CommandContext(ctx, resolved, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	s := &Supervisor{cmd: cmd, logger: logger, exited: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(s.exited)
	}()
	logger.Debug("freeze helper started", slog.String("path", resolved), slog.Int("pid", cmd.Process.Pid))
	settle := opts.Settle
	if settle == 0 {
		settle = DefaultSettle
	}
	if settle > 0 {
		sleep(settle)
	}
	return s, nil
}

// Running reports whether the supervisor still tracks a live helper.
func (s *Supervisor) Running() bool {
	if s == nil || s.released.Load() {
		return false
	}
	select {
	case <-s.exited:
		return false
	default:
		return true
	}
}

// Release terminates the helper. It is safe to call more than once and on a nil
// Supervisor, and a helper that has already exited is not an error.
func (s *Supervisor) Release() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.released.Store(true)
		select {
		case <-s.exited:
			return
		default:
		}
		if err := s.cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
			s.logger.Debug("interrupt freeze helper", slog.String("err", err.Error()))
		}
		select {
		case <-s.exited:
		case <-time.After(time.Second):
			if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				s.logger.Warn("kill freeze helper", slog.String("err", err.Error()))
			}
			<-s.exited
		}
		s.logger.Debug("freeze helper released")
	})
}

// ReleaseOn releases the helper once done is closed. It returns immediately.
func (s *Supervisor) ReleaseOn(done <-chan struct{}) {
	if s == nil {
		return
	}
	go func() {
		<-done
		s.Release()
	}()
}
