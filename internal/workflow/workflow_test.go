package workflow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/hyprshot/internal/geometry"
	"github.com/example/hyprshot/internal/platform"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(ev string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

type fakeCapturer struct {
	rec     *recorder
	err     error
	fileErr error
}

func (f *fakeCapturer) Capture(_ context.Context, rect geometry.Rect, w io.Writer) error {
	f.rec.add("capture " + rect.String())
	if f.err != nil {
		return f.err
	}
	_, err := w.Write(pngBytes)
	return err
}

func (f *fakeCapturer) CaptureFile(_ context.Context, rect geometry.Rect, path string) error {
	f.rec.add("capture-file " + rect.String() + " " + filepath.Base(path))
	if f.fileErr != nil {
		return f.fileErr
	}
	return os.WriteFile(path, pngBytes, 0o644)
}

type fakeClipboard struct {
	rec  *recorder
	data []byte
	err  error
}

func (f *fakeClipboard) WriteImage(_ context.Context, r io.Reader) error {
	f.rec.add("clipboard")
	if f.err != nil {
		return f.err
	}
	data, err := io.ReadAll(r)
	f.data = data
	return err
}

type fakeNotifier struct {
	rec       *recorder
	resp      platform.Response
	err       error
	savedPath string
}

func (f *fakeNotifier) Copied(context.Context, time.Duration) (platform.Response, error) {
	f.rec.add("notify copied")
	return f.resp, f.err
}

func (f *fakeNotifier) Saved(path string) error {
	f.rec.add("notify saved")
	f.savedPath = path
	return nil
}

type fakeHook struct {
	rec  *recorder
	args []string
	err  error
}

func (f *fakeHook) Run(_ context.Context, command []string, path string) error {
	f.rec.add("hook")
	f.args = append(append([]string{}, command...), path)
	return f.err
}

type fixture struct {
	rec      *recorder
	capturer *fakeCapturer
	clip     *fakeClipboard
	notifier *fakeNotifier
	hook     *fakeHook
	wf       *Workflow
}

func newFixture(resp platform.Response) *fixture {
	rec := &recorder{}
	f := &fixture{
		rec:      rec,
		capturer: &fakeCapturer{rec: rec},
		clip:     &fakeClipboard{rec: rec},
		notifier: &fakeNotifier{rec: rec, resp: resp},
		hook:     &fakeHook{rec: rec},
	}
	f.wf = &Workflow{
		Capturer:  f.capturer,
		Clipboard: f.clip,
		Notifier:  f.notifier,
		Hook:      f.hook,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return f
}

var rect = geometry.Rect{X: 100, Y: 50, Width: 300, Height: 200}

func TestRunSaveClicked(t *testing.T) {
	f := newFixture(platform.Response{Outcome: platform.Clicked, Action: "0"})
	dir := filepath.Join(t.TempDir(), "shots", "nested")
	res, err := f.wf.Run(context.Background(), Options{
		Rect:     rect,
		SaveDir:  dir,
		Filename: "2024-03-05-140709.png",
		PostSave: []string{"echo", "done"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := filepath.Join(dir, "2024-03-05-140709.png")
	if !res.Saved || res.Path != want {
		t.Fatalf("unexpected result %+v", res)
	}
	events := []string{
		"capture 100,50 300x200",
		"clipboard",
		"notify copied",
		"capture-file 100,50 300x200 2024-03-05-140709.png",
		"hook",
		"notify saved",
	}
	// The clipboard reader and the capture writer run concurrently.
	got := append([]string{}, f.rec.events...)
	if len(got) >= 2 && got[0] == "clipboard" {
		got[0], got[1] = got[1], got[0]
	}
	if !reflect.DeepEqual(got, events) {
		t.Fatalf("events = %v, want %v", f.rec.events, events)
	}
	if !bytes.Equal(f.clip.data, pngBytes) {
		t.Fatalf("clipboard received %q", f.clip.data)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if !reflect.DeepEqual(f.hook.args, []string{"echo", "done", want}) {
		t.Fatalf("hook args = %v", f.hook.args)
	}
	if f.notifier.savedPath != want {
		t.Fatalf("saved notification for %q", f.notifier.savedPath)
	}
}

func TestRunNoSave(t *testing.T) {
	tests := []struct {
		name string
		resp platform.Response
		err  error
	}{
		{"timed out", platform.Response{Outcome: platform.TimedOut}, nil},
		{"dismissed", platform.Response{Outcome: platform.Dismissed}, nil},
		{"empty action", platform.Response{Outcome: platform.Clicked, Action: ""}, nil},
		{"other action", platform.Response{Outcome: platform.Clicked, Action: "default"}, nil},
		{"notification error", platform.Response{}, errors.New("no daemon")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.resp)
			f.notifier.err = tt.err
			dir := filepath.Join(t.TempDir(), "never")
			res, err := f.wf.Run(context.Background(), Options{Rect: rect, SaveDir: dir})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Saved {
				t.Fatalf("unexpected save %+v", res)
			}
			for _, ev := range f.rec.events {
				if strings.HasPrefix(ev, "capture-file") || ev == "hook" || ev == "notify saved" {
					t.Fatalf("unexpected event %q", ev)
				}
			}
			if _, err := os.Stat(dir); !os.IsNotExist(err) {
				t.Fatalf("save dir should not exist: %v", err)
			}
		})
	}
}

func TestRunClipboardOnly(t *testing.T) {
	f := newFixture(platform.Response{Outcome: platform.Clicked, Action: "0"})
	if _, err := f.wf.Run(context.Background(), Options{Rect: rect, ClipboardOnly: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, ev := range f.rec.events {
		if strings.HasPrefix(ev, "notify") {
			t.Fatalf("clipboard only run should not notify, got %v", f.rec.events)
		}
	}
}

func TestRunCaptureFailure(t *testing.T) {
	f := newFixture(platform.Response{Outcome: platform.Clicked, Action: "0"})
	boom := errors.New("grim failed")
	f.capturer.err = boom
	_, err := f.wf.Run(context.Background(), Options{Rect: rect, SaveDir: t.TempDir()})
	if !errors.Is(err, boom) {
		t.Fatalf("expected capture error, got %v", err)
	}
	for _, ev := range f.rec.events {
		if strings.HasPrefix(ev, "notify") {
			t.Fatalf("failed capture must not notify")
		}
	}
}

func TestRunClipboardFailure(t *testing.T) {
	f := newFixture(platform.Response{})
	f.clip.err = errors.New("wl-copy missing")
	_, err := f.wf.Run(context.Background(), Options{Rect: rect})
	if err == nil || !strings.Contains(err.Error(), "copy to clipboard") {
		t.Fatalf("expected clipboard error, got %v", err)
	}
}

func TestRunSaveDirFailure(t *testing.T) {
	f := newFixture(platform.Response{Outcome: platform.Clicked, Action: "0"})
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := f.wf.Run(context.Background(), Options{Rect: rect, SaveDir: filepath.Join(blocker, "sub")})
	if err == nil {
		t.Fatalf("expected error creating save directory")
	}
	for _, ev := range f.rec.events {
		if strings.HasPrefix(ev, "capture-file") {
			t.Fatalf("capture should not run without a directory")
		}
	}
}

func TestRunHookFailureIsNotFatal(t *testing.T) {
	f := newFixture(platform.Response{Outcome: platform.Clicked, Action: "0"})
	f.hook.err = errors.New("exit status 3")
	res, err := f.wf.Run(context.Background(), Options{Rect: rect, SaveDir: t.TempDir(), PostSave: []string{"false"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Saved {
		t.Fatalf("expected save despite hook failure")
	}
	if f.rec.events[len(f.rec.events)-1] != "notify saved" {
		t.Fatalf("confirmation should still be shown: %v", f.rec.events)
	}
}

func TestRunEmptyRect(t *testing.T) {
	f := newFixture(platform.Response{})
	if _, err := f.wf.Run(context.Background(), Options{}); !errors.Is(err, geometry.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if len(f.rec.events) != 0 {
		t.Fatalf("nothing should run: %v", f.rec.events)
	}
}

func TestRaw(t *testing.T) {
	f := newFixture(platform.Response{})
	var out bytes.Buffer
	if err := f.wf.Raw(context.Background(), rect, &out); err != nil {
		t.Fatalf("Raw: %v", err)
	}
	if !bytes.Equal(out.Bytes(), pngBytes) {
		t.Fatalf("unexpected output %q", out.Bytes())
	}
	if !reflect.DeepEqual(f.rec.events, []string{"capture 100,50 300x200"}) {
		t.Fatalf("events = %v", f.rec.events)
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)
	if got := Filename(ts); got != "2024-03-05-140709.png" {
		t.Fatalf("Filename = %q", got)
	}
}

// keepingClipboard serves the selection from the process, like the cgo fallback.
type keepingClipboard struct {
	fakeClipboard
}

func (k *keepingClipboard) Keep(context.Context) {
	k.rec.add("keep")
}

func TestRunKeepsInProcessClipboard(t *testing.T) {
	tests := []struct {
		name string
		resp platform.Response
		err  error
		opts Options
	}{
		{"clipboard only", platform.Response{}, nil, Options{ClipboardOnly: true}},
		{"dismissed", platform.Response{Outcome: platform.Dismissed}, nil, Options{}},
		{"notification error", platform.Response{}, errors.New("no daemon"), Options{}},
		{"saved", platform.Response{Outcome: platform.Clicked, Action: "0"}, nil, Options{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.resp)
			f.notifier.err = tt.err
			clip := &keepingClipboard{fakeClipboard{rec: f.rec}}
			f.wf.Clipboard = clip
			opts := tt.opts
			opts.Rect = rect
			opts.SaveDir = t.TempDir()
			if _, err := f.wf.Run(context.Background(), opts); err != nil {
				t.Fatalf("Run: %v", err)
			}
			events := f.rec.events
			if events[len(events)-1] != "keep" {
				t.Fatalf("clipboard should be kept alive last, got %v", events)
			}
		})
	}
}

func TestRunDoesNotKeepOnCopyFailure(t *testing.T) {
	f := newFixture(platform.Response{})
	clip := &keepingClipboard{fakeClipboard{rec: f.rec, err: errors.New("no display")}}
	f.wf.Clipboard = clip
	if _, err := f.wf.Run(context.Background(), Options{Rect: rect}); err == nil {
		t.Fatalf("expected clipboard error")
	}
	for _, ev := range f.rec.events {
		if ev == "keep" {
			t.Fatalf("nothing to keep after a failed copy")
		}
	}
}
