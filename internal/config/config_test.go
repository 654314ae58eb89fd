package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	input := `
# hyprshot settings
save_dir = /tmp/screens
notify_timeout = 8000
delay: 1.5
freeze = false
include_cursor = true

[notify]
title = Shots
body = "Copied!"
action = Keep it
saved = "Stored at %s"

[tools]
grim = /usr/local/bin/grim
wl-copy = /opt/wl-copy
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.SaveDir != "/tmp/screens" {
		t.Errorf("Expected save_dir '/tmp/screens', got '%s'", cfg.SaveDir)
	}
	if cfg.NotifyTimeout != 8*time.Second {
		t.Errorf("unexpected notify timeout %v", cfg.NotifyTimeout)
	}
	if cfg.Delay != 1500*time.Millisecond {
		t.Errorf("unexpected delay %v", cfg.Delay)
	}
	if cfg.Freeze {
		t.Error("Expected freeze to be false")
	}
	if !cfg.IncludeCursor {
		t.Error("Expected include_cursor to be true")
	}
	want := Notify{Title: "Shots", Body: "Copied!", Action: "Keep it", Saved: "Stored at %s"}
	if cfg.Notify != want {
		t.Errorf("notify = %+v, want %+v", cfg.Notify, want)
	}
	if cfg.Tools.Grim != "/usr/local/bin/grim" || cfg.Tools.WLCopy != "/opt/wl-copy" || cfg.Tools.Slurp != "" {
		t.Errorf("unexpected tools %+v", cfg.Tools)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.NotifyTimeout != DefaultNotifyTimeout || !cfg.Freeze || cfg.Delay != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"notify_timeout = soon",
		"notify_timeout = -1",
		"delay = -2",
		"freeze = maybe",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `save_dir = /home/user/shots
notify_timeout = 2500
delay = 3
include_cursor = true

[notify]
saved = "Saved %s"

[tools]
slurp = /usr/bin/slurp
hyprpicker = /usr/bin/hyprpicker
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if *cfg != *cfg2 {
		t.Errorf("config mismatch:\n%+v\n%+v", cfg, cfg2)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg := filepath.Join(dir, "hyprshot", "config.rc")
	if err := os.MkdirAll(filepath.Dir(xdg), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xdg, []byte("save_dir = /from/xdg\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader("1.0.0", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SaveDir != "/from/xdg" {
		t.Fatalf("expected xdg config, got %q", cfg.SaveDir)
	}

	override := filepath.Join(t.TempDir(), "custom.rc")
	if err := os.WriteFile(override, []byte("save_dir = /from/override\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = NewLoader("1.0.0", override).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SaveDir != "/from/override" {
		t.Fatalf("expected override config, got %q", cfg.SaveDir)
	}
}

func TestLoaderMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := NewLoader("1.0.0", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NotifyTimeout != DefaultNotifyTimeout {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestResolveSaveDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfgHome := filepath.Join(home, ".config")
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_PICTURES_DIR", "")
	t.Setenv(SaveDirEnv, "")

	cfg := New()
	if got := cfg.ResolveSaveDir(""); got != filepath.Join(home, "Pictures") {
		t.Fatalf("fallback = %q", got)
	}

	if err := os.MkdirAll(cfgHome, 0o755); err != nil {
		t.Fatal(err)
	}
	dirs := "# written by xdg-user-dirs-update\nXDG_DESKTOP_DIR=\"$HOME/Desktop\"\nXDG_PICTURES_DIR=\"$HOME/Images\"\n"
	if err := os.WriteFile(filepath.Join(cfgHome, "user-dirs.dirs"), []byte(dirs), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := cfg.ResolveSaveDir(""); got != filepath.Join(home, "Images") {
		t.Fatalf("user-dirs = %q", got)
	}

	t.Setenv("XDG_PICTURES_DIR", "/env/pictures")
	if got := cfg.ResolveSaveDir(""); got != "/env/pictures" {
		t.Fatalf("XDG_PICTURES_DIR = %q", got)
	}

	cfg.SaveDir = "~/shots"
	if got := cfg.ResolveSaveDir(""); got != filepath.Join(home, "shots") {
		t.Fatalf("config = %q", got)
	}

	t.Setenv(SaveDirEnv, "/env/hyprshot")
	if got := cfg.ResolveSaveDir(""); got != "/env/hyprshot" {
		t.Fatalf("HYPRSHOT_DIR = %q", got)
	}

	if got := cfg.ResolveSaveDir("/flag/dir"); got != "/flag/dir" {
		t.Fatalf("flag = %q", got)
	}
}

func TestPicturesDirExpandsHomeFromUserDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_PICTURES_DIR", "")

	for _, line := range []string{
		`XDG_PICTURES_DIR="$HOME/Pictures"`,
		`XDG_PICTURES_DIR="${HOME}/Pictures"`,
	} {
		if err := os.WriteFile(filepath.Join(cfgHome, "user-dirs.dirs"), []byte(line+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if got, want := PicturesDir(), filepath.Join(home, "Pictures"); got != want {
			t.Errorf("%s: PicturesDir = %q, want %q", line, got, want)
		}
	}
}
