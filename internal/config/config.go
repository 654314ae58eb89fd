// Package config reads the hyprshot rc file.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Default values used when neither flags nor the rc file set them.
const (
	DefaultNotifyTimeout = 5 * time.Second
)

// Notify holds the notification text overrides.
type Notify struct {
	Title  string
	Body   string
	Action string
	Saved  string
}

// Tools holds the paths of the external programs. Empty means "look it up on PATH".
type Tools struct {
	Hyprctl    string
	Slurp      string
	Grim       string
	WLCopy     string
	Hyprpicker string
}

// Config holds the application configuration.
type Config struct {
	SaveDir       string
	NotifyTimeout time.Duration
	Delay         time.Duration
	Freeze        bool
	IncludeCursor bool
	Notify        Notify
	Tools         Tools
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		NotifyTimeout: DefaultNotifyTimeout,
		Freeze:        true,
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "notify_timeout = %d\n", c.NotifyTimeout.Milliseconds())
	if c.Delay > 0 {
		fmt.Fprintf(&sb, "delay = %g\n", c.Delay.Seconds())
	}
	fmt.Fprintf(&sb, "freeze = %v\n", c.Freeze)
	fmt.Fprintf(&sb, "include_cursor = %v\n", c.IncludeCursor)

	writeSection(&sb, "notify", [][2]string{
		{"title", c.Notify.Title},
		{"body", c.Notify.Body},
		{"action", c.Notify.Action},
		{"saved", quote(c.Notify.Saved)},
	})
	writeSection(&sb, "tools", [][2]string{
		{"hyprctl", c.Tools.Hyprctl},
		{"slurp", c.Tools.Slurp},
		{"grim", c.Tools.Grim},
		{"wl-copy", c.Tools.WLCopy},
		{"hyprpicker", c.Tools.Hyprpicker},
	})
	return sb.String()
}

// writeSection skips sections whose keys are all unset.
func writeSection(sb *strings.Builder, name string, kv [][2]string) {
	header := false
	for _, p := range kv {
		if p[1] == "" {
			continue
		}
		if !header {
			fmt.Fprintf(sb, "\n[%s]\n", name)
			header = true
		}
		fmt.Fprintf(sb, "%s = %s\n", p[0], p[1])
	}
}

func quote(s string) string {
	if s == "" {
		return ""
	}
	return `"` + s + `"`
}
