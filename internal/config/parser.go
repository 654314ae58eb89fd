package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "":
			err = setRootField(cfg, key, value)
		case "notify":
			setNotifyField(&cfg.Notify, key, value)
		case "tools":
			setToolField(&cfg.Tools, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "save_dir":
		cfg.SaveDir = value
	case "notify_timeout":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			return fmt.Errorf("invalid notify_timeout %q: want milliseconds", value)
		}
		cfg.NotifyTimeout = time.Duration(ms) * time.Millisecond
	case "delay":
		d, err := ParseSeconds(value)
		if err != nil {
			return fmt.Errorf("invalid delay: %w", err)
		}
		cfg.Delay = d
	case "freeze":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		cfg.Freeze = b
	case "include_cursor":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		cfg.IncludeCursor = b
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) {
	switch key {
	case "title":
		n.Title = value
	case "body":
		n.Body = value
	case "action":
		n.Action = value
	case "saved":
		n.Saved = value
	}
}

func setToolField(t *Tools, key, value string) {
	switch key {
	case "hyprctl":
		t.Hyprctl = value
	case "slurp":
		t.Slurp = value
	case "grim":
		t.Grim = value
	case "wl-copy", "wl_copy":
		t.WLCopy = value
	case "hyprpicker":
		t.Hyprpicker = value
	}
}

// ParseSeconds parses a non-negative number of seconds such as "3" or "0.5".
func ParseSeconds(value string) (time.Duration, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number of seconds", value)
	}
	if f < 0 {
		return 0, fmt.Errorf("%q is negative", value)
	}
	return time.Duration(f * float64(time.Second)), nil
}
