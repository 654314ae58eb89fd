// Package notify shows the clipboard prompt and the save confirmation.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/hyprshot/internal/platform"
)

// SaveAction is the identifier of the "save to disk" button. The first action a
// notification offers is reported back as "0".
const SaveAction = "0"

// Preferences holds the user-visible notification text.
type Preferences struct {
	Title       string
	CopiedText  string
	SaveLabel   string
	SavedFormat string
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title:       "Hyprshot",
		CopiedText:  "Image copied to the clipboard",
		SaveLabel:   "Save to Disk",
		SavedFormat: "Image saved in %s",
	}
}

// ApplyEnv overrides preferences from environment variables.
func (p Preferences) ApplyEnv() Preferences {
	apply := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	apply("HYPRSHOT_NOTIFY_TITLE", &p.Title)
	apply("HYPRSHOT_NOTIFY_COPIED_TEXT", &p.CopiedText)
	apply("HYPRSHOT_NOTIFY_SAVE_LABEL", &p.SaveLabel)
	apply("HYPRSHOT_NOTIFY_SAVED_TEXT", &p.SavedFormat)
	return p
}

var (
	platformNotify = platform.Notify
	platformPrompt = platform.Prompt
)

// Notifier sends the notifications of one run.
type Notifier struct {
	// Logger receives notification bus diagnostics at debug level.
	Logger *slog.Logger

	prefs Preferences
}

// New creates a Notifier. Empty fields fall back to the defaults.
func New(prefs Preferences) *Notifier {
	def := DefaultPreferences()
	if strings.TrimSpace(prefs.Title) == "" {
		prefs.Title = def.Title
	}
	if strings.TrimSpace(prefs.CopiedText) == "" {
		prefs.CopiedText = def.CopiedText
	}
	if strings.TrimSpace(prefs.SaveLabel) == "" {
		prefs.SaveLabel = def.SaveLabel
	}
	if !strings.Contains(prefs.SavedFormat, "%s") {
		prefs.SavedFormat = def.SavedFormat
	}
	return &Notifier{prefs: prefs}
}

// Copied announces the clipboard copy and offers to save the image. It blocks until
// the user acts, the notification times out or ctx is cancelled.
func (n *Notifier) Copied(ctx context.Context, timeout time.Duration) (platform.Response, error) {
	actions := []platform.Action{{ID: SaveAction, Label: n.prefs.SaveLabel}}
	opts := platform.Options{AppName: n.prefs.Title, Timeout: timeout, Logger: n.Logger}
	resp, err := platformPrompt(ctx, n.prefs.Title, n.prefs.CopiedText, actions, opts)
	if err != nil {
		return platform.Response{}, fmt.Errorf("clipboard notification: %w", err)
	}
	return resp, nil
}

// Saved confirms that the image was written to path.
func (n *Notifier) Saved(path string) error {
	detail := strings.TrimSpace(path)
	opts := platform.Options{AppName: n.prefs.Title, Logger: n.Logger}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	body := fmt.Sprintf(n.prefs.SavedFormat, detail)
	if err := platformNotify(n.prefs.Title, body, opts); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	return nil
}
