package platform

import (
	"log/slog"
	"time"
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName is reported to the notification daemon as the sending application.
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout is how long the notification stays up. Zero leaves it to the daemon.
	Timeout time.Duration
	// Logger receives diagnostics about bus cleanup. Nil discards them.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Action is a button offered on a notification.
type Action struct {
	ID    string
	Label string
}

// Outcome says how an interactive notification ended.
type Outcome int

const (
	// Clicked means the user invoked one of the actions.
	Clicked Outcome = iota + 1
	// TimedOut means the notification expired without interaction.
	TimedOut
	// Dismissed means the user closed the notification without choosing an action.
	Dismissed
)

func (o Outcome) String() string {
	switch o {
	case Clicked:
		return "clicked"
	case TimedOut:
		return "timed out"
	case Dismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// Response is the result of an interactive notification. Action is only set when
// Outcome is Clicked.
type Response struct {
	Outcome Outcome
	Action  string
}

// Chose reports whether the user clicked the action with the given id.
func (r Response) Chose(id string) bool {
	return r.Outcome == Clicked && r.Action == id
}
