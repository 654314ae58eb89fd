package compositor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Hyprctl talks to Hyprland through the hyprctl binary in JSON mode.
type Hyprctl struct {
	Path string

	run func(ctx context.Context, args ...string) ([]byte, error)
}

// NewHyprctl returns a backend that invokes the hyprctl found at path.
func NewHyprctl(path string) *Hyprctl {
	if strings.TrimSpace(path) == "" {
		path = "hyprctl"
	}
	h := &Hyprctl{Path: path}
	h.run = h.exec
	return h
}

func (h *Hyprctl) exec(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, h.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", h.Path, strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", h.Path, strings.Join(args, " "), err)
	}
	return out, nil
}

func (h *Hyprctl) query(ctx context.Context, what string, v any) error {
	run := h.run
	if run == nil {
		run = h.exec
	}
	out, err := run(ctx, what, "-j")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(out, v); err != nil {
		return fmt.Errorf("decode hyprctl %s: %w", what, err)
	}
	return nil
}

// Monitors lists the outputs.
func (h *Hyprctl) Monitors(ctx context.Context) ([]Monitor, error) {
	var monitors []Monitor
	if err := h.query(ctx, "monitors", &monitors); err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errNoMonitors
	}
	return monitors, nil
}

// Clients lists every window the compositor manages.
func (h *Hyprctl) Clients(ctx context.Context) ([]Window, error) {
	var windows []Window
	if err := h.query(ctx, "clients", &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// ActiveWindow returns the focused window. Hyprland answers with an empty object when
// nothing is focused.
func (h *Hyprctl) ActiveWindow(ctx context.Context) (Window, error) {
	var win Window
	if err := h.query(ctx, "activewindow", &win); err != nil {
		return Window{}, err
	}
	if win.Address == "" && win.Size == [2]int{} {
		return Window{}, ErrNoActiveWindow
	}
	return win, nil
}

// ActiveWorkspace returns the workspace that has focus.
func (h *Hyprctl) ActiveWorkspace(ctx context.Context) (Workspace, error) {
	var ws Workspace
	if err := h.query(ctx, "activeworkspace", &ws); err != nil {
		return Workspace{}, err
	}
	return ws, nil
}
