// Package compositor queries Hyprland for its outputs, workspaces and windows.
package compositor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/example/hyprshot/internal/geometry"
)

var (
	// ErrMonitorNotFound is returned when no output matches a requested name.
	ErrMonitorNotFound = errors.New("monitor not found")
	// ErrNoActiveWindow is returned when nothing has keyboard focus.
	ErrNoActiveWindow = errors.New("no active window")
	errNoMonitors     = errors.New("no monitors available")
)

// Backend answers layout queries against the running compositor.
type Backend interface {
	Monitors(ctx context.Context) ([]Monitor, error)
	Clients(ctx context.Context) ([]Window, error)
	ActiveWindow(ctx context.Context) (Window, error)
	ActiveWorkspace(ctx context.Context) (Workspace, error)
}

// Workspace identifies a workspace.
type Workspace struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Monitor string `json:"monitor,omitempty"`
}

// Monitor describes an output as reported by `hyprctl monitors -j`.
type Monitor struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	X               int       `json:"x"`
	Y               int       `json:"y"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	Scale           float64   `json:"scale"`
	Transform       int       `json:"transform"`
	Focused         bool      `json:"focused"`
	Disabled        bool      `json:"disabled"`
	ActiveWorkspace Workspace `json:"activeWorkspace"`
}

// Geometry returns the output's layout rectangle. Width and height are reported in
// physical pixels, so they are divided by the scale.
func (m Monitor) Geometry() geometry.Rect {
	scale := m.Scale
	if scale <= 0 {
		scale = 1
	}
	return geometry.Rect{
		X:      m.X,
		Y:      m.Y,
		Width:  int(math.Round(float64(m.Width) / scale)),
		Height: int(math.Round(float64(m.Height) / scale)),
	}
}

// Display converts the monitor for bounds computation.
func (m Monitor) Display() geometry.Display {
	return geometry.Display{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height, Transform: m.Transform}
}

// Window describes a client as reported by `hyprctl clients -j`.
type Window struct {
	Address   string    `json:"address"`
	Mapped    bool      `json:"mapped"`
	Hidden    bool      `json:"hidden"`
	At        [2]int    `json:"at"`
	Size      [2]int    `json:"size"`
	Workspace Workspace `json:"workspace"`
	Class     string    `json:"class"`
	Title     string    `json:"title"`
}

// Geometry returns the window's layout rectangle.
func (w Window) Geometry() geometry.Rect {
	return geometry.Rect{X: w.At[0], Y: w.At[1], Width: w.Size[0], Height: w.Size[1]}
}

// FindMonitor returns the monitor whose name matches exactly.
func FindMonitor(monitors []Monitor, name string) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, errNoMonitors
	}
	name = strings.TrimSpace(name)
	for _, mon := range monitors {
		if mon.Name == name {
			return mon, nil
		}
	}
	return Monitor{}, fmt.Errorf("%w: %q", ErrMonitorNotFound, name)
}

// MonitorForWorkspace returns the monitor currently showing the workspace.
func MonitorForWorkspace(monitors []Monitor, workspaceID int) (Monitor, error) {
	for _, mon := range monitors {
		if mon.ActiveWorkspace.ID == workspaceID {
			return mon, nil
		}
	}
	return Monitor{}, fmt.Errorf("%w: none shows workspace %d", ErrMonitorNotFound, workspaceID)
}

// Names lists the monitor names in compositor order.
func Names(monitors []Monitor) []string {
	names := make([]string, 0, len(monitors))
	for _, mon := range monitors {
		names = append(names, mon.Name)
	}
	return names
}

// VisibleWindows keeps the mapped windows that sit on a workspace currently shown
// by some monitor.
func VisibleWindows(windows []Window, monitors []Monitor) []Window {
	active := make(map[int]bool, len(monitors))
	for _, mon := range monitors {
		active[mon.ActiveWorkspace.ID] = true
	}
	visible := make([]Window, 0, len(windows))
	for _, win := range windows {
		if !active[win.Workspace.ID] {
			continue
		}
		if win.Hidden || win.Size[0] <= 0 || win.Size[1] <= 0 {
			continue
		}
		visible = append(visible, win)
	}
	return visible
}

// Area returns the bounding box of all enabled monitors.
func Area(monitors []Monitor) (geometry.Area, error) {
	displays := make([]geometry.Display, 0, len(monitors))
	for _, mon := range monitors {
		if mon.Disabled {
			continue
		}
		displays = append(displays, mon.Display())
	}
	if len(displays) == 0 {
		return geometry.Area{}, errNoMonitors
	}
	return geometry.Bounds(displays)
}
