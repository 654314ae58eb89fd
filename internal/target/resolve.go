package target

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/hyprshot/internal/compositor"
	"github.com/example/hyprshot/internal/geometry"
)

// ErrNoGeometry is returned when a resolver produced no usable rectangle.
var ErrNoGeometry = errors.New("no geometry to capture")

// RegionSelector is the interactive region selector.
type RegionSelector interface {
	Region(ctx context.Context) (geometry.Rect, error)
	Output(ctx context.Context) (geometry.Rect, error)
	Pick(ctx context.Context, boxes []geometry.Rect) (geometry.Rect, error)
}

// Resolver maps targets to rectangles using the compositor and the selector.
type Resolver struct {
	Compositor compositor.Backend
	Selector   RegionSelector
	Logger     *slog.Logger
}

// Resolve returns the rectangle for t. Window rectangles are trimmed to the display
// area; region and output rectangles are returned as selected.
func (r *Resolver) Resolve(ctx context.Context, t Target) (geometry.Rect, error) {
	var (
		rect geometry.Rect
		err  error
	)
	switch t.Kind {
	case KindRegion:
		rect, err = r.Selector.Region(ctx)
	case KindOutput:
		rect, err = r.resolveOutput(ctx, t)
	case KindWindow:
		rect, err = r.resolveWindow(ctx, t)
	default:
		return geometry.Rect{}, ErrNoMode
	}
	if err != nil {
		return geometry.Rect{}, err
	}
	if rect.Empty() {
		return geometry.Rect{}, fmt.Errorf("%s: %w", t, ErrNoGeometry)
	}
	r.logger().Debug("resolved geometry", slog.String("target", t.String()), slog.String("geometry", rect.String()))
	return rect, nil
}

func (r *Resolver) resolveOutput(ctx context.Context, t Target) (geometry.Rect, error) {
	switch t.Selector {
	case Interactive:
		return r.Selector.Output(ctx)
	case Named:
		monitors, err := r.Compositor.Monitors(ctx)
		if err != nil {
			return geometry.Rect{}, err
		}
		mon, err := compositor.FindMonitor(monitors, t.Output)
		if err != nil {
			return geometry.Rect{}, err
		}
		return mon.Geometry(), nil
	default:
		ws, err := r.Compositor.ActiveWorkspace(ctx)
		if err != nil {
			return geometry.Rect{}, err
		}
		monitors, err := r.Compositor.Monitors(ctx)
		if err != nil {
			return geometry.Rect{}, err
		}
		mon, err := compositor.MonitorForWorkspace(monitors, ws.ID)
		if err != nil {
			return geometry.Rect{}, err
		}
		return mon.Geometry(), nil
	}
}

func (r *Resolver) resolveWindow(ctx context.Context, t Target) (geometry.Rect, error) {
	monitors, err := r.Compositor.Monitors(ctx)
	if err != nil {
		return geometry.Rect{}, err
	}
	area, err := compositor.Area(monitors)
	if err != nil {
		return geometry.Rect{}, err
	}
	var rect geometry.Rect
	if t.Selector == Active {
		win, err := r.Compositor.ActiveWindow(ctx)
		if err != nil {
			return geometry.Rect{}, err
		}
		rect = win.Geometry()
	} else {
		clients, err := r.Compositor.Clients(ctx)
		if err != nil {
			return geometry.Rect{}, err
		}
		visible := compositor.VisibleWindows(clients, monitors)
		boxes := make([]geometry.Rect, 0, len(visible))
		for _, w := range visible {
			boxes = append(boxes, w.Geometry())
		}
		rect, err = r.Selector.Pick(ctx, boxes)
		if err != nil {
			return geometry.Rect{}, err
		}
	}
	if !area.Overlaps(rect) {
		return geometry.Rect{}, fmt.Errorf("window %s lies outside every display: %w", rect, ErrNoGeometry)
	}
	return geometry.Trim(rect, area), nil
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
