// Package geometry holds the rectangle arithmetic used to pick and clamp capture regions.
package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmpty is returned when a geometry string carries no rectangle.
var ErrEmpty = errors.New("empty geometry")

// Rect is a capture region in compositor layout coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// String formats the rectangle the way grim and slurp expect it: "x,y WxH".
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Parse reads an "x,y WxH" geometry. Anything after the size (slurp labels) is ignored.
func Parse(val string) (Rect, error) {
	fields := strings.Fields(strings.TrimSpace(val))
	if len(fields) == 0 {
		return Rect{}, ErrEmpty
	}
	if len(fields) < 2 {
		return Rect{}, fmt.Errorf("invalid geometry %q", val)
	}
	pos := strings.Split(fields[0], ",")
	size := strings.Split(fields[1], "x")
	if len(pos) != 2 || len(size) != 2 {
		return Rect{}, fmt.Errorf("invalid geometry %q", val)
	}
	nums := make([]int, 0, 4)
	for _, p := range append(pos, size...) {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rect{}, fmt.Errorf("invalid geometry %q", val)
		}
		nums = append(nums, v)
	}
	rect := Rect{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}
	if rect.Empty() {
		return Rect{}, fmt.Errorf("geometry %q: %w", val, ErrEmpty)
	}
	return rect, nil
}

// Display is one output's placement in the layout.
type Display struct {
	X         int
	Y         int
	Width     int
	Height    int
	Transform int
}

// EffectiveSize returns the on-layout width and height. Transforms 1, 3, 5 and 7 rotate
// the output by 90 or 270 degrees, swapping the axes.
func (d Display) EffectiveSize() (int, int) {
	if d.Transform%2 == 1 {
		return d.Height, d.Width
	}
	return d.Width, d.Height
}

// Area is the bounding box of every active display.
type Area struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// Bounds computes the union bounding box of the displays.
func Bounds(displays []Display) (Area, error) {
	if len(displays) == 0 {
		return Area{}, errors.New("no displays available")
	}
	var area Area
	for i, d := range displays {
		w, h := d.EffectiveSize()
		if i == 0 {
			area = Area{MinX: d.X, MinY: d.Y, MaxX: d.X + w, MaxY: d.Y + h}
			continue
		}
		area.MinX = min(area.MinX, d.X)
		area.MinY = min(area.MinY, d.Y)
		area.MaxX = max(area.MaxX, d.X+w)
		area.MaxY = max(area.MaxY, d.Y+h)
	}
	return area, nil
}

// Overlaps reports whether any part of r lies inside the area.
func (a Area) Overlaps(r Rect) bool {
	if r.Empty() {
		return false
	}
	return r.X < a.MaxX && a.MinX < r.X+r.Width && r.Y < a.MaxY && a.MinY < r.Y+r.Height
}

// Contains reports whether r lies entirely inside the area.
func (a Area) Contains(r Rect) bool {
	return r.X >= a.MinX && r.Y >= a.MinY && r.X+r.Width <= a.MaxX && r.Y+r.Height <= a.MaxY
}

// Trim clamps r to the area. The right and bottom edges are pulled in first, then a
// rectangle hanging off the left or top edge is shifted onto it and shortened by the
// clipped amount. Only rectangles that overlap the area are meaningful input.
func Trim(r Rect, a Area) Rect {
	if r.X+r.Width > a.MaxX {
		r.Width = a.MaxX - r.X
	}
	if r.Y+r.Height > a.MaxY {
		r.Height = a.MaxY - r.Y
	}
	if r.X < a.MinX {
		r.Width += r.X - a.MinX
		r.X = a.MinX
	}
	if r.Y < a.MinY {
		r.Height += r.Y - a.MinY
		r.Y = a.MinY
	}
	return r
}
