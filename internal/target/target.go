// Package target turns -m mode values into a capture target and resolves it to a
// rectangle.
package target

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrNoMode is returned when no primary mode (output, window, region) was given.
	ErrNoMode = errors.New("no capture mode specified")
	// ErrUnknownMode is returned for values that are neither a mode nor an output name.
	ErrUnknownMode = errors.New("unknown mode")
)

// Kind is the primary capture mode.
type Kind int

const (
	KindNone Kind = iota
	KindOutput
	KindWindow
	KindRegion
)

func (k Kind) String() string {
	switch k {
	case KindOutput:
		return "output"
	case KindWindow:
		return "window"
	case KindRegion:
		return "region"
	default:
		return "none"
	}
}

// Selector says how the output or window is chosen.
type Selector int

const (
	Interactive Selector = iota
	Active
	Named
)

func (s Selector) String() string {
	switch s {
	case Active:
		return "active"
	case Named:
		return "named"
	default:
		return "interactive"
	}
}

// Target is a validated capture target. Output is only set for Named output targets.
type Target struct {
	Kind     Kind
	Selector Selector
	Output   string
}

// Interactive reports whether resolving the target runs the region selector.
func (t Target) Interactive() bool {
	return t.Selector == Interactive
}

func (t Target) String() string {
	switch {
	case t.Kind == KindRegion:
		return "region"
	case t.Selector == Named:
		return fmt.Sprintf("%s %s", t.Kind, t.Output)
	default:
		return fmt.Sprintf("%s %s", t.Selector, t.Kind)
	}
}

// builder accumulates -m values in order.
type builder struct {
	kind   Kind
	active bool
	output string
}

func (b *builder) add(value string, outputs []string) error {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "output":
		b.kind = KindOutput
	case "window":
		b.kind = KindWindow
	case "region":
		b.kind = KindRegion
	case "active":
		b.active = true
	default:
		if v == "" || !slices.Contains(outputs, v) {
			return fmt.Errorf("%w %q", ErrUnknownMode, value)
		}
		b.output = v
	}
	return nil
}

func (b *builder) build() (Target, error) {
	switch b.kind {
	case KindNone:
		return Target{}, ErrNoMode
	case KindRegion:
		return Target{Kind: KindRegion}, nil
	case KindOutput:
		if b.output != "" {
			return Target{Kind: KindOutput, Selector: Named, Output: b.output}, nil
		}
		if b.active {
			return Target{Kind: KindOutput, Selector: Active}, nil
		}
		return Target{Kind: KindOutput}, nil
	default:
		if b.active {
			return Target{Kind: KindWindow, Selector: Active}, nil
		}
		return Target{Kind: KindWindow}, nil
	}
}

// Parse builds a Target from -m values in the order given. The last primary mode wins,
// "active" is a modifier, and anything else must name one of outputs.
func Parse(modes []string, outputs []string) (Target, error) {
	var b builder
	for _, m := range modes {
		if err := b.add(m, outputs); err != nil {
			return Target{}, err
		}
	}
	return b.build()
}

// NeedsOutputs reports whether parsing modes requires the list of output names, i.e.
// some value is not a reserved keyword.
func NeedsOutputs(modes []string) bool {
	for _, m := range modes {
		switch strings.ToLower(strings.TrimSpace(m)) {
		case "output", "window", "region", "active":
		default:
			return true
		}
	}
	return false
}

// HasMode reports whether modes names a primary mode. It needs no output list, so the
// missing-mode case can be reported before the compositor is queried.
func HasMode(modes []string) bool {
	for _, m := range modes {
		switch strings.ToLower(strings.TrimSpace(m)) {
		case "output", "window", "region":
			return true
		}
	}
	return false
}
