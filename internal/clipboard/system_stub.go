//go:build !((linux || freebsd || openbsd || netbsd || dragonfly) && cgo)

package clipboard

import (
	"context"
	"errors"
	"io"
	"time"
)

var errCGODisabled = errors.New("clipboard operations require wl-copy or cgo support")

// System is unavailable without cgo; install wl-copy instead.
type System struct {
	Hold time.Duration
}

// WriteImage implements Writer.
func (*System) WriteImage(context.Context, io.Reader) error {
	return errCGODisabled
}

// Keep implements Keeper. Nothing was written, so there is nothing to serve.
func (*System) Keep(context.Context) {}
