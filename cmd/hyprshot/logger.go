package main

import (
	"io"
	"log/slog"
)

// NewLogger returns a text slog.Logger writing to w at the given level.
func NewLogger(level slog.Leveler, w io.Writer) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
