//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package platform

import "context"

// Notify is a no-op on unsupported platforms.
func Notify(title, body string, opts Options) error {
	return nil
}

// Prompt reports a dismissal on unsupported platforms.
func Prompt(ctx context.Context, title, body string, actions []Action, opts Options) (Response, error) {
	return Response{Outcome: Dismissed}, nil
}
