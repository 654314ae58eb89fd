//go:build linux || freebsd || openbsd || netbsd || dragonfly

package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest      = "org.freedesktop.Notifications"
	notifyPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyInterface = "org.freedesktop.Notifications"

	signalActionInvoked = notifyInterface + ".ActionInvoked"
	signalClosed        = notifyInterface + ".NotificationClosed"

	closeReasonExpired = 1

	// promptGrace covers daemons that are slow to report expiry.
	promptGrace = time.Second
)

// Notify sends a desktop notification using the Freedesktop.org notification spec.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("dbus connect: %w", err)
	}
	defer closeConn(conn, opts.logger())

	_, err = send(conn, title, body, nil, opts)
	return err
}

// Prompt shows a notification with actions and blocks until the user clicks one, the
// notification is closed, the timeout passes or ctx is cancelled.
func Prompt(ctx context.Context, title, body string, actions []Action, opts Options) (Response, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return Response{}, fmt.Errorf("dbus connect: %w", err)
	}
	defer closeConn(conn, opts.logger())

	sigc := make(chan *dbus.Signal, 8)
	conn.Signal(sigc)
	defer conn.RemoveSignal(sigc)
	rule := fmt.Sprintf("type='signal',interface='%s',path='%s'", notifyInterface, notifyPath)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return Response{}, fmt.Errorf("notification subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	id, err := send(conn, title, body, actions, opts)
	if err != nil {
		return Response{}, err
	}

	var expired <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout + promptGrace)
		defer timer.Stop()
		expired = timer.C
	}
	for {
		select {
		case <-ctx.Done():
			closeNotification(conn, id, opts.logger())
			return Response{}, ctx.Err()
		case <-expired:
			closeNotification(conn, id, opts.logger())
			return Response{Outcome: TimedOut}, nil
		case sig, ok := <-sigc:
			if !ok {
				return Response{}, errors.New("notification bus connection closed")
			}
			if resp, done := interpretSignal(sig, id); done {
				return resp, nil
			}
		}
	}
}

func send(conn *dbus.Conn, title, body string, actions []Action, opts Options) (uint32, error) {
	flat := make([]string, 0, len(actions)*2)
	for _, a := range actions {
		flat = append(flat, a.ID, a.Label)
	}
	timeout := int32(-1)
	if opts.Timeout > 0 {
		timeout = int32(opts.Timeout / time.Millisecond)
	}
	obj := conn.Object(notifyDest, notifyPath)
	call := obj.Call(notifyInterface+".Notify", 0,
		opts.AppName, uint32(0), opts.IconPath, title, body, flat, map[string]dbus.Variant{}, timeout)
	if call.Err != nil {
		return 0, fmt.Errorf("notify: %w", call.Err)
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify response: %w", err)
	}
	return id, nil
}

// interpretSignal maps a notification signal for id onto a Response. The boolean is
// false for signals that belong to other notifications or carry no outcome.
func interpretSignal(sig *dbus.Signal, id uint32) (Response, bool) {
	if sig == nil || len(sig.Body) < 2 {
		return Response{}, false
	}
	sigID, ok := sig.Body[0].(uint32)
	if !ok || sigID != id {
		return Response{}, false
	}
	switch sig.Name {
	case signalActionInvoked:
		action, ok := sig.Body[1].(string)
		if !ok {
			return Response{}, false
		}
		return Response{Outcome: Clicked, Action: action}, true
	case signalClosed:
		reason, _ := sig.Body[1].(uint32)
		if reason == closeReasonExpired {
			return Response{Outcome: TimedOut}, true
		}
		return Response{Outcome: Dismissed}, true
	}
	return Response{}, false
}

func closeNotification(conn *dbus.Conn, id uint32, logger *slog.Logger) {
	call := conn.Object(notifyDest, notifyPath).Call(notifyInterface+".CloseNotification", 0, id)
	if call.Err != nil {
		logger.Debug("close notification", slog.Uint64("id", uint64(id)), slog.Any("err", call.Err))
	}
}

func closeConn(conn *dbus.Conn, logger *slog.Logger) {
	if err := conn.Close(); err != nil {
		logger.Debug("dbus close", slog.Any("err", err))
	}
}
