package notification

import (
	"context"
)

// Notifier delivers one event over one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, ev Event) error
}

// Dispatcher runs notifiers as detached, best-effort tasks.
type Dispatcher interface {
	// Dispatch never blocks the caller and never reports delivery failure.
	Dispatch(ev Event)

	// Stop drains queued tasks and waits for the workers.
	Stop()
}
