package notification

import "errors"

var (
	ErrQueueFull        = errors.New("notification queue is full")
	ErrDispatcherClosed = errors.New("notification dispatcher is stopped")
	ErrNoRecipients     = errors.New("no notification recipients")
)
