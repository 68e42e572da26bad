package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
)

// Config holds dispatcher configuration
type Config struct {
	WorkerCount int           // default: 2
	QueueSize   int           // default: 256
	TaskTimeout time.Duration // default: 5 seconds
}

type dispatcher struct {
	notifiers []notification.Notifier
	config    Config

	queue   chan notification.Event
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher starts the worker pool. Events are delivered at most once;
// a failed or timed out notifier is logged and never retried.
func NewDispatcher(cfg Config, notifiers ...notification.Notifier) notification.Dispatcher {
	// Set defaults
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 5 * time.Second
	}

	d := &dispatcher{
		notifiers: notifiers,
		config:    cfg,
		queue:     make(chan notification.Event, cfg.QueueSize),
	}

	// Start background workers
	for i := 0; i < cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	slog.Info("notification dispatcher started",
		"workers", cfg.WorkerCount, "queue_size", cfg.QueueSize, "task_timeout", cfg.TaskTimeout, "notifiers", len(notifiers))

	return d
}

// Dispatch implements notification.Dispatcher.
func (d *dispatcher) Dispatch(ev notification.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		slog.Warn("notification dropped", "type", ev.Type, "employee_id", ev.EmployeeID, "error", notification.ErrDispatcherClosed)
		return
	}

	select {
	case d.queue <- ev:
	default:
		slog.Warn("notification dropped", "type", ev.Type, "employee_id", ev.EmployeeID, "error", notification.ErrQueueFull)
	}
}

// Stop implements notification.Dispatcher.
func (d *dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	slog.Info("notification dispatcher stopped")
}

func (d *dispatcher) worker(id int) {
	defer d.wg.Done()

	for ev := range d.queue {
		for _, n := range d.notifiers {
			if err := d.run(n, ev); err != nil {
				slog.Warn("notification failed",
					"worker", id, "notifier", n.Name(), "type", ev.Type, "employee_id", ev.EmployeeID, "error", err)
			}
		}
	}
}

// run executes one notifier detached from any request, bounded by the task
// timeout. A notifier that ignores ctx is abandoned when the timeout fires.
func (d *dispatcher) run(n notification.Notifier, ev notification.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.TaskTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fmt.Errorf("notifier panic: %v", p)
			}
		}()
		done <- n.Notify(ctx, ev)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
