package email

import (
	"context"
	"log/slog"
	"time"
)

const sendTimeout = 10 * time.Second

// Task is one email delivery handed off to the dispatcher. RequestID carries
// the correlation id of the request that issued it, since the request context
// is gone by the time the task runs.
type Task struct {
	To        string
	Subject   string
	Body      string
	RequestID string
}

// Dispatcher delivers emails off the request path. Enqueue returns as soon as
// the task is buffered; delivery failures are logged, never propagated. An
// issued magic token stays verifiable even if its email never arrives.
type Dispatcher struct {
	sender Sender
	tasks  chan Task
	logger *slog.Logger
}

func NewDispatcher(sender Sender, logger *slog.Logger, buffer int) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		tasks:  make(chan Task, buffer),
		logger: logger.With("component", "email_dispatcher"),
	}
}

// Enqueue hands a task to the dispatcher without blocking. Returns false if
// the buffer is full; the caller decides whether that is worth logging.
func (d *Dispatcher) Enqueue(t Task) bool {
	if t.RequestID == "" {
		t.RequestID = "N/A"
	}
	select {
	case d.tasks <- t:
		return true
	default:
		return false
	}
}

// Start drains the queue until ctx is done.
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("email dispatcher started", "buffer", cap(d.tasks))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("email dispatcher shut down")
			return
		case t := <-d.tasks:
			d.deliver(t)
		}
	}
}

func (d *Dispatcher) deliver(t Task) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, t.To, t.Subject, t.Body); err != nil {
		d.logger.Error("deliver email", "to", t.To, "request_id", t.RequestID, "error", err)
		return
	}
	d.logger.Info("email delivered", "to", t.To, "request_id", t.RequestID)
}
