// Package notification implements the overdue-task pipeline: a periodic
// sweep publishes one queue message per overdue task, and a consumer
// turns those messages into reminder emails. The pipeline is best-effort
// end to end; its failures are logged and never surface to API callers.
package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/arolitec/taskboard-api/internal/domain"
)

// Publisher sends one encoded message to the overdue queue.
// Satisfied by the rabbitmq client.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// OverdueLister yields tasks whose due date has passed while they are
// still pending. Satisfied by the task store.
type OverdueLister interface {
	ListOverdue(ctx context.Context, before time.Time) ([]*domain.OverdueTask, error)
}

// Dispatcher runs the overdue sweep: query the store for overdue tasks
// and publish one message per task.
type Dispatcher struct {
	lister    OverdueLister
	publisher Publisher
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher over the given store and publisher.
func NewDispatcher(lister OverdueLister, publisher Publisher, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		lister:    lister,
		publisher: publisher,
		logger:    log.With(slog.String("component", "overdue_dispatcher")),
	}
}

// Sweep publishes a message for every task overdue at the given instant.
// A failed publish is logged and the sweep moves on to the next task;
// the broker redelivers nothing here, so a task missed in one sweep is
// simply picked up again by the next one.
func (d *Dispatcher) Sweep(ctx context.Context, now time.Time) {
	tasks, err := d.lister.ListOverdue(ctx, now)
	if err != nil {
		d.logger.Error("overdue sweep query failed", slog.String("error", err.Error()))
		return
	}

	if len(tasks) == 0 {
		d.logger.Debug("overdue sweep found no tasks")
		return
	}

	published := 0
	for _, task := range tasks {
		body, err := NewMessage(task).Encode()
		if err != nil {
			d.logger.Error("failed to encode overdue message",
				slog.String("error", err.Error()),
				slog.String("task_id", task.TaskID.String()))
			continue
		}

		if err := d.publisher.Publish(ctx, body); err != nil {
			d.logger.Error("failed to publish overdue message",
				slog.String("error", err.Error()),
				slog.String("task_id", task.TaskID.String()))
			continue
		}
		published++
	}

	d.logger.Info("overdue sweep complete",
		slog.Int("overdue", len(tasks)),
		slog.Int("published", published))
}
