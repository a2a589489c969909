package notification

import (
	"context"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer drains the overdue queue and sends one reminder email per
// message. Messages are acknowledged after the email attempt regardless
// of its outcome, so a broken mail relay drains the queue rather than
// growing it; the next sweep republishes anything still overdue.
type Consumer struct {
	mailer Mailer
	logger *slog.Logger
}

// NewConsumer creates a consumer that sends reminders via the mailer.
func NewConsumer(mailer Mailer, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}

	return &Consumer{
		mailer: mailer,
		logger: log.With(slog.String("component", "overdue_consumer")),
	}
}

// Run processes deliveries until the channel closes or the context is
// cancelled. It is meant to be run as a goroutine alongside the server.
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	c.logger.Info("overdue consumer started")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("overdue consumer stopping", slog.String("reason", ctx.Err().Error()))
			return
		case delivery, ok := <-deliveries:
			if !ok {
				c.logger.Info("overdue consumer stopping", slog.String("reason", "delivery channel closed"))
				return
			}
			c.handle(ctx, delivery)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, delivery amqp.Delivery) {
	msg, err := DecodeMessage(delivery.Body)
	if err != nil {
		c.logger.Warn("rejecting malformed overdue message",
			slog.String("error", err.Error()))
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			c.logger.Error("failed to reject message", slog.String("error", nackErr.Error()))
		}
		return
	}

	if msg.AssignedTo == nil {
		c.logger.Debug("overdue task has no assignee, skipping email",
			slog.String("task_id", msg.ID.String()))
	} else {
		fullName := msg.AssignedTo.FirstName + " " + msg.AssignedTo.LastName
		err := c.mailer.SendOverdue(ctx, msg.AssignedTo.Email, fullName, msg.Title, msg.DueDate)
		if err != nil {
			c.logger.Error("failed to send overdue email",
				slog.String("error", err.Error()),
				slog.String("task_id", msg.ID.String()))
		} else {
			c.logger.Info("overdue email sent",
				slog.String("task_id", msg.ID.String()))
		}
	}

	// Ack after the attempt, success or not. Requeueing on mail failure
	// would loop the same message against a broken relay.
	if err := delivery.Ack(false); err != nil {
		c.logger.Error("failed to ack message",
			slog.String("error", err.Error()),
			slog.String("task_id", msg.ID.String()))
	}
}
