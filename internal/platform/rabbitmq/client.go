// Package rabbitmq wraps the AMQP connection used for overdue-task
// notifications. The connection is attempted once at startup; when it
// fails the notification subsystem stays disabled for the process
// lifetime and the rest of the application runs without messaging.
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OverdueQueue is the durable queue carrying one message per overdue task.
const OverdueQueue = "overdue_tasks"

// Client owns a single AMQP connection and channel, acquired at startup
// and released at shutdown.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// Dial connects to the broker and declares the durable overdue queue.
// The returned client must be closed by the caller at shutdown.
func Dial(url string, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queue, err := channel.QueueDeclare(
		OverdueQueue, // name
		true,         // durable
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Client{
		conn:    conn,
		channel: channel,
		queue:   queue,
		logger:  log.With(slog.String("component", "rabbitmq")),
	}, nil
}

// Publish sends one message to the overdue queue with persistent
// delivery, so it survives a broker restart.
func (c *Client) Publish(ctx context.Context, body []byte) error {
	err := c.channel.PublishWithContext(
		ctx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Consume registers a manual-ack consumer on the overdue queue and
// returns its delivery channel. Unacknowledged messages are redelivered
// by the broker, which gives the at-least-once guarantee the email
// consumer relies on.
func (c *Client) Consume(consumerTag string) (<-chan amqp.Delivery, error) {
	deliveries, err := c.channel.Consume(
		c.queue.Name, // queue
		consumerTag,  // consumer tag
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}

	return deliveries, nil
}

// Close releases the channel and connection.
func (c *Client) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("failed to close channel", "error", err)
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
