package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"usermanagement/internal/models"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Client holds the RabbitMQ connection and channel used for activity events.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger
	mu      sync.Mutex // amqp.Channel is not safe for concurrent publishing
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// ActivityEvent is the message body published for every stored activity record.
type ActivityEvent struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress *string   `json:"ipAddress,omitempty"`
}

// NewActivityEvent converts a stored record into its wire form.
func NewActivityEvent(entry models.ActivityLog) ActivityEvent {
	return ActivityEvent{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Action:    entry.Action,
		Details:   entry.Details,
		Timestamp: entry.Timestamp,
		IPAddress: entry.IPAddress,
	}
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable activity queue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", cfg.Queue, err)
	}

	logger.Info("RabbitMQ client connected", zap.String("queue", cfg.Queue))

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
		logger:  logger,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishActivity publishes a stored activity record to the activity queue as persistent JSON.
func (c *Client) PublishActivity(_ context.Context, entry models.ActivityLog) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(NewActivityEvent(entry))
	if err != nil {
		return fmt.Errorf("failed to marshal activity event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Type:         entry.Action,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish activity event: %w", err)
	}

	c.logger.Debug("published activity event",
		zap.Uint64("activity_id", entry.ID),
		zap.String("action", entry.Action))
	return nil
}

// ConsumeActivityEvents delivers decoded activity events to handler until the channel closes.
// Messages are acked on success; a handler error nacks without requeue, and so does an
// undecodable body, so a poison message cannot loop forever.
func (c *Client) ConsumeActivityEvents(handler func(ActivityEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			var event ActivityEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				c.logger.Error("dropping undecodable activity event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
				_ = msg.Nack(false, false)
				continue
			}
			if err := handler(event); err != nil {
				c.logger.Error("failed to handle activity event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
				_ = msg.Nack(false, false)
				continue
			}
			if err := msg.Ack(false); err != nil {
				c.logger.Warn("failed to ack activity event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
			}
		}
	}()

	return nil
}
