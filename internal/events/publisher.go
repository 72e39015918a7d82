package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agrimarket/internal/logger"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Routing keys for marketplace activity.
const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
	CropCreated        = "crop.created"
	CropApproved       = "crop.approved"
	CropDeleted        = "crop.deleted"
	FarmerVerified     = "farmer.verified"
	FarmerRegistered   = "farmer.registered"
	UserDeleted        = "user.deleted"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
	Close() error
}

// Message is the JSON body of every event.
type Message struct {
	ID         string    `json:"id"`
	Pattern    string    `json:"pattern"`
	Data       any       `json:"data"`
	OccurredAt time.Time `json:"occurredAt"`
	RequestID  string    `json:"requestId,omitempty"`
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

func NewAMQPPublisher(amqpURL, exchange string) (Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	msg := Message{
		ID:         uuid.New().String(),
		Pattern:    routingKey,
		Data:       data,
		OccurredAt: time.Now().UTC(),
		RequestID:  logger.RequestIDFrom(ctx),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	logger.FromCtx(ctx).Debug("publishing event",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", routingKey),
		zap.String("event_id", msg.ID),
	)

	err = p.ch.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    msg.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *amqpPublisher) Close() error {
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

type noopPublisher struct{}

// NewNoopPublisher drops every event. Used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, routingKey string, data any) error { return nil }

func (noopPublisher) Close() error { return nil }

// PublishQuietly sends an event and only logs a failure. Events never fail
// the user-facing operation that produced them.
func PublishQuietly(ctx context.Context, p Publisher, routingKey string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, data); err != nil {
		logger.FromCtx(ctx).Warn("event publish failed",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
