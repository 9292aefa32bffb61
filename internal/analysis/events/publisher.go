package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/studcheck/plagiarism-checker/internal/analysis/models"
)

// Publisher emits analysis lifecycle events. Publishing is best-effort:
// callers log failures and never fail the analysis because of them.
type Publisher interface {
	PublishAnalysisCompleted(ctx context.Context, event models.AnalysisCompletedEvent) error
	Close() error
}

type rabbitMQPublisher struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     zerolog.Logger
}

func NewRabbitMQPublisher(url, exchange, routingKey string, logger zerolog.Logger) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &rabbitMQPublisher{
		conn:       conn,
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}, nil
}

func (p *rabbitMQPublisher) PublishAnalysisCompleted(ctx context.Context, event models.AnalysisCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.channel.PublishWithContext(
		publishCtx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

func (p *rabbitMQPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
	}
	return p.conn.Close()
}

// NopPublisher is wired when eventing is disabled or the broker is
// unavailable at startup.
type NopPublisher struct{}

func NewNopPublisher() Publisher {
	return NopPublisher{}
}

func (NopPublisher) PublishAnalysisCompleted(ctx context.Context, event models.AnalysisCompletedEvent) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
