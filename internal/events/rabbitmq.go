package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrPublisherClosed is returned after Close.
var ErrPublisherClosed = errors.New("rabbitmq publisher is closed")

// RabbitMQPublisher publishes events as JSON to a fanout exchange.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	exchange string
	logger   *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewRabbitMQPublisher dials url and declares the exchange.
func NewRabbitMQPublisher(url, exchange string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := declareExchange(ch, exchange); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("Connected to RabbitMQ", zap.String("exchange", exchange))

	return &RabbitMQPublisher{
		conn:     conn,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish sends evt on a short-lived channel. The routing key is the event type.
func (p *RabbitMQPublisher) Publish(ctx context.Context, evt Event) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrPublisherClosed
	}

	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(evt); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx,
		p.exchange, // exchange
		evt.Type,   // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   evt.ID,
			Timestamp:   evt.Timestamp,
			Type:        evt.Type,
			Body:        buffer.Bytes(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}

	p.logger.Debug("Published event", zap.String("event_type", evt.Type), zap.String("event_id", evt.ID))
	return nil
}

// Connection exposes the underlying connection for consumers sharing it.
func (p *RabbitMQPublisher) Connection() *amqp.Connection {
	return p.conn
}

// Exchange returns the exchange events are published to.
func (p *RabbitMQPublisher) Exchange() string {
	return p.exchange
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.conn.Close()
}

func declareExchange(ch *amqp.Channel, exchange string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		"fanout", // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return nil
}
