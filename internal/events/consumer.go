package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer drains a queue bound to the event exchange into a Handler.
// Deliveries are auto-acknowledged, so an event whose handling fails is dropped.
type Consumer struct {
	conn     *amqp.Connection
	exchange string
	queue    string
	handler  Handler
	logger   *zap.Logger
}

func NewConsumer(conn *amqp.Connection, exchange, queue string, handler Handler, logger *zap.Logger) *Consumer {
	return &Consumer{
		conn:     conn,
		exchange: exchange,
		queue:    queue,
		handler:  handler,
		logger:   logger,
	}
}

// Run consumes until ctx is done or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := declareExchange(ch, c.exchange); err != nil {
		return err
	}

	q, err := ch.QueueDeclare(
		c.queue, // name
		false,   // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", c.queue, err)
	}

	if err := ch.QueueBind(q.Name, "", c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", q.Name, err)
	}

	deliveries, err := ch.Consume(
		q.Name, // queue
		"",     // consumer
		true,   // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", q.Name, err)
	}

	c.logger.Info("Consuming task events", zap.String("queue", q.Name))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				c.logger.Warn("Event delivery channel closed", zap.String("queue", q.Name))
				return nil
			}
			c.dispatch(ctx, d.Body)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, body []byte) {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		c.logger.Warn("Dropping malformed event", zap.Error(err))
		return
	}

	if err := c.handler.HandleEvent(ctx, evt); err != nil {
		c.logger.Warn("Failed to handle event",
			zap.String("event_type", evt.Type),
			zap.String("event_id", evt.ID),
			zap.Error(err),
		)
	}
}
