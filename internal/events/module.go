package events

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/yukikurage/task-tracker/internal/config"
)

// Module provides the event Publisher and starts delivery to the bound Handler.
// Without RABBITMQ_URL events stay in-process.
var Module = fx.Module("events",
	fx.Provide(NewPublisher),
	fx.Invoke(startDelivery),
)

type PublisherParams struct {
	fx.In

	Config    *config.Config
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
}

// PublisherResult carries the chosen publisher. Exactly one of Local and
// RabbitMQ is non-nil.
type PublisherResult struct {
	fx.Out

	Publisher Publisher
	Local     *LocalPublisher
	RabbitMQ  *RabbitMQPublisher
}

func NewPublisher(p PublisherParams) (PublisherResult, error) {
	if p.Config.RabbitMQ.URL == "" {
		p.Logger.Info("Delivering task events in-process")
		local := NewLocalPublisher()
		return PublisherResult{Publisher: local, Local: local}, nil
	}

	rmq, err := NewRabbitMQPublisher(p.Config.RabbitMQ.URL, p.Config.RabbitMQ.Exchange, p.Logger)
	if err != nil {
		return PublisherResult{}, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return rmq.Close()
		},
	})

	return PublisherResult{Publisher: rmq, RabbitMQ: rmq}, nil
}

type deliveryParams struct {
	fx.In

	Config    *config.Config
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
	Handler   Handler
	Local     *LocalPublisher
	RabbitMQ  *RabbitMQPublisher
}

func startDelivery(p deliveryParams) {
	if p.Local != nil {
		p.Local.Bind(p.Handler)
		return
	}

	consumer := NewConsumer(p.RabbitMQ.Connection(), p.RabbitMQ.Exchange(), p.Config.RabbitMQ.Queue, p.Handler, p.Logger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// Appended after the publisher hook, so it stops before the connection closes.
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := consumer.Run(ctx); err != nil {
					p.Logger.Error("Event consumer stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
