package events

import (
	"context"
	"sync"
)

// LocalPublisher hands events straight to an in-process handler.
// The handler is bound after construction because it usually depends on
// services that themselves need a publisher.
type LocalPublisher struct {
	mu      sync.RWMutex
	handler Handler
}

func NewLocalPublisher() *LocalPublisher {
	return &LocalPublisher{}
}

// Bind sets the handler that receives published events.
func (p *LocalPublisher) Bind(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = h
}

// Publish delivers evt synchronously. Events published before Bind are dropped.
func (p *LocalPublisher) Publish(ctx context.Context, evt Event) error {
	p.mu.RLock()
	h := p.handler
	p.mu.RUnlock()

	if h == nil {
		return nil
	}
	return h.HandleEvent(ctx, evt)
}
