// Package events carries task lifecycle events to the notification inbox.
//
// Delivery is fire-and-forget with at-most-once semantics: a publish that
// fails is logged by the caller and the event is lost.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeTaskCreated       = "task_created"
	TypeTaskAssigned      = "task_assigned"
	TypeTaskStatusChanged = "task_status_changed"
)

// Payload holds the task fields an event may carry. Unused fields stay empty.
type Payload struct {
	TaskID     uint64  `json:"task_id,omitempty"`
	TaskTitle  string  `json:"task_title,omitempty"`
	AssignedTo *uint64 `json:"assigned_to,omitempty"`
	UserEmail  string  `json:"user_email,omitempty"`
	OldStatus  string  `json:"old_status,omitempty"`
	NewStatus  string  `json:"new_status,omitempty"`
}

type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"event_type"`
	Payload   Payload   `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps a new event with a random id and the current UTC time.
func NewEvent(eventType string, payload Payload) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher sends events without waiting for them to be handled.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Handler consumes events on the receiving side.
type Handler interface {
	HandleEvent(ctx context.Context, evt Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, evt Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}
