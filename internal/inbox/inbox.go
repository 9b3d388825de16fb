// Package inbox keeps the most recent notifications produced from task
// events. Stores are bounded: once full, the oldest entry is evicted.
package inbox

import (
	"context"
	"time"
)

type Notification struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	TaskID     uint64    `json:"task_id,omitempty"`
	AssignedTo *uint64   `json:"assigned_to,omitempty"`
	UserEmail  string    `json:"user_email,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store is a bounded notification log.
type Store interface {
	// Append records n, evicting the oldest entry when the store is full.
	Append(ctx context.Context, n Notification) error

	// List returns at most limit notifications, newest first.
	List(ctx context.Context, limit int) ([]Notification, error)

	// Clear removes every notification.
	Clear(ctx context.Context) error

	// Capacity is the most notifications the store keeps.
	Capacity() int
}
