package inbox

import (
	"context"
	"sync"

	"github.com/yukikurage/task-tracker/internal/constants"
)

// MemoryStore is a fixed-capacity ring buffer.
type MemoryStore struct {
	mu    sync.Mutex
	items []Notification
	next  int // slot the next Append writes
	size  int
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = constants.DefaultInboxCapacity
	}
	return &MemoryStore{items: make([]Notification, capacity)}
}

func (s *MemoryStore) Append(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[s.next] = n
	s.next = (s.next + 1) % len(s.items)
	if s.size < len(s.items) {
		s.size++
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > s.size {
		limit = s.size
	}

	out := make([]Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.items)) % len(s.items)
		out = append(out, s.items[idx])
	}
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]Notification, len(s.items))
	s.next = 0
	s.size = 0
	return nil
}

func (s *MemoryStore) Capacity() int {
	return len(s.items)
}

// Len returns the number of stored notifications.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}
