package audit

import (
	"context"
	"sync"

	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
)

// InMemoryStore keeps audit events in memory, grouped by project.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.ProjectID][]Event
}

// NewInMemoryStore constructs an empty in-memory audit store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.ProjectID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ProjectID] = append(s.events[event.ProjectID], event)
	return nil
}

func (s *InMemoryStore) ListByProject(_ context.Context, projectID id.ProjectID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[projectID]...), nil
}
