package store

import (
	"context"
	"sort"
	"sync"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// InMemory keeps the control catalog in memory. The catalog is small and
// read-only after seeding, so a map plus a sorted snapshot is enough.
type InMemory struct {
	mu       sync.RWMutex
	byID     map[id.ControlID]models.Control
	byRef    map[string]models.Control
	ordered  []models.Control
	reorders bool
}

// NewInMemory constructs an empty in-memory catalog store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:  make(map[id.ControlID]models.Control),
		byRef: make(map[string]models.Control),
	}
}

func (s *InMemory) Insert(_ context.Context, control models.Control) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byRef[control.Reference]; exists {
		return sentinel.ErrConflict
	}
	s.byID[control.ID] = control
	s.byRef[control.Reference] = control
	s.ordered = append(s.ordered, control)
	s.reorders = true
	return nil
}

func (s *InMemory) FindByID(_ context.Context, controlID id.ControlID) (models.Control, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if control, ok := s.byID[controlID]; ok {
		return control, nil
	}
	return models.Control{}, sentinel.ErrNotFound
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func (s *InMemory) List(_ context.Context) ([]models.Control, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reorders {
		sort.Slice(s.ordered, func(i, j int) bool {
			return s.ordered[i].Reference < s.ordered[j].Reference
		})
		s.reorders = false
	}
	return append([]models.Control{}, s.ordered...), nil
}
