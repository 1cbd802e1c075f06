package store

import (
	"context"
	"sync"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/questionnaire/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// InMemory keeps questionnaire progress in memory, one row per project.
type InMemory struct {
	mu       sync.RWMutex
	progress map[id.ProjectID]models.Progress
}

// NewInMemory constructs an empty in-memory progress store.
func NewInMemory() *InMemory {
	return &InMemory{progress: make(map[id.ProjectID]models.Progress)}
}

func (s *InMemory) Upsert(_ context.Context, progress *models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[progress.ProjectID] = *progress
	return nil
}

func (s *InMemory) FindByProject(_ context.Context, projectID id.ProjectID) (*models.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	progress, ok := s.progress[projectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &progress, nil
}
