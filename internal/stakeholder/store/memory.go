package store

import (
	"context"
	"sort"
	"sync"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/stakeholder/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
)

// InMemory keeps stakeholders in memory.
type InMemory struct {
	mu           sync.RWMutex
	stakeholders map[id.StakeholderID]models.Stakeholder
}

// NewInMemory constructs an empty in-memory stakeholder store.
func NewInMemory() *InMemory {
	return &InMemory{stakeholders: make(map[id.StakeholderID]models.Stakeholder)}
}

func (s *InMemory) Create(_ context.Context, stakeholder *models.Stakeholder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stakeholders[stakeholder.ID] = *stakeholder
	return nil
}

func (s *InMemory) ListByProject(_ context.Context, projectID id.ProjectID) ([]models.Stakeholder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stakeholders := []models.Stakeholder{}
	for _, stakeholder := range s.stakeholders {
		if stakeholder.ProjectID == projectID {
			stakeholders = append(stakeholders, stakeholder)
		}
	}
	sort.Slice(stakeholders, func(i, j int) bool {
		return stakeholders[i].CreatedAt.Before(stakeholders[j].CreatedAt)
	})
	return stakeholders, nil
}

func (s *InMemory) CountByProject(ctx context.Context, projectID id.ProjectID) (int, error) {
	stakeholders, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return len(stakeholders), nil
}
