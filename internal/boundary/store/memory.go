package store

import (
	"context"
	"sort"
	"sync"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// InMemory keeps boundaries in memory.
type InMemory struct {
	mu         sync.RWMutex
	boundaries map[id.BoundaryID]models.Boundary
}

// NewInMemory constructs an empty in-memory boundary store.
func NewInMemory() *InMemory {
	return &InMemory{boundaries: make(map[id.BoundaryID]models.Boundary)}
}

func (s *InMemory) Create(_ context.Context, boundary *models.Boundary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.boundaries[boundary.ID]; exists {
		return sentinel.ErrConflict
	}
	s.boundaries[boundary.ID] = *boundary
	return nil
}

func (s *InMemory) Update(_ context.Context, boundary *models.Boundary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.boundaries[boundary.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.boundaries[boundary.ID] = *boundary
	return nil
}

func (s *InMemory) Delete(_ context.Context, boundaryID id.BoundaryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.boundaries[boundaryID]; !exists {
		return sentinel.ErrNotFound
	}
	delete(s.boundaries, boundaryID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, boundaryID id.BoundaryID) (*models.Boundary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if boundary, ok := s.boundaries[boundaryID]; ok {
		copied := boundary
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByProject(_ context.Context, projectID id.ProjectID) ([]models.Boundary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	boundaries := []models.Boundary{}
	for _, boundary := range s.boundaries {
		if boundary.ProjectID == projectID {
			boundaries = append(boundaries, boundary)
		}
	}
	sort.Slice(boundaries, func(i, j int) bool {
		return boundaries[i].CreatedAt.Before(boundaries[j].CreatedAt)
	})
	return boundaries, nil
}

func (s *InMemory) CountByProject(ctx context.Context, projectID id.ProjectID) (int, error) {
	boundaries, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return len(boundaries), nil
}
