package store

import (
	"context"
	"sort"
	"sync"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// InMemory keeps projects in memory. Favors clarity over performance, like
// the rest of the in-memory stores.
type InMemory struct {
	mu       sync.RWMutex
	projects map[id.ProjectID]models.Project
}

// NewInMemory constructs an empty in-memory project store.
func NewInMemory() *InMemory {
	return &InMemory{projects: make(map[id.ProjectID]models.Project)}
}

func (s *InMemory) Create(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.projects[project.ID]; exists {
		return sentinel.ErrConflict
	}
	s.projects[project.ID] = *project
	return nil
}

func (s *InMemory) Update(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.projects[project.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.projects[project.ID] = *project
	return nil
}

func (s *InMemory) FindByID(_ context.Context, projectID id.ProjectID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if project, ok := s.projects[projectID]; ok {
		copied := project
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByOwner(_ context.Context, owner id.UserID) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projects := []models.Project{}
	for _, project := range s.projects {
		if project.OwnerUserID == owner {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
	return projects, nil
}
