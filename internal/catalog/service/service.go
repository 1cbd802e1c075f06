package service

import (
	"context"
	"errors"
	"strings"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/models"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/store"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// Service exposes read-only catalog queries.
type Service struct {
	controls store.Reader
}

// New constructs a catalog service over the given reader (store or cache).
func New(controls store.Reader) *Service {
	return &Service{controls: controls}
}

// List returns the full catalog ordered by reference.
func (s *Service) List(ctx context.Context) ([]models.Control, error) {
	controls, err := s.controls.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load control catalog")
	}
	return controls, nil
}

// Get returns one control by id.
func (s *Service) Get(ctx context.Context, controlID id.ControlID) (models.Control, error) {
	control, err := s.controls.FindByID(ctx, controlID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Control{}, dErrors.New(dErrors.CodeNotFound, "control not found")
		}
		return models.Control{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load control")
	}
	return control, nil
}

// Search filters the catalog by reference prefix or free text over
// description and domain. An empty query returns the full catalog.
func (s *Service) Search(ctx context.Context, query string) ([]models.Control, error) {
	controls, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return controls, nil
	}

	matched := []models.Control{}
	for _, control := range controls {
		if strings.HasPrefix(strings.ToLower(control.Reference), query) ||
			strings.Contains(strings.ToLower(control.Description), query) ||
			strings.Contains(strings.ToLower(control.Domain), query) {
			matched = append(matched, control)
		}
	}
	return matched, nil
}
