package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/audit"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// BoundaryStore abstracts boundary persistence.
type BoundaryStore interface {
	Create(ctx context.Context, boundary *models.Boundary) error
	Update(ctx context.Context, boundary *models.Boundary) error
	Delete(ctx context.Context, boundaryID id.BoundaryID) error
	FindByID(ctx context.Context, boundaryID id.BoundaryID) (*models.Boundary, error)
	ListByProject(ctx context.Context, projectID id.ProjectID) ([]models.Boundary, error)
	CountByProject(ctx context.Context, projectID id.ProjectID) (int, error)
}

// CellCounter reports how many applicability decisions reference the given
// boundaries. Owned by the matrix module.
type CellCounter interface {
	CountDecidedByBoundaries(ctx context.Context, boundaryIDs []id.BoundaryID) (int, error)
}

// ProjectGuard checks the caller owns the project before any boundary
// mutation. Ownership is the project module's rule; this service only asks.
type ProjectGuard interface {
	Authorize(ctx context.Context, caller id.UserID, projectID id.ProjectID) error
}

// AuditPublisher receives boundary lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates scope boundary management.
type Service struct {
	boundaries BoundaryStore
	cells      CellCounter
	guard      ProjectGuard
	logger     *slog.Logger
	auditor    AuditPublisher
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithAuditPublisher attaches an audit publisher.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

// New constructs a boundary Service.
func New(boundaries BoundaryStore, cells CellCounter, guard ProjectGuard, opts ...Option) *Service {
	s := &Service{boundaries: boundaries, cells: cells, guard: guard}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create declares a new scope boundary for the project.
func (s *Service) Create(ctx context.Context, caller id.UserID, projectID id.ProjectID, name string, boundaryType models.Type, notes string) (*models.Boundary, error) {
	if err := s.guard.Authorize(ctx, caller, projectID); err != nil {
		return nil, err
	}

	boundary, err := models.NewBoundary(id.NewBoundaryID(), projectID, caller, name, boundaryType, notes, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	if err := s.boundaries.Create(ctx, boundary); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create boundary")
	}
	s.emit(ctx, projectID, caller, audit.EventBoundaryCreated, boundary.ID.String(), string(boundary.Type))
	return boundary, nil
}

// SetIncluded flips the logical in-scope flag. Exclusion keeps the row (and
// its applicability history) intact.
func (s *Service) SetIncluded(ctx context.Context, caller id.UserID, boundaryID id.BoundaryID, included bool) (*models.Boundary, error) {
	boundary, err := s.getAuthorized(ctx, caller, boundaryID)
	if err != nil {
		return nil, err
	}

	boundary.SetIncluded(included, requestcontext.Now(ctx))
	if err := s.boundaries.Update(ctx, boundary); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update boundary")
	}
	return boundary, nil
}

// Delete removes a boundary outright. Distinct from exclusion: deletion is an
// explicit owner action that also drops the boundary from the matrix grid.
// A boundary with applicability decisions cannot be deleted; its cells carry
// evidence and gap history, so exclusion is the only way to retire it.
func (s *Service) Delete(ctx context.Context, caller id.UserID, boundaryID id.BoundaryID) error {
	boundary, err := s.getAuthorized(ctx, caller, boundaryID)
	if err != nil {
		return err
	}

	decided, err := s.cells.CountDecidedByBoundaries(ctx, []id.BoundaryID{boundaryID})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count applicability decisions")
	}
	if decided > 0 {
		return dErrors.New(dErrors.CodeConflict, "boundary has applicability decisions")
	}

	if err := s.boundaries.Delete(ctx, boundaryID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "boundary not found")
		}
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "boundary has applicability decisions")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete boundary")
	}
	s.emit(ctx, boundary.ProjectID, caller, audit.EventBoundaryDeleted, boundaryID.String(), "")
	return nil
}

// List returns the project's boundaries ordered by creation time.
func (s *Service) List(ctx context.Context, caller id.UserID, projectID id.ProjectID) ([]models.Boundary, error) {
	if err := s.guard.Authorize(ctx, caller, projectID); err != nil {
		return nil, err
	}
	boundaries, err := s.boundaries.ListByProject(ctx, projectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list boundaries")
	}
	return boundaries, nil
}

func (s *Service) getAuthorized(ctx context.Context, caller id.UserID, boundaryID id.BoundaryID) (*models.Boundary, error) {
	boundary, err := s.boundaries.FindByID(ctx, boundaryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "boundary not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load boundary")
	}
	if err := s.guard.Authorize(ctx, caller, boundary.ProjectID); err != nil {
		return nil, err
	}
	return boundary, nil
}

func (s *Service) emit(ctx context.Context, projectID id.ProjectID, actor id.UserID, action audit.AuditEvent, entityID, detail string) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(action),
			"log_type", "audit",
			"request_id", requestcontext.RequestID(ctx),
			"project_id", projectID,
			"entity_id", entityID,
		)
	}
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		ProjectID: projectID,
		ActorID:   actor,
		Action:    string(action),
		EntityID:  entityID,
		Detail:    detail,
		RequestID: requestcontext.RequestID(ctx),
	})
}
