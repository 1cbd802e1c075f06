package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/audit"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// ProjectStore abstracts project persistence.
type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, projectID id.ProjectID) (*models.Project, error)
	ListByOwner(ctx context.Context, owner id.UserID) ([]models.Project, error)
}

// AuditPublisher receives project lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates project lifecycle operations.
type Service struct {
	projects ProjectStore
	logger   *slog.Logger
	auditor  AuditPublisher
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

// New constructs a project Service.
func New(projects ProjectStore, opts ...Option) *Service {
	s := &Service{projects: projects}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new project owned by the caller.
func (s *Service) Create(ctx context.Context, owner id.UserID, name, description string) (*models.Project, error) {
	now := requestcontext.Now(ctx)
	project, err := models.NewProject(id.NewProjectID(), owner, name, description, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create project")
	}
	s.emit(ctx, project.ID, owner, audit.EventProjectCreated, project.ID.String(), "")
	return project, nil
}

// Get returns a project if the caller owns it.
func (s *Service) Get(ctx context.Context, caller id.UserID, projectID id.ProjectID) (*models.Project, error) {
	return s.getOwned(ctx, caller, projectID)
}

// List returns the caller's projects.
func (s *Service) List(ctx context.Context, caller id.UserID) ([]models.Project, error) {
	projects, err := s.projects.ListByOwner(ctx, caller)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}
	return projects, nil
}

// SetOnHold flips the explicit on-hold flag consulted by the readiness
// aggregator.
func (s *Service) SetOnHold(ctx context.Context, caller id.UserID, projectID id.ProjectID, onHold bool) (*models.Project, error) {
	project, err := s.getOwned(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}

	project.SetOnHold(onHold, requestcontext.Now(ctx))
	if err := s.projects.Update(ctx, project); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update project")
	}

	detail := "cleared"
	if onHold {
		detail = "set"
	}
	s.emit(ctx, project.ID, caller, audit.EventProjectOnHoldSet, project.ID.String(), detail)
	return project, nil
}

// Authorize reports whether caller owns projectID. Other modules use this as
// their project guard so the ownership rule lives in one place.
func (s *Service) Authorize(ctx context.Context, caller id.UserID, projectID id.ProjectID) error {
	_, err := s.getOwned(ctx, caller, projectID)
	return err
}

func (s *Service) getOwned(ctx context.Context, caller id.UserID, projectID id.ProjectID) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load project")
	}
	if !project.IsOwnedBy(caller) {
		return nil, dErrors.New(dErrors.CodeForbidden, "project belongs to another user")
	}
	return project, nil
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
