package service

import (
	"context"
	"log/slog"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/stakeholder/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/audit"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// StakeholderStore abstracts stakeholder persistence.
type StakeholderStore interface {
	Create(ctx context.Context, stakeholder *models.Stakeholder) error
	ListByProject(ctx context.Context, projectID id.ProjectID) ([]models.Stakeholder, error)
	CountByProject(ctx context.Context, projectID id.ProjectID) (int, error)
}

// ProjectGuard checks the caller owns the project.
type ProjectGuard interface {
	Authorize(ctx context.Context, caller id.UserID, projectID id.ProjectID) error
}

// AuditPublisher receives stakeholder lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages project stakeholders.
type Service struct {
	stakeholders StakeholderStore
	guard        ProjectGuard
	logger       *slog.Logger
	auditor      AuditPublisher
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

// New constructs a stakeholder Service.
func New(stakeholders StakeholderStore, guard ProjectGuard, opts ...Option) *Service {
	s := &Service{stakeholders: stakeholders, guard: guard}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a stakeholder on the project.
func (s *Service) Add(ctx context.Context, caller id.UserID, projectID id.ProjectID, name, role, email string) (*models.Stakeholder, error) {
	if err := s.guard.Authorize(ctx, caller, projectID); err != nil {
		return nil, err
	}

	stakeholder, err := models.NewStakeholder(id.NewStakeholderID(), projectID, caller, name, role, email, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	if err := s.stakeholders.Create(ctx, stakeholder); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create stakeholder")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, string(audit.EventStakeholderAdded),
			"log_type", "audit",
			"request_id", requestcontext.RequestID(ctx),
			"project_id", projectID,
			"entity_id", stakeholder.ID,
		)
	}
	if s.auditor != nil {
		_ = s.auditor.Emit(ctx, audit.Event{
			ProjectID: projectID,
			ActorID:   caller,
			Action:    string(audit.EventStakeholderAdded),
			EntityID:  stakeholder.ID.String(),
			Detail:    stakeholder.Role,
			RequestID: requestcontext.RequestID(ctx),
		})
	}
	return stakeholder, nil
}

// List returns the project's stakeholders ordered by creation time.
func (s *Service) List(ctx context.Context, caller id.UserID, projectID id.ProjectID) ([]models.Stakeholder, error) {
	if err := s.guard.Authorize(ctx, caller, projectID); err != nil {
		return nil, err
	}
	stakeholders, err := s.stakeholders.ListByProject(ctx, projectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list stakeholders")
	}
	return stakeholders, nil
}
