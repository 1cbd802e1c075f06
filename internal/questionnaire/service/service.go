package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/questionnaire/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// ProgressStore abstracts questionnaire progress persistence.
type ProgressStore interface {
	Upsert(ctx context.Context, progress *models.Progress) error
	FindByProject(ctx context.Context, projectID id.ProjectID) (*models.Progress, error)
}

// ProjectGuard checks the caller owns the project.
type ProjectGuard interface {
	Authorize(ctx context.Context, caller id.UserID, projectID id.ProjectID) error
}

// Service mirrors external questionnaire progress per project and exposes
// the completion fraction to the readiness aggregator.
type Service struct {
	progress ProgressStore
	guard    ProjectGuard
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs a questionnaire Service.
func New(progress ProgressStore, guard ProjectGuard, opts ...Option) *Service {
	s := &Service{progress: progress, guard: guard}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetProgress records the latest answered/total counters for the project.
func (s *Service) SetProgress(ctx context.Context, caller id.UserID, projectID id.ProjectID, answered, total int) (*models.Progress, error) {
	if err := s.guard.Authorize(ctx, caller, projectID); err != nil {
		return nil, err
	}
	progress, err := models.NewProgress(projectID, answered, total, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.progress.Upsert(ctx, progress); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store questionnaire progress")
	}
	return progress, nil
}

// GetProgress returns the stored counters, zero-valued when nothing has been
// recorded yet.
func (s *Service) GetProgress(ctx context.Context, caller id.UserID, projectID id.ProjectID) (*models.Progress, error) {
	if err := s.guard.Authorize(ctx, caller, projectID); err != nil {
		return nil, err
	}
	progress, err := s.progress.FindByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &models.Progress{ProjectID: projectID}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load questionnaire progress")
	}
	return progress, nil
}

// Completion is the readiness aggregator's port: the answered fraction in
// [0,1], zero when no progress row exists or the questionnaire is empty.
func (s *Service) Completion(ctx context.Context, projectID id.ProjectID) (float64, error) {
	progress, err := s.progress.FindByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return progress.Completion(), nil
}
