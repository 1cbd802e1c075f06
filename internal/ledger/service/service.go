package service

import (
	"context"
	"errors"
	"log/slog"

	boundarymodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/models"
	matrixmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/audit"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// EvidenceStore abstracts evidence persistence.
type EvidenceStore interface {
	Create(ctx context.Context, evidence *models.Evidence) error
	ListByCell(ctx context.Context, cellID id.CellID) ([]models.Evidence, error)
}

// GapStore abstracts gap persistence. UpdateVersioned applies compare-and-swap
// on the gap version and reports a stale version as sentinel.ErrConflict.
type GapStore interface {
	Create(ctx context.Context, gap *models.Gap) error
	FindByID(ctx context.Context, gapID id.GapID) (*models.Gap, error)
	UpdateVersioned(ctx context.Context, gap *models.Gap, expectedVersion int) error
	ListByCell(ctx context.Context, cellID id.CellID) ([]models.Gap, error)
}

// CellReader resolves applicability cells owned by the matrix module.
type CellReader interface {
	FindByID(ctx context.Context, cellID id.CellID) (*matrixmodels.Cell, error)
}

// BoundaryReader resolves the boundary a cell hangs off, for project scoping.
type BoundaryReader interface {
	FindByID(ctx context.Context, boundaryID id.BoundaryID) (*boundarymodels.Boundary, error)
}

// ProjectGuard checks the caller owns the project.
type ProjectGuard interface {
	Authorize(ctx context.Context, caller id.UserID, projectID id.ProjectID) error
}

// AuditPublisher receives ledger mutation events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// MetricsRecorder observes ledger activity.
type MetricsRecorder interface {
	ObserveGapOpened(severity string)
	ObserveGapTransition(to string)
	ObserveEvidenceAdded()
}

// Service keeps the evidence and gap ledger for applicability cells.
type Service struct {
	evidence   EvidenceStore
	gaps       GapStore
	cells      CellReader
	boundaries BoundaryReader
	guard      ProjectGuard
	logger     *slog.Logger
	auditor    AuditPublisher
	metrics    MetricsRecorder
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

// WithMetrics attaches a metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a ledger Service.
func New(evidence EvidenceStore, gaps GapStore, cells CellReader, boundaries BoundaryReader, guard ProjectGuard, opts ...Option) *Service {
	s := &Service{
		evidence:   evidence,
		gaps:       gaps,
		cells:      cells,
		boundaries: boundaries,
		guard:      guard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddEvidence attaches a supporting artifact to a cell. Non-applicable cells
// accept evidence too; exclusion decisions carry their own justification
// documents.
func (s *Service) AddEvidence(ctx context.Context, caller id.UserID, cellID id.CellID, title, description, fileRef string) (*models.Evidence, error) {
	projectID, err := s.authorizeCell(ctx, caller, cellID)
	if err != nil {
		return nil, err
	}

	evidence, err := models.NewEvidence(id.NewEvidenceID(), cellID, caller, title, description, fileRef, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.evidence.Create(ctx, evidence); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store evidence")
	}

	if s.metrics != nil {
		s.metrics.ObserveEvidenceAdded()
	}
	s.emit(ctx, projectID, caller, audit.EventEvidenceAdded, evidence.ID.String(), evidence.Title)
	return evidence, nil
}

// ListEvidence returns a cell's evidence ordered by creation time.
func (s *Service) ListEvidence(ctx context.Context, caller id.UserID, cellID id.CellID) ([]models.Evidence, error) {
	if _, err := s.authorizeCell(ctx, caller, cellID); err != nil {
		return nil, err
	}
	records, err := s.evidence.ListByCell(ctx, cellID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list evidence")
	}
	return records, nil
}

// OpenGap records a new gap against a cell, starting in the identified state.
func (s *Service) OpenGap(ctx context.Context, caller id.UserID, cellID id.CellID, description string, severity models.Severity) (*models.Gap, error) {
	projectID, err := s.authorizeCell(ctx, caller, cellID)
	if err != nil {
		return nil, err
	}

	gap, err := models.NewGap(id.NewGapID(), cellID, caller, description, severity, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.gaps.Create(ctx, gap); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store gap")
	}

	if s.metrics != nil {
		s.metrics.ObserveGapOpened(string(gap.Severity))
	}
	s.emit(ctx, projectID, caller, audit.EventGapOpened, gap.ID.String(), string(gap.Severity))
	return gap, nil
}

// TransitionGap moves a gap through the remediation workflow. The caller
// presents the version it last read; a mismatch means someone else moved the
// gap first and the transition is rejected as a conflict.
func (s *Service) TransitionGap(ctx context.Context, caller id.UserID, gapID id.GapID, next models.Status, expectedVersion int) (*models.Gap, error) {
	gap, err := s.gaps.FindByID(ctx, gapID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "gap not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load gap")
	}
	projectID, err := s.authorizeCell(ctx, caller, gap.CellID)
	if err != nil {
		return nil, err
	}

	if gap.Version != expectedVersion {
		return nil, dErrors.New(dErrors.CodeConflict, "gap was modified concurrently")
	}
	if err := gap.TransitionTo(next, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.gaps.UpdateVersioned(ctx, gap, expectedVersion); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "gap was modified concurrently")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "gap not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update gap")
	}

	if s.metrics != nil {
		s.metrics.ObserveGapTransition(string(next))
	}
	s.emit(ctx, projectID, caller, audit.EventGapTransitioned, gap.ID.String(), string(next))
	return gap, nil
}

// GapsByCell returns a cell's gaps ordered by identification time, oldest
// first.
func (s *Service) GapsByCell(ctx context.Context, caller id.UserID, cellID id.CellID) ([]models.Gap, error) {
	if _, err := s.authorizeCell(ctx, caller, cellID); err != nil {
		return nil, err
	}
	gaps, err := s.gaps.ListByCell(ctx, cellID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list gaps")
	}
	return gaps, nil
}

// authorizeCell resolves cell → boundary → project and checks ownership.
func (s *Service) authorizeCell(ctx context.Context, caller id.UserID, cellID id.CellID) (id.ProjectID, error) {
	cell, err := s.cells.FindByID(ctx, cellID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.ProjectID{}, dErrors.New(dErrors.CodeNotFound, "cell not found")
		}
		return id.ProjectID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cell")
	}
	boundary, err := s.boundaries.FindByID(ctx, cell.BoundaryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.ProjectID{}, dErrors.New(dErrors.CodeNotFound, "boundary not found")
		}
		return id.ProjectID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load boundary")
	}
	if err := s.guard.Authorize(ctx, caller, boundary.ProjectID); err != nil {
		return id.ProjectID{}, err
	}
	return boundary.ProjectID, nil
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
