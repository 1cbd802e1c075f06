package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	boundarymodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	catalogmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/models"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/audit"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// CellStore abstracts applicability cell persistence. Upsert is keyed on the
// unique (boundary, control) pair.
type CellStore interface {
	Upsert(ctx context.Context, cell *models.Cell) error
	Update(ctx context.Context, cell *models.Cell) error
	FindByID(ctx context.Context, cellID id.CellID) (*models.Cell, error)
	FindByPair(ctx context.Context, boundaryID id.BoundaryID, controlID id.ControlID) (*models.Cell, error)
	ListByBoundary(ctx context.Context, boundaryID id.BoundaryID) ([]models.Cell, error)
	ListByBoundaries(ctx context.Context, boundaryIDs []id.BoundaryID) ([]models.Cell, error)
}

// BoundaryReader resolves boundaries owned by the boundary module.
type BoundaryReader interface {
	FindByID(ctx context.Context, boundaryID id.BoundaryID) (*boundarymodels.Boundary, error)
	ListByProject(ctx context.Context, projectID id.ProjectID) ([]boundarymodels.Boundary, error)
}

// ControlReader resolves catalog controls.
type ControlReader interface {
	FindByID(ctx context.Context, controlID id.ControlID) (catalogmodels.Control, error)
	List(ctx context.Context) ([]catalogmodels.Control, error)
}

// GapCounter reports open gap counts per cell. A gap is open while it is
// neither remediated nor closed.
type GapCounter interface {
	OpenCountByCells(ctx context.Context, cellIDs []id.CellID) (map[id.CellID]int, error)
}

// EvidenceCounter reports evidence item counts per cell.
type EvidenceCounter interface {
	CountByCells(ctx context.Context, cellIDs []id.CellID) (map[id.CellID]int, error)
}

// ProjectGuard checks the caller owns the project.
type ProjectGuard interface {
	Authorize(ctx context.Context, caller id.UserID, projectID id.ProjectID) error
}

// AuditPublisher receives matrix mutation events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// MetricsRecorder observes matrix decisions and assessments.
type MetricsRecorder interface {
	ObserveDecision(applicable bool)
	ObserveAssessment(status string)
}

// Service owns the statement of applicability: which catalog controls apply
// to which scope boundaries, and the assessed compliance of each pairing.
type Service struct {
	cells      CellStore
	boundaries BoundaryReader
	controls   ControlReader
	gaps       GapCounter
	evidence   EvidenceCounter
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

// New constructs a matrix Service.
func New(cells CellStore, boundaries BoundaryReader, controls ControlReader, gaps GapCounter, evidence EvidenceCounter, guard ProjectGuard, opts ...Option) *Service {
	s := &Service{
		cells:      cells,
		boundaries: boundaries,
		controls:   controls,
		gaps:       gaps,
		evidence:   evidence,
		guard:      guard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetApplicability records or rewrites the applicability decision for one
// (boundary, control) pair. The decision is an upsert: the first call creates
// the cell, later calls rewrite it in place. Flipping an applicable cell to
// not-applicable resets its assessment but leaves attached evidence and open
// gaps untouched.
func (s *Service) SetApplicability(ctx context.Context, caller id.UserID, projectID id.ProjectID, boundaryID id.BoundaryID, controlID id.ControlID, isApplicable bool, reason string) (*models.Cell, error) {
	if err := s.guard.Authorize(ctx, caller, projectID); err != nil {
		return nil, err
	}

	boundary, err := s.loadBoundary(ctx, boundaryID)
	if err != nil {
		return nil, err
	}
	if boundary.ProjectID != projectID {
		return nil, dErrors.New(dErrors.CodeNotFound, "boundary not found")
	}
	if _, err := s.controls.FindByID(ctx, controlID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "control not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load control")
	}

	now := requestcontext.Now(ctx)
	cell, err := s.cells.FindByPair(ctx, boundaryID, controlID)
	switch {
	case err == nil:
		if err := cell.Decide(isApplicable, reason, now); err != nil {
			return nil, err
		}
		if err := s.cells.Update(ctx, cell); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update cell")
		}
	case errors.Is(err, sentinel.ErrNotFound):
		cell, err = models.NewCell(id.NewCellID(), boundaryID, controlID, caller, isApplicable, reason, now)
		if err != nil {
			return nil, err
		}
		if err := s.cells.Upsert(ctx, cell); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store cell")
		}
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cell")
	}

	if s.metrics != nil {
		s.metrics.ObserveDecision(isApplicable)
	}
	s.emit(ctx, projectID, caller, audit.EventApplicabilitySet, cell.ID.String(), decisionDetail(isApplicable))
	return cell, nil
}

// RecordAssessment captures the compliance assessment for an applicable cell.
func (s *Service) RecordAssessment(ctx context.Context, caller id.UserID, cellID id.CellID, status models.ComplianceStatus, implementationStatus string, date time.Time, notes string) (*models.Cell, error) {
	cell, err := s.loadCell(ctx, cellID)
	if err != nil {
		return nil, err
	}
	boundary, err := s.loadBoundary(ctx, cell.BoundaryID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, caller, boundary.ProjectID); err != nil {
		return nil, err
	}

	if err := cell.RecordAssessment(status, implementationStatus, date, notes, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.cells.Update(ctx, cell); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update cell")
	}

	if s.metrics != nil {
		s.metrics.ObserveAssessment(string(status))
	}
	s.emit(ctx, boundary.ProjectID, caller, audit.EventAssessmentRecorded, cell.ID.String(), string(status))
	return cell, nil
}

// ListForBoundary returns the full applicability grid for one boundary: a row
// per catalog control, with undecided controls present as IsApplicable == nil.
func (s *Service) ListForBoundary(ctx context.Context, caller id.UserID, boundaryID id.BoundaryID) ([]models.MatrixRow, error) {
	boundary, err := s.loadBoundary(ctx, boundaryID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, caller, boundary.ProjectID); err != nil {
		return nil, err
	}

	controls, err := s.controls.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list controls")
	}
	cells, err := s.cells.ListByBoundary(ctx, boundaryID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cells")
	}
	return s.buildRows(ctx, []boundarymodels.Boundary{*boundary}, controls, cells)
}

// ListForProject returns the grid for every boundary in the project, ordered
// by boundary creation time then catalog reference.
func (s *Service) ListForProject(ctx context.Context, caller id.UserID, projectID id.ProjectID) ([]models.MatrixRow, error) {
	if err := s.guard.Authorize(ctx, caller, projectID); err != nil {
		return nil, err
	}

	boundaries, err := s.boundaries.ListByProject(ctx, projectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list boundaries")
	}
	controls, err := s.controls.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list controls")
	}

	boundaryIDs := make([]id.BoundaryID, len(boundaries))
	for i, boundary := range boundaries {
		boundaryIDs[i] = boundary.ID
	}
	cells, err := s.cells.ListByBoundaries(ctx, boundaryIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cells")
	}
	return s.buildRows(ctx, boundaries, controls, cells)
}

type pairKey struct {
	boundaryID id.BoundaryID
	controlID  id.ControlID
}

func (s *Service) buildRows(ctx context.Context, boundaries []boundarymodels.Boundary, controls []catalogmodels.Control, cells []models.Cell) ([]models.MatrixRow, error) {
	byPair := make(map[pairKey]*models.Cell, len(cells))
	cellIDs := make([]id.CellID, len(cells))
	for i := range cells {
		cell := &cells[i]
		byPair[pairKey{cell.BoundaryID, cell.ControlID}] = cell
		cellIDs[i] = cell.ID
	}

	gapCounts, err := s.gaps.OpenCountByCells(ctx, cellIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count gaps")
	}
	evidenceCounts, err := s.evidence.CountByCells(ctx, cellIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count evidence")
	}

	rows := make([]models.MatrixRow, 0, len(boundaries)*len(controls))
	for _, boundary := range boundaries {
		for _, control := range controls {
			row := models.MatrixRow{
				BoundaryID:       boundary.ID,
				ControlID:        control.ID,
				Reference:        control.Reference,
				Domain:           control.Domain,
				ComplianceStatus: models.StatusNotAssessed,
			}
			if cell, ok := byPair[pairKey{boundary.ID, control.ID}]; ok {
				cellID := cell.ID
				applicable := cell.IsApplicable
				row.CellID = &cellID
				row.IsApplicable = &applicable
				row.ReasonInclusion = cell.ReasonInclusion
				row.ReasonExclusion = cell.ReasonExclusion
				row.ComplianceStatus = cell.ComplianceStatus
				row.OpenGapCount = gapCounts[cellID]
				row.EvidenceCount = evidenceCounts[cellID]
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *Service) loadBoundary(ctx context.Context, boundaryID id.BoundaryID) (*boundarymodels.Boundary, error) {
	boundary, err := s.boundaries.FindByID(ctx, boundaryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "boundary not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load boundary")
	}
	return boundary, nil
}

func (s *Service) loadCell(ctx context.Context, cellID id.CellID) (*models.Cell, error) {
	cell, err := s.cells.FindByID(ctx, cellID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "cell not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cell")
	}
	return cell, nil
}

func decisionDetail(isApplicable bool) string {
	if isApplicable {
		return "applicable"
	}
	return "not_applicable"
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
