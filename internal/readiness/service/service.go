package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	boundarymodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	projectmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// ModuleScores breaks the composite down so a caller can see why the total
// is what it is.
type ModuleScores struct {
	Boundary      float64 `json:"boundary"`
	Stakeholder   float64 `json:"stakeholder"`
	SoA           float64 `json:"soa"`
	Questionnaire float64 `json:"questionnaire"`
	Remediation   float64 `json:"remediation"`
}

// ReadinessView is the derived project readiness. Never persisted; every
// read recomputes it from current module state.
type ReadinessView struct {
	Status               projectmodels.Status `json:"status"`
	CompletionPercentage int                  `json:"completion_percentage"`
	ModuleScores         ModuleScores         `json:"module_scores"`
}

// ProjectReader resolves the owning project record.
type ProjectReader interface {
	FindByID(ctx context.Context, projectID id.ProjectID) (*projectmodels.Project, error)
}

// BoundaryReader supplies the project's boundary set.
type BoundaryReader interface {
	ListByProject(ctx context.Context, projectID id.ProjectID) ([]boundarymodels.Boundary, error)
}

// StakeholderCounter supplies the project's stakeholder count.
type StakeholderCounter interface {
	CountByProject(ctx context.Context, projectID id.ProjectID) (int, error)
}

// CatalogCounter supplies the in-scope control count.
type CatalogCounter interface {
	Count(ctx context.Context) (int, error)
}

// CellReader supplies decided-cell counts and cell IDs per boundary set.
type CellReader interface {
	CountDecidedByBoundaries(ctx context.Context, boundaryIDs []id.BoundaryID) (int, error)
	CellIDsByBoundaries(ctx context.Context, boundaryIDs []id.BoundaryID) ([]id.CellID, error)
}

// GapTally supplies total and settled gap counts across a cell set.
type GapTally interface {
	CountByCells(ctx context.Context, cellIDs []id.CellID) (total, settled int, err error)
}

// QuestionnaireReader supplies the external questionnaire completion fraction.
type QuestionnaireReader interface {
	Completion(ctx context.Context, projectID id.ProjectID) (float64, error)
}

// ProjectGuard checks the caller owns the project.
type ProjectGuard interface {
	Authorize(ctx context.Context, caller id.UserID, projectID id.ProjectID) error
}

// Service derives project readiness from the five module signals. It holds
// no state of its own and never writes.
type Service struct {
	projects      ProjectReader
	boundaries    BoundaryReader
	stakeholders  StakeholderCounter
	catalog       CatalogCounter
	cells         CellReader
	gaps          GapTally
	questionnaire QuestionnaireReader
	guard         ProjectGuard
	logger        *slog.Logger
	tracer        trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs a readiness Service.
func New(projects ProjectReader, boundaries BoundaryReader, stakeholders StakeholderCounter, catalog CatalogCounter, cells CellReader, gaps GapTally, questionnaire QuestionnaireReader, guard ProjectGuard, opts ...Option) *Service {
	s := &Service{
		projects:      projects,
		boundaries:    boundaries,
		stakeholders:  stakeholders,
		catalog:       catalog,
		cells:         cells,
		gaps:          gaps,
		questionnaire: questionnaire,
		guard:         guard,
		tracer:        otel.Tracer("readiness"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compute derives the project's readiness view. The five module signals load
// concurrently; if any of them fails the whole computation fails rather than
// reporting a score from incomplete inputs.
func (s *Service) Compute(ctx context.Context, caller id.UserID, projectID id.ProjectID) (*ReadinessView, error) {
	if err := s.guard.Authorize(ctx, caller, projectID); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "readiness.compute",
		trace.WithAttributes(attribute.String("project_id", projectID.String())))
	defer span.End()

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeAggregation, "failed to load project")
	}

	var (
		scores           ModuleScores
		boundaries       []boundarymodels.Boundary
		stakeholderCount int
		controlCount     int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		boundaries, err = s.boundaries.ListByProject(groupCtx, projectID)
		return err
	})
	group.Go(func() error {
		var err error
		stakeholderCount, err = s.stakeholders.CountByProject(groupCtx, projectID)
		return err
	})
	group.Go(func() error {
		var err error
		controlCount, err = s.catalog.Count(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		scores.Questionnaire, err = s.questionnaire.Completion(groupCtx, projectID)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeAggregation, "failed to aggregate readiness")
	}

	// The matrix and ledger signals need the boundary set, so they run as a
	// second concurrent stage.
	boundaryIDs := make([]id.BoundaryID, len(boundaries))
	for i, boundary := range boundaries {
		boundaryIDs[i] = boundary.ID
	}

	var decidedCells, cellCount int
	var totalGaps, settledGaps int
	group, groupCtx = errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		decidedCells, err = s.cells.CountDecidedByBoundaries(groupCtx, boundaryIDs)
		return err
	})
	group.Go(func() error {
		cellIDs, err := s.cells.CellIDsByBoundaries(groupCtx, boundaryIDs)
		if err != nil {
			return err
		}
		cellCount = len(cellIDs)
		totalGaps, settledGaps, err = s.gaps.CountByCells(groupCtx, cellIDs)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeAggregation, "failed to aggregate readiness")
	}

	if len(boundaries) > 0 {
		scores.Boundary = 1
	}
	if stakeholderCount > 0 {
		scores.Stakeholder = 1
	}
	if denominator := len(boundaries) * controlCount; denominator > 0 {
		scores.SoA = clamp01(float64(decidedCells) / float64(denominator))
	}
	// Absence of findings is not penalized, but only once something is in
	// scope: with no cells at all the signal is vacuous and scores zero, so
	// an untouched project reads as not started.
	switch {
	case totalGaps > 0:
		scores.Remediation = float64(settledGaps) / float64(totalGaps)
	case cellCount > 0:
		scores.Remediation = 1
	}

	completion := int(math.Round(100 * mean(
		scores.Boundary, scores.Stakeholder, scores.SoA, scores.Questionnaire, scores.Remediation,
	)))

	view := &ReadinessView{
		Status:               deriveStatus(completion, project.OnHold),
		CompletionPercentage: completion,
		ModuleScores:         scores,
	}
	span.SetAttributes(attribute.Int("completion_percentage", completion))
	if s.logger != nil {
		s.logger.DebugContext(ctx, "readiness computed",
			"project_id", projectID,
			"completion_percentage", completion,
			"status", view.Status,
		)
	}
	return view, nil
}

// deriveStatus applies the fixed priority order: the numeric extremes win
// over the on-hold flag.
func deriveStatus(completion int, onHold bool) projectmodels.Status {
	switch {
	case completion == 0:
		return projectmodels.StatusNotStarted
	case completion == 100:
		return projectmodels.StatusCompleted
	case onHold:
		return projectmodels.StatusOnHold
	default:
		return projectmodels.StatusInProgress
	}
}

func mean(values ...float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
