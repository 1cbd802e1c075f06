package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	boundarymodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	boundarystore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/store"
	catalogmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/models"
	catalogstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/store"
	ledgermodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/models"
	ledgerstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/store"
	matrixmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/models"
	matrixstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/store"
	projectmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/models"
	projectstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/store"
	questionnairemodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/questionnaire/models"
	questionnaireservice "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/questionnaire/service"
	questionnairestore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/questionnaire/store"
	stakeholdermodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/stakeholder/models"
	stakeholderstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/stakeholder/store"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

type openGuard struct{}

func (openGuard) Authorize(context.Context, id.UserID, id.ProjectID) error { return nil }

type failingStakeholders struct{}

func (failingStakeholders) CountByProject(context.Context, id.ProjectID) (int, error) {
	return 0, dErrors.New(dErrors.CodeUnavailable, "stakeholder backend down")
}

type ServiceSuite struct {
	suite.Suite
	ctx           context.Context
	owner         id.UserID
	project       *projectmodels.Project
	projects      *projectstore.InMemory
	boundaries    *boundarystore.InMemory
	stakeholders  *stakeholderstore.InMemory
	catalog       *catalogstore.InMemory
	cells         *matrixstore.InMemory
	gaps          *ledgerstore.InMemoryGaps
	questionnaire *questionnairestore.InMemory
	service       *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.owner = id.NewUserID()

	s.projects = projectstore.NewInMemory()
	project, err := projectmodels.NewProject(id.NewProjectID(), s.owner, "ISO 27001 readiness", "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.projects.Create(s.ctx, project))
	s.project = project

	s.boundaries = boundarystore.NewInMemory()
	s.stakeholders = stakeholderstore.NewInMemory()
	s.catalog = catalogstore.NewInMemory()
	s.cells = matrixstore.NewInMemory()
	s.gaps = ledgerstore.NewInMemoryGaps()
	s.questionnaire = questionnairestore.NewInMemory()

	s.service = New(
		s.projects,
		s.boundaries,
		s.stakeholders,
		s.catalog,
		s.cells,
		s.gaps,
		questionnaireservice.New(s.questionnaire, openGuard{}),
		openGuard{},
	)
}

func (s *ServiceSuite) addBoundary() *boundarymodels.Boundary {
	boundary, err := boundarymodels.NewBoundary(id.NewBoundaryID(), s.project.ID, s.owner, "Core Platform", boundarymodels.TypeSystem, "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.boundaries.Create(s.ctx, boundary))
	return boundary
}

func (s *ServiceSuite) addStakeholder() {
	stakeholder, err := stakeholdermodels.NewStakeholder(id.NewStakeholderID(), s.project.ID, s.owner, "CISO", "security lead", "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.stakeholders.Create(s.ctx, stakeholder))
}

func (s *ServiceSuite) addControl(reference string) catalogmodels.Control {
	control := catalogmodels.Control{ID: id.NewControlID(), Reference: reference, Description: "control", Domain: "Organizational controls"}
	s.Require().NoError(s.catalog.Insert(s.ctx, control))
	return control
}

func (s *ServiceSuite) decideCell(boundaryID id.BoundaryID, controlID id.ControlID) *matrixmodels.Cell {
	cell, err := matrixmodels.NewCell(id.NewCellID(), boundaryID, controlID, s.owner, true, "in scope", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.cells.Upsert(s.ctx, cell))
	return cell
}

func (s *ServiceSuite) setQuestionnaire(answered, total int) {
	progress, err := questionnairemodels.NewProgress(s.project.ID, answered, total, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.questionnaire.Upsert(s.ctx, progress))
}

func (s *ServiceSuite) TestEmptyProject() {
	view, err := s.service.Compute(s.ctx, s.owner, s.project.ID)
	s.Require().NoError(err)

	// nothing in scope yet, so even the remediation signal is zero
	s.Equal(ModuleScores{}, view.ModuleScores)
	s.Equal(0, view.CompletionPercentage)
	s.Equal(projectmodels.StatusNotStarted, view.Status)
}

func (s *ServiceSuite) TestNoGapsNotPenalizedOnceDecided() {
	boundary := s.addBoundary()
	control := s.addControl("A.5.1")
	s.decideCell(boundary.ID, control.ID)

	view, err := s.service.Compute(s.ctx, s.owner, s.project.ID)
	s.Require().NoError(err)
	s.InDelta(1, view.ModuleScores.Remediation, 1e-9, "no findings on a decided scope")
}

func (s *ServiceSuite) TestFullyCompleteProject() {
	boundary := s.addBoundary()
	s.addStakeholder()
	control := s.addControl("A.5.1")
	s.decideCell(boundary.ID, control.ID)
	s.setQuestionnaire(10, 10)

	view, err := s.service.Compute(s.ctx, s.owner, s.project.ID)
	s.Require().NoError(err)
	s.Equal(100, view.CompletionPercentage)
	s.Equal(projectmodels.StatusCompleted, view.Status)
}

func (s *ServiceSuite) TestPartialSoA() {
	boundary := s.addBoundary()
	s.addStakeholder()
	controlA := s.addControl("A.5.1")
	s.addControl("A.5.2")
	s.decideCell(boundary.ID, controlA.ID)
	s.setQuestionnaire(5, 10)

	view, err := s.service.Compute(s.ctx, s.owner, s.project.ID)
	s.Require().NoError(err)
	s.InDelta(0.5, view.ModuleScores.SoA, 1e-9, "one of two cells decided")
	s.InDelta(0.5, view.ModuleScores.Questionnaire, 1e-9)
	// mean(1, 1, 0.5, 0.5, 1) = 0.8
	s.Equal(80, view.CompletionPercentage)
	s.Equal(projectmodels.StatusInProgress, view.Status)
}

func (s *ServiceSuite) TestOpenGapsDragRemediation() {
	boundary := s.addBoundary()
	s.addStakeholder()
	control := s.addControl("A.5.1")
	cell := s.decideCell(boundary.ID, control.ID)
	s.setQuestionnaire(10, 10)

	open, err := ledgermodels.NewGap(id.NewGapID(), cell.ID, s.owner, "finding one", ledgermodels.SeverityHigh, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.gaps.Create(s.ctx, open))

	settled, err := ledgermodels.NewGap(id.NewGapID(), cell.ID, s.owner, "finding two", ledgermodels.SeverityLow, time.Now())
	s.Require().NoError(err)
	for _, next := range []ledgermodels.Status{ledgermodels.StatusInReview, ledgermodels.StatusConfirmed, ledgermodels.StatusRemediated} {
		s.Require().NoError(settled.TransitionTo(next, time.Now()))
	}
	s.Require().NoError(s.gaps.Create(s.ctx, settled))

	view, err := s.service.Compute(s.ctx, s.owner, s.project.ID)
	s.Require().NoError(err)
	s.InDelta(0.5, view.ModuleScores.Remediation, 1e-9, "one of two gaps settled")
	// mean(1, 1, 1, 1, 0.5) = 0.9
	s.Equal(90, view.CompletionPercentage)
}

func (s *ServiceSuite) TestOnHoldBeatsInProgressOnly() {
	s.project.SetOnHold(true, time.Now())
	s.Require().NoError(s.projects.Update(s.ctx, s.project))
	s.setQuestionnaire(5, 10)

	view, err := s.service.Compute(s.ctx, s.owner, s.project.ID)
	s.Require().NoError(err)
	s.Equal(projectmodels.StatusOnHold, view.Status, "partial completion defers to the hold flag")

	// the numeric extremes outrank the flag
	boundary := s.addBoundary()
	s.addStakeholder()
	control := s.addControl("A.5.1")
	s.decideCell(boundary.ID, control.ID)
	s.setQuestionnaire(10, 10)

	view, err = s.service.Compute(s.ctx, s.owner, s.project.ID)
	s.Require().NoError(err)
	s.Equal(projectmodels.StatusCompleted, view.Status)
}

func (s *ServiceSuite) TestUnknownProject() {
	_, err := s.service.Compute(s.ctx, s.owner, id.NewProjectID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestFailedLoadAbortsAggregation() {
	failing := New(
		s.projects,
		s.boundaries,
		failingStakeholders{},
		s.catalog,
		s.cells,
		s.gaps,
		questionnaireservice.New(s.questionnaire, openGuard{}),
		openGuard{},
	)
	_, err := failing.Compute(s.ctx, s.owner, s.project.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeAggregation), "no partial score on a failed load")
}
