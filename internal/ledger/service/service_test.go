package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	boundarymodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	boundarystore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/store"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/models"
	ledgerstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/store"
	matrixmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/models"
	matrixstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/store"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

type allowGuard struct {
	owner id.UserID
}

func (g *allowGuard) Authorize(_ context.Context, caller id.UserID, _ id.ProjectID) error {
	if caller != g.owner {
		return dErrors.New(dErrors.CodeForbidden, "caller does not own this project")
	}
	return nil
}

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	owner   id.UserID
	cell    *matrixmodels.Cell
	gaps    *ledgerstore.InMemoryGaps
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.owner = id.NewUserID()
	projectID := id.NewProjectID()

	boundaries := boundarystore.NewInMemory()
	boundary, err := boundarymodels.NewBoundary(id.NewBoundaryID(), projectID, s.owner, "Payments", boundarymodels.TypeSystem, "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(boundaries.Create(s.ctx, boundary))

	cells := matrixstore.NewInMemory()
	cell, err := matrixmodels.NewCell(id.NewCellID(), boundary.ID, id.NewControlID(), s.owner, true, "in scope", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(cells.Upsert(s.ctx, cell))
	s.cell = cell

	s.gaps = ledgerstore.NewInMemoryGaps()
	s.service = New(
		ledgerstore.NewInMemoryEvidence(),
		s.gaps,
		cells,
		boundaries,
		&allowGuard{owner: s.owner},
	)
}

func (s *ServiceSuite) TestAddEvidence() {
	evidence, err := s.service.AddEvidence(s.ctx, s.owner, s.cell.ID, "Access policy", "signed policy document", "s3://evidence/policy.pdf")
	s.Require().NoError(err)
	s.Equal(s.cell.ID, evidence.CellID)

	records, err := s.service.ListEvidence(s.ctx, s.owner, s.cell.ID)
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *ServiceSuite) TestAddEvidenceValidation() {
	_, err := s.service.AddEvidence(s.ctx, s.owner, s.cell.ID, "  ", "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestAddEvidenceUnknownCell() {
	_, err := s.service.AddEvidence(s.ctx, s.owner, id.NewCellID(), "title", "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestOpenGapStartsIdentified() {
	gap, err := s.service.OpenGap(s.ctx, s.owner, s.cell.ID, "no MFA on admin accounts", models.SeverityCritical)
	s.Require().NoError(err)
	s.Equal(models.StatusIdentified, gap.Status)
	s.Equal(1, gap.Version)
}

func (s *ServiceSuite) TestTransitionGapHappyPath() {
	gap, err := s.service.OpenGap(s.ctx, s.owner, s.cell.ID, "stale firewall rules", models.SeverityMedium)
	s.Require().NoError(err)

	gap, err = s.service.TransitionGap(s.ctx, s.owner, gap.ID, models.StatusInReview, 1)
	s.Require().NoError(err)
	s.Equal(models.StatusInReview, gap.Status)
	s.Equal(2, gap.Version)

	gap, err = s.service.TransitionGap(s.ctx, s.owner, gap.ID, models.StatusConfirmed, 2)
	s.Require().NoError(err)

	// review pushback: the one backward edge
	gap, err = s.service.TransitionGap(s.ctx, s.owner, gap.ID, models.StatusInReview, 3)
	s.Require().NoError(err)
	s.Equal(models.StatusInReview, gap.Status)
}

func (s *ServiceSuite) TestTransitionGapInvalidEdge() {
	gap, err := s.service.OpenGap(s.ctx, s.owner, s.cell.ID, "unpatched hosts", models.SeverityHigh)
	s.Require().NoError(err)

	_, err = s.service.TransitionGap(s.ctx, s.owner, gap.ID, models.StatusClosed, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
}

func (s *ServiceSuite) TestTransitionGapStaleVersion() {
	gap, err := s.service.OpenGap(s.ctx, s.owner, s.cell.ID, "missing log retention", models.SeverityLow)
	s.Require().NoError(err)

	_, err = s.service.TransitionGap(s.ctx, s.owner, gap.ID, models.StatusInReview, 1)
	s.Require().NoError(err)

	// a second client still holding version 1
	_, err = s.service.TransitionGap(s.ctx, s.owner, gap.ID, models.StatusConfirmed, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestGapsByCellOrdering() {
	first, err := s.service.OpenGap(s.ctx, s.owner, s.cell.ID, "gap one", models.SeverityLow)
	s.Require().NoError(err)
	second, err := s.service.OpenGap(s.ctx, s.owner, s.cell.ID, "gap two", models.SeverityLow)
	s.Require().NoError(err)

	gaps, err := s.service.GapsByCell(s.ctx, s.owner, s.cell.ID)
	s.Require().NoError(err)
	s.Require().Len(gaps, 2)
	s.Equal(first.ID, gaps[0].ID)
	s.Equal(second.ID, gaps[1].ID)
}

func (s *ServiceSuite) TestForbiddenCaller() {
	_, err := s.service.OpenGap(s.ctx, id.NewUserID(), s.cell.ID, "gap", models.SeverityLow)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}
