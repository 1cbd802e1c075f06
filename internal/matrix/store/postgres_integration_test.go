//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	boundarymodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	boundarystore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/store"
	catalogmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/models"
	catalogstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/store"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/models"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/store"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/platform/postgres"
	projectmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/models"
	projectstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/store"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/testutil/containers"
)

type PostgresCellSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres

	owner      id.UserID
	projectID  id.ProjectID
	boundaryID id.BoundaryID
	controlID  id.ControlID
}

func TestPostgresCellSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCellSuite))
}

func (s *PostgresCellSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.Migrate(context.Background(), s.postgres.Pool))
	s.store = store.NewPostgres(s.postgres.Pool)
}

func (s *PostgresCellSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))

	s.owner = id.NewUserID()
	project, err := projectmodels.NewProject(id.NewProjectID(), s.owner, "Integration project", "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(projectstore.NewPostgres(s.postgres.Pool).Create(ctx, project))
	s.projectID = project.ID

	boundary, err := boundarymodels.NewBoundary(id.NewBoundaryID(), project.ID, s.owner, "HQ", boundarymodels.TypeLocation, "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(boundarystore.NewPostgres(s.postgres.Pool).Create(ctx, boundary))
	s.boundaryID = boundary.ID

	control := catalogmodels.Control{ID: id.NewControlID(), Reference: "A.5.15", Description: "Access control", Domain: "Organizational controls"}
	s.Require().NoError(catalogstore.NewPostgres(s.postgres.Pool).Insert(ctx, control))
	s.controlID = control.ID
}

func (s *PostgresCellSuite) TestUpsertKeepsIdentityPerPair() {
	ctx := context.Background()

	first, err := models.NewCell(id.NewCellID(), s.boundaryID, s.controlID, s.owner, true, "in scope", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(ctx, first))

	second, err := models.NewCell(id.NewCellID(), s.boundaryID, s.controlID, s.owner, false, "outsourced after review", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(ctx, second))

	s.Equal(first.ID, second.ID, "same pair must keep its cell identity")

	found, err := s.store.FindByPair(ctx, s.boundaryID, s.controlID)
	s.Require().NoError(err)
	s.False(found.IsApplicable)
	s.Equal("outsourced after review", found.ReasonExclusion)
	s.Empty(found.ReasonInclusion)
}

func (s *PostgresCellSuite) TestCountDecidedByBoundaries() {
	ctx := context.Background()

	cell, err := models.NewCell(id.NewCellID(), s.boundaryID, s.controlID, s.owner, true, "in scope", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(ctx, cell))

	count, err := s.store.CountDecidedByBoundaries(ctx, []id.BoundaryID{s.boundaryID})
	s.Require().NoError(err)
	s.Equal(1, count)

	ids, err := s.store.CellIDsByBoundaries(ctx, []id.BoundaryID{s.boundaryID})
	s.Require().NoError(err)
	s.Len(ids, 1)
	s.Equal(cell.ID, ids[0])
}

func (s *PostgresCellSuite) TestAssessmentRoundTrip() {
	ctx := context.Background()

	cell, err := models.NewCell(id.NewCellID(), s.boundaryID, s.controlID, s.owner, true, "in scope", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(ctx, cell))

	s.Require().NoError(cell.RecordAssessment(models.StatusPartiallyCompliant, "partially_implemented", time.Now(), "rollout pending", time.Now()))
	s.Require().NoError(s.store.Update(ctx, cell))

	found, err := s.store.FindByID(ctx, cell.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPartiallyCompliant, found.ComplianceStatus)
	s.NotNil(found.AssessmentDate)
}
