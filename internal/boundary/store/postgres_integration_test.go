//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/store"
	catalogmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/models"
	catalogstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/store"
	matrixmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/models"
	matrixstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/store"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/platform/postgres"
	projectmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/models"
	projectstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/store"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/testutil/containers"
)

type PostgresBoundarySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres

	owner     id.UserID
	projectID id.ProjectID
}

func TestPostgresBoundarySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresBoundarySuite))
}

func (s *PostgresBoundarySuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.Migrate(context.Background(), s.postgres.Pool))
	s.store = store.NewPostgres(s.postgres.Pool)
}

func (s *PostgresBoundarySuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))

	s.owner = id.NewUserID()
	project, err := projectmodels.NewProject(id.NewProjectID(), s.owner, "Integration project", "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(projectstore.NewPostgres(s.postgres.Pool).Create(ctx, project))
	s.projectID = project.ID
}

func (s *PostgresBoundarySuite) createBoundary() *models.Boundary {
	boundary, err := models.NewBoundary(id.NewBoundaryID(), s.projectID, s.owner, "HQ", models.TypeLocation, "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), boundary))
	return boundary
}

func (s *PostgresBoundarySuite) TestDeleteWithoutCells() {
	ctx := context.Background()
	boundary := s.createBoundary()

	s.Require().NoError(s.store.Delete(ctx, boundary.ID))

	_, err := s.store.FindByID(ctx, boundary.ID)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresBoundarySuite) TestDeleteWithCellsIsConflict() {
	ctx := context.Background()
	boundary := s.createBoundary()

	control := catalogmodels.Control{ID: id.NewControlID(), Reference: "A.5.15", Description: "Access control", Domain: "Organizational controls"}
	s.Require().NoError(catalogstore.NewPostgres(s.postgres.Pool).Insert(ctx, control))

	cell, err := matrixmodels.NewCell(id.NewCellID(), boundary.ID, control.ID, s.owner, true, "in scope", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(matrixstore.NewPostgres(s.postgres.Pool).Upsert(ctx, cell))

	err = s.store.Delete(ctx, boundary.ID)
	s.True(errors.Is(err, sentinel.ErrConflict), "delete must surface the referencing cells as a conflict")

	found, err := s.store.FindByID(ctx, boundary.ID)
	s.Require().NoError(err)
	s.Equal(boundary.ID, found.ID)
}

func (s *PostgresBoundarySuite) TestDeleteUnknown() {
	err := s.store.Delete(context.Background(), id.NewBoundaryID())
	s.True(errors.Is(err, sentinel.ErrNotFound))
}
