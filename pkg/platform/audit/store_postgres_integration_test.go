//go:build integration

package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/platform/postgres"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/audit"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/testutil/containers"
)

type PostgresAuditSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *audit.PostgresStore
}

func TestPostgresAuditSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAuditSuite))
}

func (s *PostgresAuditSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.Migrate(context.Background(), s.postgres.Pool))
	s.store = audit.NewPostgresStore(s.postgres.Pool)
}

func (s *PostgresAuditSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresAuditSuite) TestAppendAndListByProject() {
	ctx := context.Background()
	projectID := id.NewProjectID()
	actorID := id.NewUserID()
	base := time.Now().UTC().Truncate(time.Millisecond)

	first := audit.Event{
		Timestamp: base,
		ProjectID: projectID,
		ActorID:   actorID,
		Action:    string(audit.EventBoundaryCreated),
		EntityID:  id.NewBoundaryID().String(),
		Detail:    "system",
		RequestID: "req-1",
	}
	second := audit.Event{
		Timestamp: base.Add(time.Second),
		ProjectID: projectID,
		ActorID:   actorID,
		Action:    string(audit.EventGapOpened),
		EntityID:  id.NewGapID().String(),
		Detail:    "high",
		RequestID: "req-2",
	}
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, second))

	// a different project's trail stays separate
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: base,
		ProjectID: id.NewProjectID(),
		ActorID:   actorID,
		Action:    string(audit.EventProjectCreated),
	}))

	events, err := s.store.ListByProject(ctx, projectID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(string(audit.EventBoundaryCreated), events[0].Action)
	s.Equal(string(audit.EventGapOpened), events[1].Action)
	s.Equal("req-2", events[1].RequestID)
	s.True(events[0].Timestamp.Equal(first.Timestamp))
	s.Equal(actorID, events[0].ActorID)
}
