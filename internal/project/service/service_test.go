package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/store"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/audit"
)

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	owner      id.UserID
	auditStore *audit.InMemoryStore
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.owner = id.NewUserID()
	s.auditStore = audit.NewInMemoryStore()
	s.service = New(store.NewInMemory(),
		WithAuditPublisher(syncPublisher{store: s.auditStore}),
	)
}

// syncPublisher appends directly so tests can assert on emitted events
// without running the async publisher loop.
type syncPublisher struct {
	store *audit.InMemoryStore
}

func (p syncPublisher) Emit(ctx context.Context, event audit.Event) error {
	return p.store.Append(ctx, event)
}

func (s *ServiceSuite) TestCreateProject() {
	project, err := s.service.Create(s.ctx, s.owner, "ISO 27001 push", "certification by Q4")
	s.Require().NoError(err)
	s.Equal("ISO 27001 push", project.Name)
	s.False(project.OnHold)

	events, err := s.auditStore.ListByProject(s.ctx, project.ID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventProjectCreated), events[0].Action)
}

func (s *ServiceSuite) TestCreateProjectEmptyName() {
	_, err := s.service.Create(s.ctx, s.owner, "   ", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestGetByNonOwner() {
	project, err := s.service.Create(s.ctx, s.owner, "Private", "")
	s.Require().NoError(err)

	_, err = s.service.Get(s.ctx, id.NewUserID(), project.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestGetUnknown() {
	_, err := s.service.Get(s.ctx, s.owner, id.NewProjectID())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListReturnsOwnProjectsOnly() {
	_, err := s.service.Create(s.ctx, s.owner, "Mine", "")
	s.Require().NoError(err)
	_, err = s.service.Create(s.ctx, id.NewUserID(), "Theirs", "")
	s.Require().NoError(err)

	projects, err := s.service.List(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(projects, 1)
	s.Equal("Mine", projects[0].Name)
}

func (s *ServiceSuite) TestSetOnHold() {
	project, err := s.service.Create(s.ctx, s.owner, "Pausable", "")
	s.Require().NoError(err)

	updated, err := s.service.SetOnHold(s.ctx, s.owner, project.ID, true)
	s.Require().NoError(err)
	s.True(updated.OnHold)

	updated, err = s.service.SetOnHold(s.ctx, s.owner, project.ID, false)
	s.Require().NoError(err)
	s.False(updated.OnHold)
}

func (s *ServiceSuite) TestAuthorize() {
	project, err := s.service.Create(s.ctx, s.owner, "Guarded", "")
	s.Require().NoError(err)

	s.NoError(s.service.Authorize(s.ctx, s.owner, project.ID))
	s.Error(s.service.Authorize(s.ctx, id.NewUserID(), project.ID))
}
