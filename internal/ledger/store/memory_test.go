package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

type GapStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryGaps
}

func TestGapStoreSuite(t *testing.T) {
	suite.Run(t, new(GapStoreSuite))
}

func (s *GapStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryGaps()
}

func (s *GapStoreSuite) newGap(cellID id.CellID, identifiedAt time.Time) *models.Gap {
	gap, err := models.NewGap(id.NewGapID(), cellID, id.NewUserID(), "missing control evidence", models.SeverityMedium, identifiedAt)
	s.Require().NoError(err)
	return gap
}

func (s *GapStoreSuite) TestUpdateVersionedCAS() {
	gap := s.newGap(id.NewCellID(), time.Now())
	s.Require().NoError(s.store.Create(s.ctx, gap))

	s.Require().NoError(gap.TransitionTo(models.StatusInReview, time.Now()))
	s.Require().NoError(s.store.UpdateVersioned(s.ctx, gap, 1))
	s.Equal(2, gap.Version)

	// a second writer holding the stale version loses
	stale := *gap
	stale.Version = 1
	err := s.store.UpdateVersioned(s.ctx, &stale, 1)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *GapStoreSuite) TestUpdateVersionedUnknownGap() {
	gap := s.newGap(id.NewCellID(), time.Now())
	s.ErrorIs(s.store.UpdateVersioned(s.ctx, gap, 1), sentinel.ErrNotFound)
}

func (s *GapStoreSuite) TestListByCellOrderedByIdentifiedAt() {
	cellID := id.NewCellID()
	base := time.Now()
	third := s.newGap(cellID, base.Add(2*time.Second))
	first := s.newGap(cellID, base)
	second := s.newGap(cellID, base.Add(time.Second))
	for _, gap := range []*models.Gap{third, first, second} {
		s.Require().NoError(s.store.Create(s.ctx, gap))
	}

	gaps, err := s.store.ListByCell(s.ctx, cellID)
	s.Require().NoError(err)
	s.Require().Len(gaps, 3)
	s.Equal(first.ID, gaps[0].ID)
	s.Equal(second.ID, gaps[1].ID)
	s.Equal(third.ID, gaps[2].ID)
}

func (s *GapStoreSuite) TestOpenCountExcludesSettled() {
	cellID := id.NewCellID()
	open := s.newGap(cellID, time.Now())
	settled := s.newGap(cellID, time.Now())
	s.Require().NoError(s.store.Create(s.ctx, open))
	s.Require().NoError(s.store.Create(s.ctx, settled))

	for _, next := range []models.Status{models.StatusInReview, models.StatusConfirmed, models.StatusRemediated} {
		s.Require().NoError(settled.TransitionTo(next, time.Now()))
		s.Require().NoError(s.store.UpdateVersioned(s.ctx, settled, settled.Version))
	}

	counts, err := s.store.OpenCountByCells(s.ctx, []id.CellID{cellID})
	s.Require().NoError(err)
	s.Equal(1, counts[cellID])

	total, settledCount, err := s.store.CountByCells(s.ctx, []id.CellID{cellID})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Equal(1, settledCount)
}

func TestEvidenceStore_CountByCells(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryEvidence()
	cellA, cellB := id.NewCellID(), id.NewCellID()

	for i := 0; i < 2; i++ {
		evidence, err := models.NewEvidence(id.NewEvidenceID(), cellA, id.NewUserID(), "policy doc", "", "", time.Now())
		if err != nil {
			t.Fatalf("new evidence: %v", err)
		}
		if err := store.Create(ctx, evidence); err != nil {
			t.Fatalf("create evidence: %v", err)
		}
	}

	counts, err := store.CountByCells(ctx, []id.CellID{cellA, cellB})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[cellA] != 2 || counts[cellB] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
