package store

import (
	"context"
	"sort"
	"sync"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// InMemoryEvidence keeps evidence records in memory.
type InMemoryEvidence struct {
	mu       sync.RWMutex
	evidence map[id.EvidenceID]models.Evidence
}

// NewInMemoryEvidence constructs an empty in-memory evidence store.
func NewInMemoryEvidence() *InMemoryEvidence {
	return &InMemoryEvidence{evidence: make(map[id.EvidenceID]models.Evidence)}
}

func (s *InMemoryEvidence) Create(_ context.Context, evidence *models.Evidence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evidence[evidence.ID] = *evidence
	return nil
}

func (s *InMemoryEvidence) ListByCell(_ context.Context, cellID id.CellID) ([]models.Evidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := []models.Evidence{}
	for _, evidence := range s.evidence {
		if evidence.CellID == cellID {
			records = append(records, evidence)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (s *InMemoryEvidence) CountByCells(_ context.Context, cellIDs []id.CellID) (map[id.CellID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[id.CellID]int, len(cellIDs))
	wanted := make(map[id.CellID]bool, len(cellIDs))
	for _, cellID := range cellIDs {
		wanted[cellID] = true
		counts[cellID] = 0
	}
	for _, evidence := range s.evidence {
		if wanted[evidence.CellID] {
			counts[evidence.CellID]++
		}
	}
	return counts, nil
}

// InMemoryGaps keeps gaps in memory with compare-and-swap semantics on the
// gap version.
type InMemoryGaps struct {
	mu   sync.RWMutex
	gaps map[id.GapID]models.Gap
}

// NewInMemoryGaps constructs an empty in-memory gap store.
func NewInMemoryGaps() *InMemoryGaps {
	return &InMemoryGaps{gaps: make(map[id.GapID]models.Gap)}
}

func (s *InMemoryGaps) Create(_ context.Context, gap *models.Gap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gaps[gap.ID] = *gap
	return nil
}

func (s *InMemoryGaps) FindByID(_ context.Context, gapID id.GapID) (*models.Gap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gap, ok := s.gaps[gapID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &gap, nil
}

// UpdateVersioned writes the gap only when the stored version still equals
// expectedVersion, then bumps the version. A stale version is a conflict.
func (s *InMemoryGaps) UpdateVersioned(_ context.Context, gap *models.Gap, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.gaps[gap.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return sentinel.ErrConflict
	}
	gap.Version = expectedVersion + 1
	s.gaps[gap.ID] = *gap
	return nil
}

func (s *InMemoryGaps) ListByCell(_ context.Context, cellID id.CellID) ([]models.Gap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gaps := []models.Gap{}
	for _, gap := range s.gaps {
		if gap.CellID == cellID {
			gaps = append(gaps, gap)
		}
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].IdentifiedAt.Before(gaps[j].IdentifiedAt)
	})
	return gaps, nil
}

func (s *InMemoryGaps) OpenCountByCells(_ context.Context, cellIDs []id.CellID) (map[id.CellID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[id.CellID]int, len(cellIDs))
	wanted := make(map[id.CellID]bool, len(cellIDs))
	for _, cellID := range cellIDs {
		wanted[cellID] = true
		counts[cellID] = 0
	}
	for _, gap := range s.gaps {
		if wanted[gap.CellID] && gap.Status.IsOpen() {
			counts[gap.CellID]++
		}
	}
	return counts, nil
}

// CountByCells tallies total and settled gaps across the given cells. The
// readiness aggregator uses the ratio; project scoping happens through the
// caller supplying the project's cell IDs.
func (s *InMemoryGaps) CountByCells(_ context.Context, cellIDs []id.CellID) (total, settled int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[id.CellID]bool, len(cellIDs))
	for _, cellID := range cellIDs {
		wanted[cellID] = true
	}
	for _, gap := range s.gaps {
		if !wanted[gap.CellID] {
			continue
		}
		total++
		if !gap.Status.IsOpen() {
			settled++
		}
	}
	return total, settled, nil
}
