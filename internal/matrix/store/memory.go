package store

import (
	"context"
	"sync"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

type pairKey struct {
	boundaryID id.BoundaryID
	controlID  id.ControlID
}

// InMemory keeps applicability cells in memory, keyed both by cell ID and by
// the unique (boundary, control) pair.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[id.CellID]models.Cell
	byPair map[pairKey]id.CellID
}

// NewInMemory constructs an empty in-memory cell store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[id.CellID]models.Cell),
		byPair: make(map[pairKey]id.CellID),
	}
}

// Upsert inserts the cell or overwrites the existing cell for the same
// (boundary, control) pair, preserving the original cell ID and CreatedAt.
func (s *InMemory) Upsert(_ context.Context, cell *models.Cell) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{cell.BoundaryID, cell.ControlID}
	if existingID, ok := s.byPair[key]; ok && existingID != cell.ID {
		existing := s.byID[existingID]
		cell.ID = existingID
		cell.CreatedAt = existing.CreatedAt
	}
	s.byID[cell.ID] = *cell
	s.byPair[key] = cell.ID
	return nil
}

func (s *InMemory) Update(_ context.Context, cell *models.Cell) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[cell.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.byID[cell.ID] = *cell
	return nil
}

func (s *InMemory) FindByID(_ context.Context, cellID id.CellID) (*models.Cell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cell, ok := s.byID[cellID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &cell, nil
}

func (s *InMemory) FindByPair(_ context.Context, boundaryID id.BoundaryID, controlID id.ControlID) (*models.Cell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cellID, ok := s.byPair[pairKey{boundaryID, controlID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cell := s.byID[cellID]
	return &cell, nil
}

func (s *InMemory) ListByBoundary(_ context.Context, boundaryID id.BoundaryID) ([]models.Cell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cells := []models.Cell{}
	for _, cell := range s.byID {
		if cell.BoundaryID == boundaryID {
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

func (s *InMemory) ListByBoundaries(ctx context.Context, boundaryIDs []id.BoundaryID) ([]models.Cell, error) {
	cells := []models.Cell{}
	for _, boundaryID := range boundaryIDs {
		batch, err := s.ListByBoundary(ctx, boundaryID)
		if err != nil {
			return nil, err
		}
		cells = append(cells, batch...)
	}
	return cells, nil
}

// CountDecidedByBoundaries reports how many cells exist across the given
// boundaries. Every stored cell is a decision, so this is a plain count.
func (s *InMemory) CountDecidedByBoundaries(ctx context.Context, boundaryIDs []id.BoundaryID) (int, error) {
	cells, err := s.ListByBoundaries(ctx, boundaryIDs)
	if err != nil {
		return 0, err
	}
	return len(cells), nil
}

func (s *InMemory) CellIDsByBoundaries(ctx context.Context, boundaryIDs []id.BoundaryID) ([]id.CellID, error) {
	cells, err := s.ListByBoundaries(ctx, boundaryIDs)
	if err != nil {
		return nil, err
	}
	cellIDs := make([]id.CellID, len(cells))
	for i, cell := range cells {
		cellIDs[i] = cell.ID
	}
	return cellIDs, nil
}
