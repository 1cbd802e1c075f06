package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// Postgres persists applicability cells in the boundary_controls table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed cell store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const cellColumns = `id, boundary_id, control_id, is_applicable, reason_inclusion,
	reason_exclusion, implementation_status, compliance_status, assessment_date,
	assessment_notes, owner_user_id, created_at, updated_at`

// Upsert inserts the cell or, when the (boundary, control) pair already has a
// row, rewrites the decision in place keeping the original id and created_at.
func (s *Postgres) Upsert(ctx context.Context, cell *models.Cell) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO boundary_controls (`+cellColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (boundary_id, control_id) DO UPDATE SET
			is_applicable         = EXCLUDED.is_applicable,
			reason_inclusion      = EXCLUDED.reason_inclusion,
			reason_exclusion      = EXCLUDED.reason_exclusion,
			implementation_status = EXCLUDED.implementation_status,
			compliance_status     = EXCLUDED.compliance_status,
			assessment_date       = EXCLUDED.assessment_date,
			assessment_notes      = EXCLUDED.assessment_notes,
			updated_at            = EXCLUDED.updated_at
		RETURNING id, created_at`,
		uuid.UUID(cell.ID), uuid.UUID(cell.BoundaryID), uuid.UUID(cell.ControlID),
		cell.IsApplicable, cell.ReasonInclusion, cell.ReasonExclusion,
		cell.ImplementationStatus, string(cell.ComplianceStatus),
		cell.AssessmentDate, cell.AssessmentNotes,
		uuid.UUID(cell.OwnerUserID), cell.CreatedAt, cell.UpdatedAt,
	)
	var rawID uuid.UUID
	if err := row.Scan(&rawID, &cell.CreatedAt); err != nil {
		return fmt.Errorf("upsert cell: %w", err)
	}
	cell.ID = id.CellID(rawID)
	return nil
}

func (s *Postgres) Update(ctx context.Context, cell *models.Cell) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE boundary_controls SET
			is_applicable         = $2,
			reason_inclusion      = $3,
			reason_exclusion      = $4,
			implementation_status = $5,
			compliance_status     = $6,
			assessment_date       = $7,
			assessment_notes      = $8,
			updated_at            = $9
		WHERE id = $1`,
		uuid.UUID(cell.ID), cell.IsApplicable, cell.ReasonInclusion,
		cell.ReasonExclusion, cell.ImplementationStatus,
		string(cell.ComplianceStatus), cell.AssessmentDate,
		cell.AssessmentNotes, cell.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cell: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, cellID id.CellID) (*models.Cell, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+cellColumns+` FROM boundary_controls WHERE id = $1`,
		uuid.UUID(cellID),
	)
	cell, err := scanCell(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find cell: %w", err)
	}
	return cell, nil
}

func (s *Postgres) FindByPair(ctx context.Context, boundaryID id.BoundaryID, controlID id.ControlID) (*models.Cell, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+cellColumns+` FROM boundary_controls WHERE boundary_id = $1 AND control_id = $2`,
		uuid.UUID(boundaryID), uuid.UUID(controlID),
	)
	cell, err := scanCell(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find cell by pair: %w", err)
	}
	return cell, nil
}

func (s *Postgres) ListByBoundary(ctx context.Context, boundaryID id.BoundaryID) ([]models.Cell, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+cellColumns+` FROM boundary_controls WHERE boundary_id = $1`,
		uuid.UUID(boundaryID),
	)
	if err != nil {
		return nil, fmt.Errorf("list cells: %w", err)
	}
	return collectCells(rows)
}

func (s *Postgres) ListByBoundaries(ctx context.Context, boundaryIDs []id.BoundaryID) ([]models.Cell, error) {
	raw := make([]uuid.UUID, len(boundaryIDs))
	for i, boundaryID := range boundaryIDs {
		raw[i] = uuid.UUID(boundaryID)
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+cellColumns+` FROM boundary_controls WHERE boundary_id = ANY($1)`,
		raw,
	)
	if err != nil {
		return nil, fmt.Errorf("list cells: %w", err)
	}
	return collectCells(rows)
}

func (s *Postgres) CountDecidedByBoundaries(ctx context.Context, boundaryIDs []id.BoundaryID) (int, error) {
	raw := make([]uuid.UUID, len(boundaryIDs))
	for i, boundaryID := range boundaryIDs {
		raw[i] = uuid.UUID(boundaryID)
	}
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM boundary_controls WHERE boundary_id = ANY($1)`,
		raw,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cells: %w", err)
	}
	return count, nil
}

func (s *Postgres) CellIDsByBoundaries(ctx context.Context, boundaryIDs []id.BoundaryID) ([]id.CellID, error) {
	raw := make([]uuid.UUID, len(boundaryIDs))
	for i, boundaryID := range boundaryIDs {
		raw[i] = uuid.UUID(boundaryID)
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM boundary_controls WHERE boundary_id = ANY($1)`,
		raw,
	)
	if err != nil {
		return nil, fmt.Errorf("list cell ids: %w", err)
	}
	defer rows.Close()
	cellIDs := []id.CellID{}
	for rows.Next() {
		var rawID uuid.UUID
		if err := rows.Scan(&rawID); err != nil {
			return nil, fmt.Errorf("scan cell id: %w", err)
		}
		cellIDs = append(cellIDs, id.CellID(rawID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cell ids: %w", err)
	}
	return cellIDs, nil
}

func collectCells(rows pgx.Rows) ([]models.Cell, error) {
	defer rows.Close()
	cells := []models.Cell{}
	for rows.Next() {
		cell, err := scanCell(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		cells = append(cells, *cell)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cells: %w", err)
	}
	return cells, nil
}

func scanCell(row pgx.Row) (*models.Cell, error) {
	var cell models.Cell
	var rawID, rawBoundary, rawControl, rawOwner uuid.UUID
	var status string
	err := row.Scan(&rawID, &rawBoundary, &rawControl, &cell.IsApplicable,
		&cell.ReasonInclusion, &cell.ReasonExclusion, &cell.ImplementationStatus,
		&status, &cell.AssessmentDate, &cell.AssessmentNotes, &rawOwner,
		&cell.CreatedAt, &cell.UpdatedAt)
	if err != nil {
		return nil, err
	}
	cell.ID = id.CellID(rawID)
	cell.BoundaryID = id.BoundaryID(rawBoundary)
	cell.ControlID = id.ControlID(rawControl)
	cell.OwnerUserID = id.UserID(rawOwner)
	cell.ComplianceStatus = models.ComplianceStatus(status)
	return &cell, nil
}
