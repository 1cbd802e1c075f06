package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// PostgresEvidence persists evidence records.
type PostgresEvidence struct {
	pool *pgxpool.Pool
}

// NewPostgresEvidence constructs a Postgres-backed evidence store.
func NewPostgresEvidence(pool *pgxpool.Pool) *PostgresEvidence {
	return &PostgresEvidence{pool: pool}
}

func (s *PostgresEvidence) Create(ctx context.Context, evidence *models.Evidence) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO evidence (id, boundary_control_id, title, description, file_ref, uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(evidence.ID), uuid.UUID(evidence.CellID), evidence.Title,
		evidence.Description, evidence.FileRef, uuid.UUID(evidence.UploadedBy),
		evidence.CreatedAt, evidence.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert evidence: %w", err)
	}
	return nil
}

func (s *PostgresEvidence) ListByCell(ctx context.Context, cellID id.CellID) ([]models.Evidence, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, boundary_control_id, title, description, file_ref, uploaded_by, created_at, updated_at
		FROM evidence WHERE boundary_control_id = $1
		ORDER BY created_at`,
		uuid.UUID(cellID),
	)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	defer rows.Close()

	records := []models.Evidence{}
	for rows.Next() {
		var evidence models.Evidence
		var rawID, rawCell, rawUploader uuid.UUID
		if err := rows.Scan(&rawID, &rawCell, &evidence.Title, &evidence.Description,
			&evidence.FileRef, &rawUploader, &evidence.CreatedAt, &evidence.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		evidence.ID = id.EvidenceID(rawID)
		evidence.CellID = id.CellID(rawCell)
		evidence.UploadedBy = id.UserID(rawUploader)
		records = append(records, evidence)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evidence: %w", err)
	}
	return records, nil
}

func (s *PostgresEvidence) CountByCells(ctx context.Context, cellIDs []id.CellID) (map[id.CellID]int, error) {
	counts := make(map[id.CellID]int, len(cellIDs))
	raw := make([]uuid.UUID, len(cellIDs))
	for i, cellID := range cellIDs {
		raw[i] = uuid.UUID(cellID)
		counts[cellID] = 0
	}
	rows, err := s.pool.Query(ctx, `
		SELECT boundary_control_id, COUNT(*)
		FROM evidence WHERE boundary_control_id = ANY($1)
		GROUP BY boundary_control_id`,
		raw,
	)
	if err != nil {
		return nil, fmt.Errorf("count evidence: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rawCell uuid.UUID
		var count int
		if err := rows.Scan(&rawCell, &count); err != nil {
			return nil, fmt.Errorf("scan evidence count: %w", err)
		}
		counts[id.CellID(rawCell)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evidence counts: %w", err)
	}
	return counts, nil
}

// PostgresGaps persists gaps with compare-and-swap semantics on the version
// column.
type PostgresGaps struct {
	pool *pgxpool.Pool
}

// NewPostgresGaps constructs a Postgres-backed gap store.
func NewPostgresGaps(pool *pgxpool.Pool) *PostgresGaps {
	return &PostgresGaps{pool: pool}
}

func (s *PostgresGaps) Create(ctx context.Context, gap *models.Gap) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO gaps (id, boundary_control_id, description, severity, status, identified_by, identified_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(gap.ID), uuid.UUID(gap.CellID), gap.Description,
		string(gap.Severity), string(gap.Status), uuid.UUID(gap.IdentifiedBy),
		gap.IdentifiedAt, gap.UpdatedAt, gap.Version,
	)
	if err != nil {
		return fmt.Errorf("insert gap: %w", err)
	}
	return nil
}

func (s *PostgresGaps) FindByID(ctx context.Context, gapID id.GapID) (*models.Gap, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, boundary_control_id, description, severity, status, identified_by, identified_at, updated_at, version
		FROM gaps WHERE id = $1`,
		uuid.UUID(gapID),
	)
	gap, err := scanGap(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find gap: %w", err)
	}
	return gap, nil
}

// UpdateVersioned writes the gap only when the stored version still equals
// expectedVersion. The guarded UPDATE is the concurrency control; no row
// locks are taken.
func (s *PostgresGaps) UpdateVersioned(ctx context.Context, gap *models.Gap, expectedVersion int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE gaps SET status = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND version = $2`,
		uuid.UUID(gap.ID), expectedVersion, string(gap.Status), gap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update gap: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.FindByID(ctx, gap.ID); errors.Is(err, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}
	gap.Version = expectedVersion + 1
	return nil
}

func (s *PostgresGaps) ListByCell(ctx context.Context, cellID id.CellID) ([]models.Gap, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, boundary_control_id, description, severity, status, identified_by, identified_at, updated_at, version
		FROM gaps WHERE boundary_control_id = $1
		ORDER BY identified_at, id`,
		uuid.UUID(cellID),
	)
	if err != nil {
		return nil, fmt.Errorf("list gaps: %w", err)
	}
	defer rows.Close()

	gaps := []models.Gap{}
	for rows.Next() {
		gap, err := scanGap(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gap: %w", err)
		}
		gaps = append(gaps, *gap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gaps: %w", err)
	}
	return gaps, nil
}

func (s *PostgresGaps) OpenCountByCells(ctx context.Context, cellIDs []id.CellID) (map[id.CellID]int, error) {
	counts := make(map[id.CellID]int, len(cellIDs))
	raw := make([]uuid.UUID, len(cellIDs))
	for i, cellID := range cellIDs {
		raw[i] = uuid.UUID(cellID)
		counts[cellID] = 0
	}
	rows, err := s.pool.Query(ctx, `
		SELECT boundary_control_id, COUNT(*)
		FROM gaps
		WHERE boundary_control_id = ANY($1) AND status NOT IN ('remediated', 'closed')
		GROUP BY boundary_control_id`,
		raw,
	)
	if err != nil {
		return nil, fmt.Errorf("count open gaps: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rawCell uuid.UUID
		var count int
		if err := rows.Scan(&rawCell, &count); err != nil {
			return nil, fmt.Errorf("scan gap count: %w", err)
		}
		counts[id.CellID(rawCell)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gap counts: %w", err)
	}
	return counts, nil
}

func (s *PostgresGaps) CountByCells(ctx context.Context, cellIDs []id.CellID) (total, settled int, err error) {
	raw := make([]uuid.UUID, len(cellIDs))
	for i, cellID := range cellIDs {
		raw[i] = uuid.UUID(cellID)
	}
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status IN ('remediated', 'closed'))
		FROM gaps WHERE boundary_control_id = ANY($1)`,
		raw,
	).Scan(&total, &settled)
	if err != nil {
		return 0, 0, fmt.Errorf("count gaps: %w", err)
	}
	return total, settled, nil
}

func scanGap(row pgx.Row) (*models.Gap, error) {
	var gap models.Gap
	var rawID, rawCell, rawIdentifier uuid.UUID
	var severity, status string
	err := row.Scan(&rawID, &rawCell, &gap.Description, &severity, &status,
		&rawIdentifier, &gap.IdentifiedAt, &gap.UpdatedAt, &gap.Version)
	if err != nil {
		return nil, err
	}
	gap.ID = id.GapID(rawID)
	gap.CellID = id.CellID(rawCell)
	gap.IdentifiedBy = id.UserID(rawIdentifier)
	gap.Severity = models.Severity(severity)
	gap.Status = models.Status(status)
	return &gap, nil
}
