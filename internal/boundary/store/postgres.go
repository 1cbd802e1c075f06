package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// Postgres persists boundaries.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed boundary store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Create(ctx context.Context, boundary *models.Boundary) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO boundaries (id, project_id, name, type, included, notes, owner_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(boundary.ID), uuid.UUID(boundary.ProjectID), boundary.Name,
		string(boundary.Type), boundary.Included, boundary.Notes,
		uuid.UUID(boundary.OwnerUserID), boundary.CreatedAt, boundary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert boundary: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, boundary *models.Boundary) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE boundaries
		SET name = $2, type = $3, included = $4, notes = $5, updated_at = $6
		WHERE id = $1`,
		uuid.UUID(boundary.ID), boundary.Name, string(boundary.Type),
		boundary.Included, boundary.Notes, boundary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update boundary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Delete removes the boundary row. Referencing cells make the delete fail on
// the foreign key, reported as sentinel.ErrConflict so the service check
// holds even when a decision lands between check and delete.
func (s *Postgres) Delete(ctx context.Context, boundaryID id.BoundaryID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM boundaries WHERE id = $1`, uuid.UUID(boundaryID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return sentinel.ErrConflict
		}
		return fmt.Errorf("delete boundary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, boundaryID id.BoundaryID) (*models.Boundary, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, project_id, name, type, included, notes, owner_user_id, created_at, updated_at
		FROM boundaries WHERE id = $1`,
		uuid.UUID(boundaryID),
	)
	boundary, err := scanBoundary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find boundary: %w", err)
	}
	return boundary, nil
}

func (s *Postgres) ListByProject(ctx context.Context, projectID id.ProjectID) ([]models.Boundary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, project_id, name, type, included, notes, owner_user_id, created_at, updated_at
		FROM boundaries WHERE project_id = $1
		ORDER BY created_at`,
		uuid.UUID(projectID),
	)
	if err != nil {
		return nil, fmt.Errorf("list boundaries: %w", err)
	}
	defer rows.Close()

	boundaries := []models.Boundary{}
	for rows.Next() {
		boundary, err := scanBoundary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan boundary: %w", err)
		}
		boundaries = append(boundaries, *boundary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boundaries: %w", err)
	}
	return boundaries, nil
}

func (s *Postgres) CountByProject(ctx context.Context, projectID id.ProjectID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM boundaries WHERE project_id = $1`,
		uuid.UUID(projectID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count boundaries: %w", err)
	}
	return count, nil
}

func scanBoundary(row pgx.Row) (*models.Boundary, error) {
	var boundary models.Boundary
	var rawID, rawProject, rawOwner uuid.UUID
	var boundaryType string
	err := row.Scan(&rawID, &rawProject, &boundary.Name, &boundaryType,
		&boundary.Included, &boundary.Notes, &rawOwner,
		&boundary.CreatedAt, &boundary.UpdatedAt)
	if err != nil {
		return nil, err
	}
	boundary.ID = id.BoundaryID(rawID)
	boundary.ProjectID = id.ProjectID(rawProject)
	boundary.OwnerUserID = id.UserID(rawOwner)
	boundary.Type = models.Type(boundaryType)
	return &boundary, nil
}
