package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// Postgres persists the control catalog.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed catalog store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Insert(ctx context.Context, control models.Control) error {
	// Seeding runs at every startup; existing references are left untouched.
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO controls (id, reference, description, domain)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (reference) DO NOTHING`,
		uuid.UUID(control.ID), control.Reference, control.Description, control.Domain,
	)
	if err != nil {
		return fmt.Errorf("insert control: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, controlID id.ControlID) (models.Control, error) {
	var control models.Control
	var rawID uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT id, reference, description, domain
		FROM controls WHERE id = $1`,
		uuid.UUID(controlID),
	).Scan(&rawID, &control.Reference, &control.Description, &control.Domain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Control{}, sentinel.ErrNotFound
		}
		return models.Control{}, fmt.Errorf("find control: %w", err)
	}
	control.ID = id.ControlID(rawID)
	return control, nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM controls`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count controls: %w", err)
	}
	return count, nil
}

func (s *Postgres) List(ctx context.Context) ([]models.Control, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, reference, description, domain
		FROM controls ORDER BY reference`)
	if err != nil {
		return nil, fmt.Errorf("list controls: %w", err)
	}
	defer rows.Close()

	controls := []models.Control{}
	for rows.Next() {
		var control models.Control
		var rawID uuid.UUID
		if err := rows.Scan(&rawID, &control.Reference, &control.Description, &control.Domain); err != nil {
			return nil, fmt.Errorf("scan control: %w", err)
		}
		control.ID = id.ControlID(rawID)
		controls = append(controls, control)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate controls: %w", err)
	}
	return controls, nil
}
