package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/questionnaire/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// Postgres persists questionnaire progress.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed progress store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Upsert(ctx context.Context, progress *models.Progress) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO questionnaire_progress (project_id, answered, total, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id) DO UPDATE SET
			answered   = EXCLUDED.answered,
			total      = EXCLUDED.total,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(progress.ProjectID), progress.Answered, progress.Total, progress.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert questionnaire progress: %w", err)
	}
	return nil
}

func (s *Postgres) FindByProject(ctx context.Context, projectID id.ProjectID) (*models.Progress, error) {
	var progress models.Progress
	var rawProject uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT project_id, answered, total, updated_at
		FROM questionnaire_progress WHERE project_id = $1`,
		uuid.UUID(projectID),
	).Scan(&rawProject, &progress.Answered, &progress.Total, &progress.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find questionnaire progress: %w", err)
	}
	progress.ProjectID = id.ProjectID(rawProject)
	return &progress, nil
}
