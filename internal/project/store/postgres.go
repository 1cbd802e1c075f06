package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// Postgres persists projects.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed project store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Create(ctx context.Context, project *models.Project) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO projects (id, name, description, owner_user_id, on_hold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(project.ID), project.Name, project.Description,
		uuid.UUID(project.OwnerUserID), project.OnHold, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, project *models.Project) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE projects
		SET name = $2, description = $3, on_hold = $4, updated_at = $5
		WHERE id = $1`,
		uuid.UUID(project.ID), project.Name, project.Description,
		project.OnHold, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, projectID id.ProjectID) (*models.Project, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, description, owner_user_id, on_hold, created_at, updated_at
		FROM projects WHERE id = $1`,
		uuid.UUID(projectID),
	)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return project, nil
}

func (s *Postgres) ListByOwner(ctx context.Context, owner id.UserID) ([]models.Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, owner_user_id, on_hold, created_at, updated_at
		FROM projects WHERE owner_user_id = $1
		ORDER BY created_at`,
		uuid.UUID(owner),
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var project models.Project
	var rawID, rawOwner uuid.UUID
	err := row.Scan(&rawID, &project.Name, &project.Description, &rawOwner,
		&project.OnHold, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, err
	}
	project.ID = id.ProjectID(rawID)
	project.OwnerUserID = id.UserID(rawOwner)
	return &project, nil
}
