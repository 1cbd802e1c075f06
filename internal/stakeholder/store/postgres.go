package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/stakeholder/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
)

// Postgres persists stakeholders.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed stakeholder store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Create(ctx context.Context, stakeholder *models.Stakeholder) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO stakeholders (id, project_id, name, role, email, owner_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(stakeholder.ID), uuid.UUID(stakeholder.ProjectID),
		stakeholder.Name, stakeholder.Role, stakeholder.Email,
		uuid.UUID(stakeholder.OwnerUserID), stakeholder.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stakeholder: %w", err)
	}
	return nil
}

func (s *Postgres) ListByProject(ctx context.Context, projectID id.ProjectID) ([]models.Stakeholder, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, project_id, name, role, email, owner_user_id, created_at
		FROM stakeholders WHERE project_id = $1
		ORDER BY created_at`,
		uuid.UUID(projectID),
	)
	if err != nil {
		return nil, fmt.Errorf("list stakeholders: %w", err)
	}
	defer rows.Close()

	stakeholders := []models.Stakeholder{}
	for rows.Next() {
		var stakeholder models.Stakeholder
		var rawID, rawProject, rawOwner uuid.UUID
		if err := rows.Scan(&rawID, &rawProject, &stakeholder.Name, &stakeholder.Role,
			&stakeholder.Email, &rawOwner, &stakeholder.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stakeholder: %w", err)
		}
		stakeholder.ID = id.StakeholderID(rawID)
		stakeholder.ProjectID = id.ProjectID(rawProject)
		stakeholder.OwnerUserID = id.UserID(rawOwner)
		stakeholders = append(stakeholders, stakeholder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stakeholders: %w", err)
	}
	return stakeholders, nil
}

func (s *Postgres) CountByProject(ctx context.Context, projectID id.ProjectID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM stakeholders WHERE project_id = $1`,
		uuid.UUID(projectID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count stakeholders: %w", err)
	}
	return count, nil
}
