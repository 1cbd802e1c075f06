package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
)

// PostgresStore persists audit events in the audit_events table. Rows are
// append-only; there is no update or delete path.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed audit store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_events (project_id, actor_id, action, entity_id, detail, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(event.ProjectID), uuid.UUID(event.ActorID), event.Action,
		event.EntityID, event.Detail, event.RequestID, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByProject(ctx context.Context, projectID id.ProjectID) ([]Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT project_id, actor_id, action, entity_id, detail, request_id, created_at
		FROM audit_events WHERE project_id = $1
		ORDER BY created_at, id`,
		uuid.UUID(projectID),
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var event Event
		var rawProject, rawActor uuid.UUID
		if err := rows.Scan(&rawProject, &rawActor, &event.Action,
			&event.EntityID, &event.Detail, &event.RequestID, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.ProjectID = id.ProjectID(rawProject)
		event.ActorID = id.UserID(rawActor)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
