package models

import (
	"strings"
	"time"

	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// Status is the derived lifecycle state reported for a project. Only OnHold
// is stored (as the OnHold flag); the rest are computed by the readiness
// aggregator on every read.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
)

// Project is the owning record for boundaries, stakeholders, the
// applicability matrix, and the gap/evidence ledger.
//
// Invariants:
//   - Name is non-empty and at most 200 characters
//   - OwnerUserID is set at creation and immutable
//   - OnHold is explicit operator state, never derived
type Project struct {
	ID          id.ProjectID `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	OwnerUserID id.UserID    `json:"owner_user_id"`
	OnHold      bool         `json:"on_hold"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewProject validates invariants and constructs a project.
func NewProject(projectID id.ProjectID, owner id.UserID, name, description string, now time.Time) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "project name cannot be empty")
	}
	if len(name) > 200 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "project name must be 200 characters or less")
	}
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "project owner is required")
	}
	return &Project{
		ID:          projectID,
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerUserID: owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetOnHold flips the operator-controlled hold flag.
func (p *Project) SetOnHold(onHold bool, now time.Time) {
	p.OnHold = onHold
	p.UpdatedAt = now
}

// IsOwnedBy reports whether userID owns this project. Ownership gates every
// project-scoped operation.
func (p *Project) IsOwnedBy(userID id.UserID) bool {
	return p.OwnerUserID == userID
}
