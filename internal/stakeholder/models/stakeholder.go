package models

import (
	"strings"
	"time"

	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// Stakeholder is a person with a named role in the project's security
// program. The readiness aggregator only cares that at least one exists.
type Stakeholder struct {
	ID          id.StakeholderID `json:"id"`
	ProjectID   id.ProjectID     `json:"project_id"`
	Name        string           `json:"name"`
	Role        string           `json:"role,omitempty"`
	Email       string           `json:"email,omitempty"`
	OwnerUserID id.UserID        `json:"owner_user_id"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewStakeholder validates invariants and constructs a stakeholder.
func NewStakeholder(stakeholderID id.StakeholderID, projectID id.ProjectID, owner id.UserID, name, role, email string, now time.Time) (*Stakeholder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "stakeholder name cannot be empty")
	}
	return &Stakeholder{
		ID:          stakeholderID,
		ProjectID:   projectID,
		Name:        name,
		Role:        strings.TrimSpace(role),
		Email:       strings.TrimSpace(email),
		OwnerUserID: owner,
		CreatedAt:   now,
	}, nil
}
