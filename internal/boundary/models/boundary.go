package models

import (
	"strings"
	"time"

	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// Type classifies a scope boundary.
type Type string

const (
	TypeDepartment Type = "department"
	TypeSystem     Type = "system"
	TypeLocation   Type = "location"
	TypeOther      Type = "other"
)

// ParseType validates a boundary type string.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeDepartment, TypeSystem, TypeLocation, TypeOther:
		return t, nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown boundary type %q", s)
	}
}

// Boundary is one declared unit of scope for a project's security program.
//
// Invariants:
//   - Name is non-empty and at most 200 characters
//   - Type is one of the four declared kinds
//   - Included=false marks logical exclusion; the row survives so the
//     applicability matrix keeps its history
type Boundary struct {
	ID          id.BoundaryID `json:"id"`
	ProjectID   id.ProjectID  `json:"project_id"`
	Name        string        `json:"name"`
	Type        Type          `json:"type"`
	Included    bool          `json:"included"`
	Notes       string        `json:"notes,omitempty"`
	OwnerUserID id.UserID     `json:"owner_user_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewBoundary validates invariants and constructs a boundary.
func NewBoundary(boundaryID id.BoundaryID, projectID id.ProjectID, owner id.UserID, name string, boundaryType Type, notes string, now time.Time) (*Boundary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "boundary name cannot be empty")
	}
	if len(name) > 200 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "boundary name must be 200 characters or less")
	}
	if _, err := ParseType(string(boundaryType)); err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "boundary type is invalid")
	}
	return &Boundary{
		ID:          boundaryID,
		ProjectID:   projectID,
		Name:        name,
		Type:        boundaryType,
		Included:    true,
		Notes:       strings.TrimSpace(notes),
		OwnerUserID: owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetIncluded flips the logical in-scope flag without deleting the row.
func (b *Boundary) SetIncluded(included bool, now time.Time) {
	b.Included = included
	b.UpdatedAt = now
}
