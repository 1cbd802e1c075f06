package models

import (
	"strings"
	"time"

	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// ComplianceStatus is the assessed outcome for an applicable control.
type ComplianceStatus string

const (
	StatusCompliant          ComplianceStatus = "compliant"
	StatusPartiallyCompliant ComplianceStatus = "partially_compliant"
	StatusNonCompliant       ComplianceStatus = "non_compliant"
	StatusNotAssessed        ComplianceStatus = "not_assessed"
)

// ParseComplianceStatus validates a wire value.
func ParseComplianceStatus(raw string) (ComplianceStatus, error) {
	switch status := ComplianceStatus(raw); status {
	case StatusCompliant, StatusPartiallyCompliant, StatusNonCompliant, StatusNotAssessed:
		return status, nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown compliance status %q", raw)
	}
}

// Cell is one applicability decision: whether a catalog control applies to a
// scope boundary, and if so how compliant the boundary currently is.
//
// Exactly one of ReasonInclusion / ReasonExclusion is populated, matching
// IsApplicable. A cell is never deleted; flipping applicability rewrites the
// reasons in place and leaves attached evidence and gaps untouched.
type Cell struct {
	ID                   id.CellID        `json:"id"`
	BoundaryID           id.BoundaryID    `json:"boundary_id"`
	ControlID            id.ControlID     `json:"control_id"`
	IsApplicable         bool             `json:"is_applicable"`
	ReasonInclusion      string           `json:"reason_inclusion,omitempty"`
	ReasonExclusion      string           `json:"reason_exclusion,omitempty"`
	ImplementationStatus string           `json:"implementation_status,omitempty"`
	ComplianceStatus     ComplianceStatus `json:"compliance_status"`
	AssessmentDate       *time.Time       `json:"assessment_date,omitempty"`
	AssessmentNotes      string           `json:"assessment_notes,omitempty"`
	OwnerUserID          id.UserID        `json:"owner_user_id"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// NewCell constructs a decided cell. The reason must match the applicability
// branch: inclusion reason when applicable, exclusion reason when not.
func NewCell(cellID id.CellID, boundaryID id.BoundaryID, controlID id.ControlID, owner id.UserID, isApplicable bool, reason string, now time.Time) (*Cell, error) {
	cell := &Cell{
		ID:               cellID,
		BoundaryID:       boundaryID,
		ControlID:        controlID,
		IsApplicable:     isApplicable,
		ComplianceStatus: StatusNotAssessed,
		OwnerUserID:      owner,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := cell.setDecision(isApplicable, reason, now); err != nil {
		return nil, err
	}
	return cell, nil
}

// Decide rewrites the applicability decision on an existing cell. Flipping
// applicable→not keeps evidence and open gaps attached but resets the
// assessment, which only has meaning for applicable controls.
func (c *Cell) Decide(isApplicable bool, reason string, now time.Time) error {
	if err := c.setDecision(isApplicable, reason, now); err != nil {
		return err
	}
	if !isApplicable {
		c.ComplianceStatus = StatusNotAssessed
		c.AssessmentDate = nil
		c.AssessmentNotes = ""
		c.ImplementationStatus = ""
	}
	return nil
}

func (c *Cell) setDecision(isApplicable bool, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		if isApplicable {
			return dErrors.New(dErrors.CodeValidation, "inclusion reason is required for an applicable control")
		}
		return dErrors.New(dErrors.CodeValidation, "exclusion reason is required for a non-applicable control")
	}
	c.IsApplicable = isApplicable
	if isApplicable {
		c.ReasonInclusion = reason
		c.ReasonExclusion = ""
	} else {
		c.ReasonInclusion = ""
		c.ReasonExclusion = reason
	}
	c.UpdatedAt = now
	return nil
}

// RecordAssessment captures a compliance assessment. Only applicable cells
// can be assessed.
func (c *Cell) RecordAssessment(status ComplianceStatus, implementationStatus string, date time.Time, notes string, now time.Time) error {
	if !c.IsApplicable {
		return dErrors.New(dErrors.CodeInvalidState, "cannot assess a non-applicable control")
	}
	c.ComplianceStatus = status
	c.ImplementationStatus = strings.TrimSpace(implementationStatus)
	assessmentDate := date
	c.AssessmentDate = &assessmentDate
	c.AssessmentNotes = strings.TrimSpace(notes)
	c.UpdatedAt = now
	return nil
}
