package models

import (
	"strings"
	"time"

	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// Severity ranks how badly a gap undermines the control.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ParseSeverity validates a wire value.
func ParseSeverity(raw string) (Severity, error) {
	switch severity := Severity(strings.ToLower(strings.TrimSpace(raw))); severity {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return severity, nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown severity %q", raw)
	}
}

// Status is a gap's position in the remediation workflow.
type Status string

const (
	StatusIdentified Status = "identified"
	StatusInReview   Status = "in_review"
	StatusConfirmed  Status = "confirmed"
	StatusRemediated Status = "remediated"
	StatusClosed     Status = "closed"
)

// ParseStatus validates a wire value.
func ParseStatus(raw string) (Status, error) {
	switch status := Status(strings.ToLower(strings.TrimSpace(raw))); status {
	case StatusIdentified, StatusInReview, StatusConfirmed, StatusRemediated, StatusClosed:
		return status, nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown gap status %q", raw)
	}
}

// CanTransitionTo reports whether the workflow permits moving to next. The
// workflow is the forward chain identified → in_review → confirmed →
// remediated → closed, with one backward edge confirmed → in_review for
// assessments that do not hold up under review. Closed is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusIdentified:
		return next == StatusInReview
	case StatusInReview:
		return next == StatusConfirmed
	case StatusConfirmed:
		return next == StatusRemediated || next == StatusInReview
	case StatusRemediated:
		return next == StatusClosed
	default:
		return false
	}
}

// IsOpen reports whether the gap still counts against readiness. Remediated
// and closed gaps are settled; everything earlier is open work.
func (s Status) IsOpen() bool {
	return s != StatusRemediated && s != StatusClosed
}

// Gap is a recorded shortfall against one applicability cell. Version guards
// concurrent transitions: every successful transition increments it, and a
// transition presented with a stale version is rejected.
type Gap struct {
	ID           id.GapID  `json:"id"`
	CellID       id.CellID `json:"cell_id"`
	Description  string    `json:"description"`
	Severity     Severity  `json:"severity"`
	Status       Status    `json:"status"`
	IdentifiedBy id.UserID `json:"identified_by"`
	IdentifiedAt time.Time `json:"identified_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// NewGap validates invariants and constructs a gap in the identified state.
func NewGap(gapID id.GapID, cellID id.CellID, identifiedBy id.UserID, description string, severity Severity, now time.Time) (*Gap, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "gap description cannot be empty")
	}
	if _, err := ParseSeverity(string(severity)); err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "gap severity is invalid")
	}
	return &Gap{
		ID:           gapID,
		CellID:       cellID,
		Description:  description,
		Severity:     severity,
		Status:       StatusIdentified,
		IdentifiedBy: identifiedBy,
		IdentifiedAt: now,
		UpdatedAt:    now,
		Version:      1,
	}, nil
}

// TransitionTo applies a workflow transition, rejecting edges the workflow
// does not permit.
func (g *Gap) TransitionTo(next Status, now time.Time) error {
	if !g.Status.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "cannot transition gap from %s to %s", g.Status, next)
	}
	g.Status = next
	g.UpdatedAt = now
	return nil
}
