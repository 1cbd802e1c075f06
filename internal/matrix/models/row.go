package models

import (
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
)

// MatrixRow is one grid position in the statement of applicability view. The
// grid is the cross product of boundaries and catalog controls, so a row
// exists even where no decision has been recorded yet. Undecided rows carry
// IsApplicable == nil and a NotAssessed compliance status.
type MatrixRow struct {
	BoundaryID       id.BoundaryID    `json:"boundary_id"`
	ControlID        id.ControlID     `json:"control_id"`
	Reference        string           `json:"reference"`
	Domain           string           `json:"domain"`
	CellID           *id.CellID       `json:"cell_id,omitempty"`
	IsApplicable     *bool            `json:"is_applicable"`
	ReasonInclusion  string           `json:"reason_inclusion,omitempty"`
	ReasonExclusion  string           `json:"reason_exclusion,omitempty"`
	ComplianceStatus ComplianceStatus `json:"compliance_status"`
	OpenGapCount     int              `json:"open_gap_count"`
	EvidenceCount    int              `json:"evidence_count"`
}
