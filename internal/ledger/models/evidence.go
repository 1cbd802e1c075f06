package models

import (
	"strings"
	"time"

	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// Evidence is a supporting artifact attached to an applicability cell.
// Evidence may be attached to non-applicable cells as well; an exclusion
// decision often needs its own justification documents.
type Evidence struct {
	ID          id.EvidenceID `json:"id"`
	CellID      id.CellID     `json:"cell_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	FileRef     string        `json:"file_ref,omitempty"`
	UploadedBy  id.UserID     `json:"uploaded_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewEvidence validates invariants and constructs an evidence record.
func NewEvidence(evidenceID id.EvidenceID, cellID id.CellID, uploadedBy id.UserID, title, description, fileRef string, now time.Time) (*Evidence, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "evidence title cannot be empty")
	}
	return &Evidence{
		ID:          evidenceID,
		CellID:      cellID,
		Title:       title,
		Description: strings.TrimSpace(description),
		FileRef:     strings.TrimSpace(fileRef),
		UploadedBy:  uploadedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
