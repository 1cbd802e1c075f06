package models

import (
	"time"

	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// Progress tracks how much of the external readiness questionnaire a project
// has answered. The questionnaire itself lives outside this service; only the
// counters are mirrored here.
type Progress struct {
	ProjectID id.ProjectID `json:"project_id"`
	Answered  int          `json:"answered"`
	Total     int          `json:"total"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewProgress validates counter invariants.
func NewProgress(projectID id.ProjectID, answered, total int, now time.Time) (*Progress, error) {
	if answered < 0 || total < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "questionnaire counters cannot be negative")
	}
	if answered > total {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "answered cannot exceed total")
	}
	return &Progress{ProjectID: projectID, Answered: answered, Total: total, UpdatedAt: now}, nil
}

// Completion is the answered fraction in [0,1]. An empty questionnaire counts
// as zero progress, not full.
func (p *Progress) Completion() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Answered) / float64(p.Total)
}
