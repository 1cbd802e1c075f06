package handler

import (
	"strings"
	"time"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// SetApplicabilityRequest is the HTTP request body for PUT /matrix/applicability.
type SetApplicabilityRequest struct {
	ProjectID    string `json:"project_id"`
	BoundaryID   string `json:"boundary_id"`
	ControlID    string `json:"control_id"`
	IsApplicable *bool  `json:"is_applicable"`
	Reason       string `json:"reason"`

	parsedProjectID  id.ProjectID
	parsedBoundaryID id.BoundaryID
	parsedControlID  id.ControlID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SetApplicabilityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	projectID, err := id.ParseProjectID(r.ProjectID)
	if err != nil {
		return err
	}
	boundaryID, err := id.ParseBoundaryID(r.BoundaryID)
	if err != nil {
		return err
	}
	controlID, err := id.ParseControlID(r.ControlID)
	if err != nil {
		return err
	}
	if r.IsApplicable == nil {
		return dErrors.New(dErrors.CodeValidation, "is_applicable is required")
	}
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}

	r.parsedProjectID = projectID
	r.parsedBoundaryID = boundaryID
	r.parsedControlID = controlID
	return nil
}

// ParsedProjectID returns the validated project ID.
func (r *SetApplicabilityRequest) ParsedProjectID() id.ProjectID { return r.parsedProjectID }

// ParsedBoundaryID returns the validated boundary ID.
func (r *SetApplicabilityRequest) ParsedBoundaryID() id.BoundaryID { return r.parsedBoundaryID }

// ParsedControlID returns the validated control ID.
func (r *SetApplicabilityRequest) ParsedControlID() id.ControlID { return r.parsedControlID }

// RecordAssessmentRequest is the HTTP request body for
// PUT /matrix/cells/{cellID}/assessment.
type RecordAssessmentRequest struct {
	ComplianceStatus     string `json:"compliance_status"`
	ImplementationStatus string `json:"implementation_status"`
	AssessmentDate       string `json:"assessment_date"`
	Notes                string `json:"notes"`

	parsedStatus models.ComplianceStatus
	parsedDate   time.Time
}

// Validate validates and parses the request.
func (r *RecordAssessmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	status, err := models.ParseComplianceStatus(strings.TrimSpace(r.ComplianceStatus))
	if err != nil {
		return err
	}
	r.parsedStatus = status

	r.parsedDate = time.Now().UTC()
	if raw := strings.TrimSpace(r.AssessmentDate); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "assessment_date must be RFC 3339")
		}
		r.parsedDate = date
	}
	return nil
}

// ParsedStatus returns the validated compliance status.
func (r *RecordAssessmentRequest) ParsedStatus() models.ComplianceStatus { return r.parsedStatus }

// ParsedDate returns the assessment date, defaulting to now.
func (r *RecordAssessmentRequest) ParsedDate() time.Time { return r.parsedDate }
