package handler

import (
	"strings"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/models"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// AddEvidenceRequest is the HTTP request body for POST /cells/{cellID}/evidence.
type AddEvidenceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	FileRef     string `json:"file_ref"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *AddEvidenceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	return nil
}

// OpenGapRequest is the HTTP request body for POST /cells/{cellID}/gaps.
type OpenGapRequest struct {
	Description string `json:"description"`
	Severity    string `json:"severity"`

	parsedSeverity models.Severity
}

// Validate validates and parses the request.
func (r *OpenGapRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Description = strings.TrimSpace(r.Description)
	if r.Description == "" {
		return dErrors.New(dErrors.CodeValidation, "description is required")
	}
	severity, err := models.ParseSeverity(r.Severity)
	if err != nil {
		return err
	}
	r.parsedSeverity = severity
	return nil
}

// ParsedSeverity returns the validated severity.
func (r *OpenGapRequest) ParsedSeverity() models.Severity { return r.parsedSeverity }

// TransitionGapRequest is the HTTP request body for POST /gaps/{gapID}/transition.
type TransitionGapRequest struct {
	Status  string `json:"status"`
	Version *int   `json:"version"`

	parsedStatus models.Status
}

// Validate validates and parses the request.
func (r *TransitionGapRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	status, err := models.ParseStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsedStatus = status
	if r.Version == nil {
		return dErrors.New(dErrors.CodeValidation, "version is required")
	}
	if *r.Version < 1 {
		return dErrors.New(dErrors.CodeValidation, "version must be positive")
	}
	return nil
}

// ParsedStatus returns the validated target status.
func (r *TransitionGapRequest) ParsedStatus() models.Status { return r.parsedStatus }
