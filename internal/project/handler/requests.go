package handler

import (
	"strings"

	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// CreateRequest is the HTTP request body for POST /projects.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 200 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 200 characters")
	}
	return nil
}

// SetOnHoldRequest is the HTTP request body for POST /projects/{projectID}/hold.
type SetOnHoldRequest struct {
	OnHold *bool `json:"on_hold"`
}

// Validate validates the request.
func (r *SetOnHoldRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.OnHold == nil {
		return dErrors.New(dErrors.CodeValidation, "on_hold is required")
	}
	return nil
}
