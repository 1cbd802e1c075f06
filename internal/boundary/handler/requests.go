package handler

import (
	"strings"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// CreateRequest is the HTTP request body for POST /projects/{projectID}/boundaries.
type CreateRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Notes string `json:"notes"`

	parsedType models.Type
}

// Validate validates and parses the request.
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
	boundaryType, err := models.ParseType(r.Type)
	if err != nil {
		return err
	}
	r.parsedType = boundaryType
	return nil
}

// ParsedType returns the validated boundary type.
func (r *CreateRequest) ParsedType() models.Type {
	return r.parsedType
}

// SetIncludedRequest is the HTTP request body for PUT /boundaries/{boundaryID}/included.
type SetIncludedRequest struct {
	Included *bool `json:"included"`
}

// Validate validates the request.
func (r *SetIncludedRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Included == nil {
		return dErrors.New(dErrors.CodeValidation, "included is required")
	}
	return nil
}
