package models

import (
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
)

// Control is immutable reference data describing one mandatory control.
// Controls are globally shared and never owned by a project; the applicability
// matrix records per-project decisions against them.
type Control struct {
	ID id.ControlID `json:"id"`
	// Reference is the catalog identifier, e.g. "A.5.1". Unique across the
	// catalog.
	Reference   string `json:"reference"`
	Description string `json:"description"`
	// Domain groups controls thematically, e.g. "Organizational controls".
	Domain string `json:"domain"`
}
