package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/sentinel"
)

// Writer is the write side of the catalog store, used only by seeding.
type Writer interface {
	Insert(ctx context.Context, control models.Control) error
}

// seedControls is the built-in catalog, modeled on ISO/IEC 27001:2022 Annex A.
// References must stay stable: applicability cells key on control identity and
// auditors cite controls by reference.
var seedControls = []struct {
	reference   string
	description string
	domain      string
}{
	{"A.5.1", "Policies for information security", "Organizational controls"},
	{"A.5.9", "Inventory of information and other associated assets", "Organizational controls"},
	{"A.5.12", "Classification of information", "Organizational controls"},
	{"A.5.15", "Access control", "Organizational controls"},
	{"A.5.19", "Information security in supplier relationships", "Organizational controls"},
	{"A.5.24", "Information security incident management planning and preparation", "Organizational controls"},
	{"A.5.30", "ICT readiness for business continuity", "Organizational controls"},
	{"A.6.1", "Screening", "People controls"},
	{"A.6.3", "Information security awareness, education and training", "People controls"},
	{"A.6.5", "Responsibilities after termination or change of employment", "People controls"},
	{"A.7.1", "Physical security perimeters", "Physical controls"},
	{"A.7.4", "Physical security monitoring", "Physical controls"},
	{"A.7.10", "Storage media", "Physical controls"},
	{"A.8.2", "Privileged access rights", "Technological controls"},
	{"A.8.5", "Secure authentication", "Technological controls"},
	{"A.8.8", "Management of technical vulnerabilities", "Technological controls"},
	{"A.8.13", "Information backup", "Technological controls"},
	{"A.8.16", "Monitoring activities", "Technological controls"},
	{"A.8.24", "Use of cryptography", "Technological controls"},
	{"A.8.28", "Secure coding", "Technological controls"},
}

// Seed inserts the built-in control set, skipping references that already
// exist so it is safe to run at every startup.
func Seed(ctx context.Context, w Writer) error {
	for _, c := range seedControls {
		control := models.Control{
			ID:          id.NewControlID(),
			Reference:   c.reference,
			Description: c.description,
			Domain:      c.domain,
		}
		if err := w.Insert(ctx, control); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				continue
			}
			return fmt.Errorf("seed control %s: %w", c.reference, err)
		}
	}
	return nil
}
