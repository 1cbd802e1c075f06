// Package domain holds typed identifiers shared across modules.
//
// Every entity ID is a distinct UUID-backed type so a BoundaryID can never be
// passed where a ControlID is expected. Parse functions enforce the trust
// boundary invariant: IDs arriving from the outside must be valid, non-nil
// UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

type (
	// UserID identifies an authenticated principal (resolved externally).
	UserID uuid.UUID
	// ProjectID identifies an ISMS project.
	ProjectID uuid.UUID
	// BoundaryID identifies a scope boundary within a project.
	BoundaryID uuid.UUID
	// ControlID identifies a catalog control.
	ControlID uuid.UUID
	// CellID identifies an applicability cell (one boundary/control pair).
	CellID uuid.UUID
	// EvidenceID identifies an evidence item attached to a cell.
	EvidenceID uuid.UUID
	// GapID identifies a compliance gap attached to a cell.
	GapID uuid.UUID
	// StakeholderID identifies a project stakeholder.
	StakeholderID uuid.UUID
)

func parse(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is required", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is not a valid UUID", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id must not be the nil UUID", kind)
	}
	return u, nil
}

// ParseUserID validates s and returns a typed UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parse("user", s)
	return UserID(u), err
}

// ParseProjectID validates s and returns a typed ProjectID.
func ParseProjectID(s string) (ProjectID, error) {
	u, err := parse("project", s)
	return ProjectID(u), err
}

// ParseBoundaryID validates s and returns a typed BoundaryID.
func ParseBoundaryID(s string) (BoundaryID, error) {
	u, err := parse("boundary", s)
	return BoundaryID(u), err
}

// ParseControlID validates s and returns a typed ControlID.
func ParseControlID(s string) (ControlID, error) {
	u, err := parse("control", s)
	return ControlID(u), err
}

// ParseCellID validates s and returns a typed CellID.
func ParseCellID(s string) (CellID, error) {
	u, err := parse("cell", s)
	return CellID(u), err
}

// ParseEvidenceID validates s and returns a typed EvidenceID.
func ParseEvidenceID(s string) (EvidenceID, error) {
	u, err := parse("evidence", s)
	return EvidenceID(u), err
}

// ParseGapID validates s and returns a typed GapID.
func ParseGapID(s string) (GapID, error) {
	u, err := parse("gap", s)
	return GapID(u), err
}

// ParseStakeholderID validates s and returns a typed StakeholderID.
func ParseStakeholderID(s string) (StakeholderID, error) {
	u, err := parse("stakeholder", s)
	return StakeholderID(u), err
}

func (i UserID) String() string        { return uuid.UUID(i).String() }
func (i ProjectID) String() string     { return uuid.UUID(i).String() }
func (i BoundaryID) String() string    { return uuid.UUID(i).String() }
func (i ControlID) String() string     { return uuid.UUID(i).String() }
func (i CellID) String() string        { return uuid.UUID(i).String() }
func (i EvidenceID) String() string    { return uuid.UUID(i).String() }
func (i GapID) String() string         { return uuid.UUID(i).String() }
func (i StakeholderID) String() string { return uuid.UUID(i).String() }

func (i UserID) IsNil() bool        { return uuid.UUID(i) == uuid.Nil }
func (i ProjectID) IsNil() bool     { return uuid.UUID(i) == uuid.Nil }
func (i BoundaryID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }
func (i ControlID) IsNil() bool     { return uuid.UUID(i) == uuid.Nil }
func (i CellID) IsNil() bool        { return uuid.UUID(i) == uuid.Nil }
func (i EvidenceID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }
func (i GapID) IsNil() bool         { return uuid.UUID(i) == uuid.Nil }
func (i StakeholderID) IsNil() bool { return uuid.UUID(i) == uuid.Nil }

// NewUserID mints a random UserID. Test helper and seed use only; real user
// IDs come from the identity provider's token.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewProjectID mints a random ProjectID.
func NewProjectID() ProjectID { return ProjectID(uuid.New()) }

// NewBoundaryID mints a random BoundaryID.
func NewBoundaryID() BoundaryID { return BoundaryID(uuid.New()) }

// NewControlID mints a random ControlID.
func NewControlID() ControlID { return ControlID(uuid.New()) }

// NewCellID mints a random CellID.
func NewCellID() CellID { return CellID(uuid.New()) }

// NewEvidenceID mints a random EvidenceID.
func NewEvidenceID() EvidenceID { return EvidenceID(uuid.New()) }

// NewGapID mints a random GapID.
func NewGapID() GapID { return GapID(uuid.New()) }

// NewStakeholderID mints a random StakeholderID.
func NewStakeholderID() StakeholderID { return StakeholderID(uuid.New()) }

// MarshalText renders IDs as canonical UUID strings in JSON.
func (i UserID) MarshalText() ([]byte, error)        { return []byte(i.String()), nil }
func (i ProjectID) MarshalText() ([]byte, error)     { return []byte(i.String()), nil }
func (i BoundaryID) MarshalText() ([]byte, error)    { return []byte(i.String()), nil }
func (i ControlID) MarshalText() ([]byte, error)     { return []byte(i.String()), nil }
func (i CellID) MarshalText() ([]byte, error)        { return []byte(i.String()), nil }
func (i EvidenceID) MarshalText() ([]byte, error)    { return []byte(i.String()), nil }
func (i GapID) MarshalText() ([]byte, error)         { return []byte(i.String()), nil }
func (i StakeholderID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func unmarshalInto(dst *uuid.UUID, kind string, text []byte) error {
	u, err := parse(kind, string(text))
	if err != nil {
		return err
	}
	*dst = u
	return nil
}

func (i *UserID) UnmarshalText(text []byte) error {
	return unmarshalInto((*uuid.UUID)(i), "user", text)
}

func (i *ProjectID) UnmarshalText(text []byte) error {
	return unmarshalInto((*uuid.UUID)(i), "project", text)
}

func (i *BoundaryID) UnmarshalText(text []byte) error {
	return unmarshalInto((*uuid.UUID)(i), "boundary", text)
}

func (i *ControlID) UnmarshalText(text []byte) error {
	return unmarshalInto((*uuid.UUID)(i), "control", text)
}

func (i *CellID) UnmarshalText(text []byte) error {
	return unmarshalInto((*uuid.UUID)(i), "cell", text)
}

func (i *EvidenceID) UnmarshalText(text []byte) error {
	return unmarshalInto((*uuid.UUID)(i), "evidence", text)
}

func (i *GapID) UnmarshalText(text []byte) error {
	return unmarshalInto((*uuid.UUID)(i), "gap", text)
}

func (i *StakeholderID) UnmarshalText(text []byte) error {
	return unmarshalInto((*uuid.UUID)(i), "stakeholder", text)
}
