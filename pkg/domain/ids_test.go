package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// IDs crossing the API boundary must be valid, non-empty, non-nil UUIDs.
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseBoundaryID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseControlID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseGapID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		parsed, err := ParseCellID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, CellID(valid), parsed)
	})
}

func TestID_TextRoundTrip(t *testing.T) {
	original := NewProjectID()

	text, err := original.MarshalText()
	require.NoError(t, err)

	var decoded ProjectID
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, original, decoded)
}

// TestTypeDistinction documents the compile-time invariant that typed IDs are
// not interchangeable. If the types became aliases, cross-type assignment
// would compile and the invariant would be broken.
func TestTypeDistinction(t *testing.T) {
	boundaryID := NewBoundaryID()
	controlID := NewControlID()

	// var _ BoundaryID = controlID // would not compile
	// var _ ControlID = boundaryID // would not compile
	assert.NotEqual(t, uuid.UUID(boundaryID), uuid.UUID(controlID))
}
