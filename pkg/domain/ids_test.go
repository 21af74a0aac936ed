package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kyccore/pkg/domain-errors"
)

// TestParseUserID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUserID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseUserID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(valid), id)
		assert.False(t, id.IsNil())
	})
}

// TestParseID_BoundaryInputs exercises hostile input at the HTTP boundary.
func TestParseID_BoundaryInputs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE kyc_verifications;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errUser := ParseUserID(tt.input)
			_, errVerification := ParseVerificationID(tt.input)
			if tt.wantErr {
				require.Error(t, errUser)
				require.Error(t, errVerification)
				assert.True(t, dErrors.HasCode(errUser, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, errUser)
			require.NoError(t, errVerification)
		})
	}
}

func TestParseDocumentType(t *testing.T) {
	t.Run("accepts known types case-insensitively", func(t *testing.T) {
		dt, err := ParseDocumentType(" passport ")
		require.NoError(t, err)
		assert.Equal(t, DocumentTypePassport, dt)
		assert.False(t, dt.RequiresBack())
	})

	t.Run("national id requires a back side", func(t *testing.T) {
		dt, err := ParseDocumentType("NATIONAL_ID")
		require.NoError(t, err)
		assert.True(t, dt.RequiresBack())
	})

	t.Run("rejects unknown types", func(t *testing.T) {
		_, err := ParseDocumentType("DRIVING_LICENSE")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
