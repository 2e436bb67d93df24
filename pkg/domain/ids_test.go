package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
)

func TestParseApplicationID(t *testing.T) {
	valid := uuid.New()
	tests := []struct {
		name    string
		input   string
		want    ApplicationID
		message string
	}{
		{name: "empty", input: "", message: "application ID is required"},
		{name: "malformed", input: "not-a-uuid", message: "invalid application ID"},
		{name: "nil uuid", input: uuid.Nil.String(), message: "application ID must not be nil"},
		{name: "valid", input: valid.String(), want: ApplicationID(valid)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseApplicationID(tt.input)
			if tt.message != "" {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				assert.Contains(t, err.Error(), tt.message)
				assert.True(t, got.IsNil())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, valid.String(), got.String())
		})
	}
}

func TestParseID_HostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE applications;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAppealID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestAllIDTypes_ConsistentBehavior ensures all ID types parse identically.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()

	t.Run("all accept valid UUID", func(t *testing.T) {
		_, errUser := ParseUserID(validUUID)
		_, errApp := ParseApplicationID(validUUID)
		_, errTreatment := ParseTreatmentID(validUUID)
		_, errAppeal := ParseAppealID(validUUID)

		require.NoError(t, errUser)
		require.NoError(t, errApp)
		require.NoError(t, errTreatment)
		require.NoError(t, errAppeal)
	})

	for _, input := range []string{"", "invalid", uuid.Nil.String()} {
		t.Run("all reject: "+input, func(t *testing.T) {
			_, errUser := ParseUserID(input)
			_, errApp := ParseApplicationID(input)
			_, errTreatment := ParseTreatmentID(input)
			_, errAppeal := ParseAppealID(input)

			require.Error(t, errUser)
			require.Error(t, errApp)
			require.Error(t, errTreatment)
			require.Error(t, errAppeal)
		})
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("evaluateur")
	require.NoError(t, err)
	assert.Equal(t, RoleEvaluator, role)

	_, err = ParseRole("superuser")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
