package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
)

func TestParsePatientID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePatientID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParsePatientID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParsePatientID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		parsed, err := ParsePatientID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, PatientID(valid), parsed)
		assert.Equal(t, valid.String(), parsed.String())
		assert.False(t, parsed.IsNil())
	})
}

func TestParseUserID(t *testing.T) {
	t.Run("round-trips a valid UUID", func(t *testing.T) {
		valid := uuid.New()
		parsed, err := ParseUserID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(valid), parsed)
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
