package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	rec := NewRecord(1)
	err := rec.Validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, RequiredFields, ve.Missing)

	require.NoError(t, rec.SetText(FieldFullName, "Ana Silva"))
	require.NoError(t, rec.SetText(FieldNationalID, "   "))
	require.NoError(t, rec.SetText(FieldCourse, "Violão"))
	require.ErrorAs(t, rec.Validate(), &ve)
	assert.Equal(t, []FieldID{FieldNationalID}, ve.Missing, "whitespace counts as blank")

	require.NoError(t, rec.SetText(FieldNationalID, "123"))
	assert.NoError(t, rec.Validate())

	rec.Code = 0
	require.ErrorAs(t, rec.Validate(), &ve)
	assert.Empty(t, ve.Missing)
	assert.ErrorIs(t, rec.Validate(), ErrValidation)
}

func TestCollectRoster(t *testing.T) {
	entries := []RosterEntry{{1, "Ana", "1"}, {2, "Bia", "2"}}
	seq := func(yield func(RosterEntry, error) bool) {
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
	got, err := CollectRoster(seq)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	failing := func(yield func(RosterEntry, error) bool) {
		if !yield(entries[0], nil) {
			return
		}
		yield(RosterEntry{}, assert.AnError)
	}
	_, err = CollectRoster(failing)
	assert.ErrorIs(t, err, assert.AnError)
}
