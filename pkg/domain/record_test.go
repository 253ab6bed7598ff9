package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSetAndGet(t *testing.T) {
	rec := NewRecord(3)
	require.NoError(t, rec.SetText(FieldFullName, "Ana Silva"))
	require.NoError(t, rec.SetText(FieldCourse, "Violão"))
	require.NoError(t, rec.SetFlag(FieldDocID, true))
	require.NoError(t, rec.Set(FieldFamilyDescription, Multiline("linha 1\nlinha 2")))

	assert.Equal(t, "Ana Silva", rec.FullName())
	assert.Equal(t, "Violão", rec.Course())
	assert.Equal(t, KindChoice, rec.Get(FieldCourse).Kind())
	assert.True(t, rec.Flag(FieldDocID))
	assert.Equal(t, TokenYes, rec.Text(FieldDocID))
	assert.Equal(t, TokenNo, rec.Text(FieldDocCPF))
	assert.Equal(t, "0003", rec.DisplayCode())
	assert.Equal(t, "linha 1\nlinha 2", rec.Text(FieldFamilyDescription))
}

func TestRecordKindChecks(t *testing.T) {
	rec := NewRecord(1)

	err := rec.SetText(FieldDocID, "Sim")
	var km *KindMismatchError
	require.ErrorAs(t, err, &km)
	assert.Equal(t, FieldDocID, km.Field)
	assert.ErrorIs(t, err, ErrKindMismatch)

	assert.ErrorIs(t, rec.SetFlag(FieldFullName, true), ErrKindMismatch)
	assert.ErrorIs(t, rec.Set(FieldCourse, Text("Teatro")), ErrKindMismatch)
	assert.ErrorIs(t, rec.SetText(FieldID(99), "x"), ErrUnknownField)
	assert.ErrorIs(t, rec.Set(FieldID(-1), Flag(true)), ErrUnknownField)
}

func TestValueHelpers(t *testing.T) {
	assert.True(t, Text("").IsZero())
	assert.False(t, Choice("Teatro").IsZero())
	assert.True(t, Flag(false).IsZero())
	assert.False(t, Flag(true).IsZero())
	assert.False(t, Text("Sim").Bool(), "text never reads as a flag")
}

func TestRecordTrimmedAndEqual(t *testing.T) {
	a := NewRecord(1)
	require.NoError(t, a.SetText(FieldNationalID, "  123 "))
	require.NoError(t, a.SetFlag(FieldImageConsent, true))
	b := a.Trimmed()

	assert.Equal(t, "123", b.NationalID())
	assert.Equal(t, "  123 ", a.NationalID(), "Trimmed returns a copy")
	assert.False(t, a.Equal(b))
	assert.True(t, b.Equal(b.Trimmed()))

	c := b
	c.Code = 2
	assert.False(t, b.Equal(c))
	assert.True(t, NewRecord(4).Equal(Record{Code: 4}))
}

func TestErrorMessages(t *testing.T) {
	ve := &ValidationError{Missing: []FieldID{FieldNationalID, FieldCourse}}
	assert.Equal(t, "validation failed: required fields missing: CPF, Curso", ve.Error())
	assert.Equal(t, "validation failed: code must be positive", (&ValidationError{Reason: "code must be positive"}).Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
	assert.True(t, errors.Is(ve, ErrValidation))

	dk := &DuplicateKeyError{NationalID: "123", ExistingCode: 7}
	assert.Equal(t, `national id "123" already registered for code 0007`, dk.Error())
	assert.True(t, errors.Is(dk, ErrDuplicateKey))
}
