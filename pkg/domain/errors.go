package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks records rejected for missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateKey marks records whose national id belongs to another record.
	ErrDuplicateKey = errors.New("national id already registered")
	// ErrKindMismatch marks a value whose kind does not match its field.
	ErrKindMismatch = errors.New("value kind does not match field")
	// ErrUnknownField marks a field id or column outside the schema.
	ErrUnknownField = errors.New("unknown field")
)

// ValidationError lists the fields that prevented a record from being persisted.
type ValidationError struct {
	Missing []FieldID
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		if e.Reason != "" {
			return "validation failed: " + e.Reason
		}
		return ErrValidation.Error()
	}
	labels := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		labels[i] = id.Label()
	}
	return fmt.Sprintf("validation failed: required fields missing: %s", strings.Join(labels, ", "))
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }

// DuplicateKeyError names the stored record that already owns a national id.
type DuplicateKeyError struct {
	NationalID   string
	ExistingCode int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("national id %q already registered for code %s", e.NationalID, FormatCode(e.ExistingCode))
}

// Unwrap allows errors.Is(err, ErrDuplicateKey).
func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// KindMismatchError reports an attempt to store a value of the wrong kind.
type KindMismatchError struct {
	Field FieldID
	Want  ValueKind
	Got   ValueKind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("field %s expects %s value, got %s", e.Field, e.Want, e.Got)
}

// Unwrap allows errors.Is(err, ErrKindMismatch).
func (e *KindMismatchError) Unwrap() error { return ErrKindMismatch }
