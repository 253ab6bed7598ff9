package domain

import (
	"fmt"
	"strings"
)

// Value is a tagged union holding one field value.
type Value struct {
	kind ValueKind
	text string
	flag bool
}

// Text builds a single-line text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Choice builds a selection value.
func Choice(s string) Value { return Value{kind: KindChoice, text: s} }

// Flag builds a yes/no value.
func Flag(b bool) Value { return Value{kind: KindFlag, flag: b} }

// Multiline builds a multi-line text value.
func Multiline(s string) Value { return Value{kind: KindMultiline, text: s} }

// Kind reports the value kind.
func (v Value) Kind() ValueKind { return v.kind }

// String returns the textual content. Flags render as their storage token.
func (v Value) String() string {
	if v.kind == KindFlag {
		return FlagToken(v.flag)
	}
	return v.text
}

// Bool returns the flag content; it is false for non-flag values.
func (v Value) Bool() bool { return v.kind == KindFlag && v.flag }

// IsZero reports whether the value is blank text or an unset flag.
func (v Value) IsZero() bool {
	if v.kind == KindFlag {
		return !v.flag
	}
	return v.text == ""
}

// Record is one participant's enrollment entry. The zero Record has code 0
// and every field blank.
type Record struct {
	Code   int
	values [numFields]Value
}

// NewRecord returns a blank record with the given code.
func NewRecord(code int) Record {
	return Record{Code: code}
}

// Get returns the value of id, typed according to the schema.
func (r Record) Get(id FieldID) Value {
	v := r.values[id]
	v.kind = id.Kind()
	return v
}

// Set stores v under id. The value kind must match the schema.
func (r *Record) Set(id FieldID, v Value) error {
	if !id.Valid() {
		return fmt.Errorf("set field %d: %w", int(id), ErrUnknownField)
	}
	if v.kind != id.Kind() {
		return &KindMismatchError{Field: id, Want: id.Kind(), Got: v.kind}
	}
	r.values[id] = v
	return nil
}

// SetText stores s under a text, choice or multiline field.
func (r *Record) SetText(id FieldID, s string) error {
	if !id.Valid() {
		return fmt.Errorf("set field %d: %w", int(id), ErrUnknownField)
	}
	if id.Kind() == KindFlag {
		return &KindMismatchError{Field: id, Want: KindFlag, Got: KindText}
	}
	return r.Set(id, Value{kind: id.Kind(), text: s})
}

// SetFlag stores b under a flag field.
func (r *Record) SetFlag(id FieldID, b bool) error {
	return r.Set(id, Flag(b))
}

// Text returns the textual content of id.
func (r Record) Text(id FieldID) string { return r.Get(id).String() }

// Flag returns the flag content of id.
func (r Record) Flag(id FieldID) bool { return r.Get(id).Bool() }

// FullName is shorthand for the full-name field.
func (r Record) FullName() string { return r.values[FieldFullName].text }

// NationalID is shorthand for the national-id field.
func (r Record) NationalID() string { return r.values[FieldNationalID].text }

// Course is shorthand for the course field.
func (r Record) Course() string { return r.values[FieldCourse].text }

// DisplayCode formats the code the way the enrollment form shows it.
func (r Record) DisplayCode() string { return FormatCode(r.Code) }

// FormatCode zero-pads a code to four digits.
func FormatCode(code int) string { return fmt.Sprintf("%04d", code) }

// Trimmed returns a copy with surrounding whitespace removed from every text value.
func (r Record) Trimmed() Record {
	out := r
	for i := range out.values {
		if FieldID(i).Kind() != KindFlag {
			out.values[i].text = strings.TrimSpace(out.values[i].text)
		}
	}
	return out
}

// Equal reports whether both records hold the same code and field contents.
func (r Record) Equal(o Record) bool {
	if r.Code != o.Code {
		return false
	}
	for i := FieldID(0); i < numFields; i++ {
		if r.Get(i) != o.Get(i) {
			return false
		}
	}
	return true
}
