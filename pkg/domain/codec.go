package domain

import (
	"fmt"
	"strconv"
)

// Storage tokens for flag values. Flags are booleans everywhere except at the
// persistence and document boundaries.
const (
	TokenYes = "Sim"
	TokenNo  = "Não"
)

// FlagToken maps a flag to its storage token.
func FlagToken(b bool) string {
	if b {
		return TokenYes
	}
	return TokenNo
}

// ParseFlagToken maps a storage token back to a flag. Only TokenYes is true.
func ParseFlagToken(s string) bool { return s == TokenYes }

// Columns encodes the record as persisted column values in Columns() order:
// the code as int followed by one string per field.
func (r Record) Columns() []any {
	out := make([]any, 0, numFields+1)
	out = append(out, r.Code)
	for i := FieldID(0); i < numFields; i++ {
		out = append(out, r.Get(i).String())
	}
	return out
}

// RecordFromColumns decodes field strings in schema order.
func RecordFromColumns(code int, fields []string) (Record, error) {
	if len(fields) != int(numFields) {
		return Record{}, fmt.Errorf("decode record %d: expected %d fields, got %d", code, numFields, len(fields))
	}
	rec := NewRecord(code)
	for i, raw := range fields {
		rec.values[i] = decodeValue(FieldID(i), raw)
	}
	return rec, nil
}

// ToMap encodes the record keyed by column name.
func (r Record) ToMap() map[string]string {
	m := make(map[string]string, numFields+1)
	m[CodeColumn] = strconv.Itoa(r.Code)
	for i := FieldID(0); i < numFields; i++ {
		m[i.Column()] = r.Get(i).String()
	}
	return m
}

// RecordFromMap decodes a column-keyed map. Missing columns stay blank;
// unknown columns are rejected.
func RecordFromMap(m map[string]string) (Record, error) {
	var rec Record
	for col, raw := range m {
		if col == CodeColumn {
			code, err := strconv.Atoi(raw)
			if err != nil {
				return Record{}, fmt.Errorf("decode %s %q: %w", CodeColumn, raw, err)
			}
			rec.Code = code
			continue
		}
		id, ok := FieldByColumn(col)
		if !ok {
			return Record{}, fmt.Errorf("decode column %q: %w", col, ErrUnknownField)
		}
		rec.values[id] = decodeValue(id, raw)
	}
	return rec, nil
}

func decodeValue(id FieldID, raw string) Value {
	if id.Kind() == KindFlag {
		return Flag(ParseFlagToken(raw))
	}
	return Value{kind: id.Kind(), text: raw}
}
