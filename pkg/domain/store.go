package domain

import (
	"context"
	"iter"
)

// RosterEntry is the summary row shown when browsing stored records.
type RosterEntry struct {
	Code       int
	FullName   string
	NationalID string
}

// RecordStore persists enrollment records keyed by code.
//
// Upsert returns *ValidationError or *DuplicateKeyError for rejected records;
// nothing is written in either case. FetchByCode reports a missing record
// with ok == false and a nil error.
type RecordStore interface {
	NextCode(ctx context.Context) (int, error)
	Upsert(ctx context.Context, rec Record) error
	FetchByCode(ctx context.Context, code int) (Record, bool, error)
	// ListAll yields every record ordered by full name (byte order), ties by
	// code. Each range over the sequence runs a fresh read.
	ListAll(ctx context.Context) iter.Seq2[RosterEntry, error]
	Close() error
}

// CollectRoster drains a roster sequence, stopping at the first error.
func CollectRoster(seq iter.Seq2[RosterEntry, error]) ([]RosterEntry, error) {
	var out []RosterEntry
	for entry, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
