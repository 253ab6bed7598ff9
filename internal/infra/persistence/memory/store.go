// Package memory provides an in-memory record store used for tests and
// ephemeral environments.
package memory

import (
	"context"
	"iter"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/artenioreis/fichadeinscricao/internal/platform/metrics"
	"github.com/artenioreis/fichadeinscricao/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.RecordStore = (*Store)(nil)

// Store keeps records in a map guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	records map[int]domain.Record
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewStore returns an empty store. A nil metrics value disables metrics.
func NewStore(log zerolog.Logger, m *metrics.Metrics) *Store {
	return &Store{records: make(map[int]domain.Record), log: log, metrics: m}
}

// NextCode returns one plus the highest stored code, or 1 when empty.
func (s *Store) NextCode(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	highest := 0
	for code := range s.records {
		highest = max(highest, code)
	}
	return highest + 1, nil
}

// Upsert validates rec and inserts or replaces it under its code.
func (s *Store) Upsert(ctx context.Context, rec domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		s.metrics.ObserveUpsert(metrics.ResultInvalid)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, existing := range s.records {
		if code != rec.Code && existing.NationalID() == rec.NationalID() {
			s.metrics.ObserveUpsert(metrics.ResultDuplicate)
			s.log.Warn().Str("nationalId", rec.NationalID()).Int("existingCode", code).Msg("Rejected duplicate national id")
			return &domain.DuplicateKeyError{NationalID: rec.NationalID(), ExistingCode: code}
		}
	}
	s.records[rec.Code] = rec
	s.metrics.ObserveUpsert(metrics.ResultOK)
	s.log.Debug().Int("code", rec.Code).Msg("Record saved")
	return nil
}

// FetchByCode returns the record stored under code.
func (s *Store) FetchByCode(ctx context.Context, code int) (domain.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[code]
	return rec, ok, nil
}

// ListAll yields a roster built from a copy taken when ranging starts.
func (s *Store) ListAll(ctx context.Context) iter.Seq2[domain.RosterEntry, error] {
	return func(yield func(domain.RosterEntry, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(domain.RosterEntry{}, err)
			return
		}
		s.mu.RLock()
		entries := make([]domain.RosterEntry, 0, len(s.records))
		for code, rec := range s.records {
			entries = append(entries, domain.RosterEntry{Code: code, FullName: rec.FullName(), NationalID: rec.NationalID()})
		}
		s.mu.RUnlock()

		sort.Slice(entries, func(i, j int) bool {
			if entries[i].FullName != entries[j].FullName {
				return entries[i].FullName < entries[j].FullName
			}
			return entries[i].Code < entries[j].Code
		})
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
