// Package sqlstore implements domain.RecordStore over database/sql. The sqlite
// and postgres packages supply the connection and a Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"

	"github.com/artenioreis/fichadeinscricao/internal/platform/metrics"
	"github.com/artenioreis/fichadeinscricao/pkg/domain"
)

// Table is the persisted table name, shared with databases created by the
// legacy desktop program.
const Table = "alunos"

// UniqueIndex guards national id uniqueness independently of the code.
const UniqueIndex = "idx_cpf"

var _ domain.RecordStore = (*Store)(nil)

// Dialect captures the differences between SQL backends.
type Dialect struct {
	Name        string
	Placeholder squirrel.PlaceholderFormat
	// NameOrder is the ORDER BY term giving byte-wise full name ordering.
	NameOrder string
	// IsUniqueViolation reports whether err came from a unique constraint.
	IsUniqueViolation func(error) bool
}

// Options carries optional collaborators.
type Options struct {
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// Store is a SQL-backed record store.
type Store struct {
	db      *sql.DB
	dialect Dialect
	sb      squirrel.StatementBuilderType
	log     zerolog.Logger
	metrics *metrics.Metrics
	// mu serializes writers within the process; cross-process writers are
	// caught by the unique index.
	mu sync.Mutex
}

// New wraps an open database. Call EnsureSchema before first use.
func New(db *sql.DB, dialect Dialect, opts Options) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
}

// SchemaStatements returns the DDL creating the table and the unique index.
func SchemaStatements() []string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(Table)
	b.WriteString(" (\n\t")
	b.WriteString(domain.CodeColumn)
	b.WriteString(" INTEGER PRIMARY KEY")
	for _, f := range domain.Fields() {
		b.WriteString(",\n\t")
		b.WriteString(f.Column)
		b.WriteString(" TEXT")
	}
	b.WriteString("\n)")
	return []string{
		b.String(),
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)", UniqueIndex, Table, domain.FieldNationalID.Column()),
	}
}

// EnsureSchema applies SchemaStatements.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range SchemaStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema (%s): %w", s.dialect.Name, err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// NextCode returns one plus the highest stored code, or 1 for an empty table.
func (s *Store) NextCode(ctx context.Context) (int, error) {
	query, args, err := s.sb.Select(fmt.Sprintf("COALESCE(MAX(%s), 0)", domain.CodeColumn)).From(Table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build next code query: %w", err)
	}
	var highest int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&highest); err != nil {
		s.log.Error().Err(err).Msg("Error reading highest code")
		return 0, fmt.Errorf("read highest code: %w", err)
	}
	return int(highest) + 1, nil
}

// Upsert validates rec, checks national id uniqueness and inserts or fully
// replaces the row with rec.Code, all inside one transaction.
func (s *Store) Upsert(ctx context.Context, rec domain.Record) (retErr error) {
	if err := rec.Validate(); err != nil {
		s.metrics.ObserveUpsert(metrics.ResultInvalid)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		switch {
		case retErr == nil:
			s.metrics.ObserveUpsert(metrics.ResultOK)
		case errors.Is(retErr, domain.ErrDuplicateKey):
			s.metrics.ObserveUpsert(metrics.ResultDuplicate)
		default:
			s.metrics.ObserveUpsert(metrics.ResultError)
		}
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	existing, found, err := s.conflictingCode(ctx, tx, rec)
	if err != nil {
		return err
	}
	if found {
		s.log.Warn().Str("nationalId", rec.NationalID()).Int("code", rec.Code).Int("existingCode", existing).Msg("Rejected duplicate national id")
		return &domain.DuplicateKeyError{NationalID: rec.NationalID(), ExistingCode: existing}
	}

	query, args, err := s.upsertQuery(rec)
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if s.dialect.IsUniqueViolation != nil && s.dialect.IsUniqueViolation(err) {
			// Another writer committed the same national id after our probe.
			_ = tx.Rollback()
			if code, ok, lookupErr := s.conflictingCode(ctx, s.db, rec); lookupErr == nil && ok {
				return &domain.DuplicateKeyError{NationalID: rec.NationalID(), ExistingCode: code}
			}
		}
		s.log.Error().Err(err).Int("code", rec.Code).Msg("Error executing upsert")
		return fmt.Errorf("upsert record %d: %w", rec.Code, err)
	}

	if err := tx.Commit(); err != nil {
		s.log.Error().Err(err).Int("code", rec.Code).Msg("Error committing upsert")
		return fmt.Errorf("commit upsert: %w", err)
	}
	s.log.Info().Int("code", rec.Code).Str("fullName", rec.FullName()).Msg("Record saved")
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) conflictingCode(ctx context.Context, q queryer, rec domain.Record) (int, bool, error) {
	query, args, err := s.sb.Select(domain.CodeColumn).
		From(Table).
		Where(squirrel.Eq{domain.FieldNationalID.Column(): rec.NationalID()}).
		Where(squirrel.NotEq{domain.CodeColumn: rec.Code}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build duplicate probe: %w", err)
	}
	var code int64
	err = q.QueryRowContext(ctx, query, args...).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		s.log.Error().Err(err).Str("nationalId", rec.NationalID()).Msg("Error probing national id")
		return 0, false, fmt.Errorf("probe national id: %w", err)
	}
	return int(code), true, nil
}

func (s *Store) upsertQuery(rec domain.Record) (string, []any, error) {
	fields := domain.Fields()
	assignments := make([]string, len(fields))
	for i, f := range fields {
		assignments[i] = fmt.Sprintf("%s = excluded.%s", f.Column, f.Column)
	}
	return s.sb.Insert(Table).
		Columns(domain.Columns()...).
		Values(rec.Columns()...).
		Suffix(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", domain.CodeColumn, strings.Join(assignments, ", "))).
		ToSql()
}

// FetchByCode loads one record. A missing code yields ok == false.
func (s *Store) FetchByCode(ctx context.Context, code int) (domain.Record, bool, error) {
	query, args, err := s.sb.Select(domain.Columns()...).
		From(Table).
		Where(squirrel.Eq{domain.CodeColumn: code}).
		ToSql()
	if err != nil {
		return domain.Record{}, false, fmt.Errorf("build fetch query: %w", err)
	}

	var stored int64
	raw := make([]sql.NullString, domain.NumFields())
	dest := make([]any, 0, len(raw)+1)
	dest = append(dest, &stored)
	for i := range raw {
		dest = append(dest, &raw[i])
	}

	err = s.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Debug().Int("code", code).Msg("Record not found")
		return domain.Record{}, false, nil
	}
	if err != nil {
		s.log.Error().Err(err).Int("code", code).Msg("Error scanning record row")
		return domain.Record{}, false, fmt.Errorf("fetch record %d: %w", code, err)
	}

	fields := make([]string, len(raw))
	for i, v := range raw {
		fields[i] = v.String
	}
	rec, err := domain.RecordFromColumns(int(stored), fields)
	if err != nil {
		return domain.Record{}, false, err
	}
	return rec, true, nil
}

// ListAll streams the roster ordered by full name.
func (s *Store) ListAll(ctx context.Context) iter.Seq2[domain.RosterEntry, error] {
	return func(yield func(domain.RosterEntry, error) bool) {
		query, args, err := s.sb.Select(domain.CodeColumn, domain.FieldFullName.Column(), domain.FieldNationalID.Column()).
			From(Table).
			OrderBy(s.dialect.NameOrder, domain.CodeColumn+" ASC").
			ToSql()
		if err != nil {
			yield(domain.RosterEntry{}, fmt.Errorf("build roster query: %w", err))
			return
		}
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			s.log.Error().Err(err).Msg("Error querying roster")
			yield(domain.RosterEntry{}, fmt.Errorf("query roster: %w", err))
			return
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				code       int64
				name, ntid sql.NullString
			)
			if err := rows.Scan(&code, &name, &ntid); err != nil {
				yield(domain.RosterEntry{}, fmt.Errorf("scan roster row: %w", err))
				return
			}
			if !yield(domain.RosterEntry{Code: int(code), FullName: name.String, NationalID: ntid.String}, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.RosterEntry{}, fmt.Errorf("iterate roster: %w", err))
		}
	}
}
