// Package postgres provides the server-backed record store over the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/artenioreis/fichadeinscricao/internal/infra/persistence/sqlstore"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/fichas?sslmode=disable"

	uniqueViolation = "23505"
)

// Dialect is the sqlstore dialect for Postgres. COLLATE "C" pins byte-wise
// name ordering regardless of the database locale.
var Dialect = sqlstore.Dialect{
	Name:              "postgres",
	Placeholder:       squirrel.Dollar,
	NameOrder:         `nome_completo COLLATE "C" ASC`,
	IsUniqueViolation: isUniqueViolation,
}

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store is a sqlstore.Store bound to a Postgres database.
type Store struct {
	*sqlstore.Store
	db *sql.DB
}

// NewStore connects using dsn (falls back to defaultDSN), pings the server
// and ensures the table and unique index exist.
func NewStore(ctx context.Context, dsn string, opts sqlstore.Options) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &Store{Store: sqlstore.New(db, Dialect, opts), db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
