// Package sqlite provides the embedded file-backed record store. The table
// layout matches the one written by the legacy desktop program so existing
// database files open unchanged.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	"modernc.org/sqlite" // pure go sqlite driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/artenioreis/fichadeinscricao/internal/infra/persistence/sqlstore"
)

// DefaultPath is used when no path is configured.
const DefaultPath = "cadastros.db"

const busyTimeoutMillis = 5000

// Dialect is the sqlstore dialect for SQLite. The default BINARY collation
// already orders TEXT byte-wise.
var Dialect = sqlstore.Dialect{
	Name:              "sqlite",
	Placeholder:       squirrel.Question,
	NameOrder:         "nome_completo ASC",
	IsUniqueViolation: isUniqueViolation,
}

// Store is a sqlstore.Store bound to one SQLite file.
type Store struct {
	*sqlstore.Store
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at path and ensures the
// table and unique index exist.
func NewStore(ctx context.Context, path string, opts sqlstore.Options) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{Store: sqlstore.New(db, Dialect, opts), db: db, path: path}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMillis))
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
