package core

import (
	"context"
	"fmt"

	"github.com/artenioreis/fichadeinscricao/internal/infra/persistence/memory"
	"github.com/artenioreis/fichadeinscricao/internal/infra/persistence/postgres"
	"github.com/artenioreis/fichadeinscricao/internal/infra/persistence/sqlite"
	"github.com/artenioreis/fichadeinscricao/internal/infra/persistence/sqlstore"
	"github.com/artenioreis/fichadeinscricao/pkg/domain"
)

// StorageDriver identifies a concrete record store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// StorageConfig selects the record store backend.
type StorageConfig struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
}

// OpenRecordStore opens the configured backend, creating the schema when
// needed. An empty driver means sqlite.
func OpenRecordStore(ctx context.Context, cfg StorageConfig, opts sqlstore.Options) (domain.RecordStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(opts.Logger, opts.Metrics), nil
	case StorageSQLite:
		s, err := sqlite.NewStore(ctx, cfg.SQLitePath, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StoragePostgres:
		s, err := postgres.NewStore(ctx, cfg.PostgresDSN, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
