package storageutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/rehearse/pkg/config"
	"github.com/papercomputeco/rehearse/pkg/logger"
	"github.com/papercomputeco/rehearse/pkg/storage"
	"github.com/papercomputeco/rehearse/pkg/storage/inmemory"
	"github.com/papercomputeco/rehearse/pkg/storage/postgres"
	"github.com/papercomputeco/rehearse/pkg/storage/sqlite"
)

type NewDriverOpts struct {
	// ProviderType is one of config.StorageSQLite, config.StoragePostgres
	// or config.StorageMemory. Empty means SQLite.
	ProviderType string

	// SQLitePath overrides the resolved database path.
	SQLitePath string

	// PostgresDSN is required for the postgres provider.
	PostgresDSN string

	// DotDir is the .rehearse/ directory the default database lives in.
	DotDir string

	Logger *slog.Logger
}

func NewDriver(ctx context.Context, o *NewDriverOpts) (storage.Driver, error) {
	log := o.Logger
	if log == nil {
		log = logger.Nop()
	}

	switch o.ProviderType {
	case "", config.StorageSQLite:
		path, err := ResolveSQLitePath(o.SQLitePath, o.DotDir)
		if err != nil {
			return nil, err
		}
		driver, err := sqlite.NewDriver(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite storer: %w", err)
		}
		log.Debug("using SQLite storage", "path", path)
		return driver, nil

	case config.StoragePostgres:
		if o.PostgresDSN == "" {
			return nil, fmt.Errorf("storage.postgres_dsn is required for the %s provider", config.StoragePostgres)
		}
		driver, err := postgres.NewDriver(ctx, o.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL storer: %w", err)
		}
		log.Debug("using PostgreSQL storage")
		return driver, nil

	case config.StorageMemory:
		log.Debug("using in-memory storage")
		return inmemory.NewDriver(), nil

	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", o.ProviderType)
	}
}
