package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/menuscan/internal/common"
)

// OpenStore builds the store selected by cfg.Driver and applies its schema.
func OpenStore(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Driver {
	case common.DriverMemory, "":
		logger.Info("using in-memory store")
		return NewMemoryStore(logger), nil
	case common.DriverSQLite:
		store, err := OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, common.NewAppError(common.CodeStorage, "failed to open sqlite", err)
		}
		return store, nil
	case common.DriverPostgres:
		pool, err := Open(ctx, Config{
			DSN:              cfg.DSN,
			MaxConns:         cfg.MaxConns,
			MinConns:         cfg.MinConns,
			MaxConnLifetime:  cfg.MaxConnLifetime,
			MaxConnIdleTime:  cfg.MaxConnIdleTime,
			DialTimeout:      cfg.DialTimeout,
			StatementTimeout: cfg.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, common.NewAppError(common.CodeStorage, "failed to open postgres", err)
		}
		if err := HealthCheck(ctx, pool, cfg.DialTimeout, logger); err != nil {
			Close(pool, logger)
			return nil, common.NewAppError(common.CodeStorage, "postgres is not reachable", err)
		}
		store := NewPostgresStore(pool, logger)
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, common.NewAppError(common.CodeStorage, "failed to apply postgres schema", err)
		}
		return store, nil
	}
	return nil, common.NewAppError(common.CodeConfig, fmt.Sprintf("unknown store driver %q", cfg.Driver), common.ErrInvalidInput)
}
