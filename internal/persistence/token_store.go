package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/telecom-ops/admin-console/internal/config"
)

// TokenStore is a durable home for the session token that can report its health.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
	Ping(ctx context.Context) error
}

var (
	_ TokenStore = (*MemoryTokenStore)(nil)
	_ TokenStore = (*SQLiteTokenStore)(nil)
	_ TokenStore = (*RedisTokenStore)(nil)
	_ TokenStore = (*PostgresTokenStore)(nil)
)

// OpenTokenStore builds the store selected by SESSION_STORE. The returned
// close function releases its connections.
func OpenTokenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (TokenStore, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() {}

	switch cfg.Session.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory token store; sessions do not survive restarts")
		return NewMemoryTokenStore(), noop, nil

	case config.StoreSQLite:
		store, err := NewSQLiteTokenStore(ctx, cfg.SQLite.Path, cfg.Session.TokenKey, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite token store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	case config.StoreRedis:
		r := NewRedis(ctx, cfg.Redis, logger)
		return NewRedisTokenStore(r.Client, cfg.Redis.KeyPrefix, cfg.Session.TokenKey), r.Close, nil

	case config.StorePostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, noop, fmt.Errorf("run migrations: %w", err)
			}
		}
		return NewPostgresTokenStore(pg.PoolHandle(), cfg.Session.TokenKey), pg.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown token store %q", cfg.Session.Store)
}
