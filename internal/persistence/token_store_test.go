package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/telecom-ops/admin-console/internal/config"
	"github.com/telecom-ops/admin-console/internal/domain"
)

func exerciseTokenStore(t *testing.T, store TokenStore) {
	t.Helper()
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("empty store: expected ErrNoToken, got %v", err)
	}
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("delete on empty store: %v", err)
	}
	if err := store.Save(ctx, "first"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "second"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "second" {
		t.Fatalf("load = %q, want second", got)
	}
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("after delete: expected ErrNoToken, got %v", err)
	}
}

func TestMemoryTokenStore(t *testing.T) {
	exerciseTokenStore(t, NewMemoryTokenStore())
}

func TestSQLiteTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "console.db")
	store, err := NewSQLiteTokenStore(context.Background(), path, "jwt_token", zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	defer store.Close()

	exerciseTokenStore(t, store)
}

func TestSQLiteTokenStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "console.db")

	first, err := NewSQLiteTokenStore(ctx, path, "jwt_token", zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Save(ctx, "persisted"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := NewSQLiteTokenStore(ctx, path, "jwt_token", zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	got, err := second.Load(ctx)
	if err != nil || got != "persisted" {
		t.Fatalf("load after reopen = %q, %v", got, err)
	}

	other, err := NewSQLiteTokenStore(ctx, path, "other_key", zap.NewNop())
	if err != nil {
		t.Fatalf("open other key: %v", err)
	}
	defer other.Close()
	if _, err := other.Load(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("keys must be isolated, got %v", err)
	}
}

func TestRedisTokenStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()

	r := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	defer r.Close()

	store := NewRedisTokenStore(r.Client, "admin-console", "jwt_token")
	if store.Key() != "admin-console:jwt_token" {
		t.Fatalf("key = %q", store.Key())
	}
	exerciseTokenStore(t, store)

	if err := store.Save(context.Background(), "abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, _ := mr.Get("admin-console:jwt_token"); got != "abc" {
		t.Fatalf("raw redis value = %q", got)
	}
}

func TestRedisTokenStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	store := NewRedisTokenStore(client, "", "jwt_token")
	_, err = store.Load(context.Background())
	if err == nil || errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestPostgresTokenStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()

	pg, err := NewPostgres(ctx, config.PostgresConfig{DSN: dsn}, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pg.Close()

	if err := RunMigrations(ctx, pg.PoolHandle(), filepath.Join("..", "..", "migrations"), zap.NewNop()); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	exerciseTokenStore(t, NewPostgresTokenStore(pg.PoolHandle(), "test_jwt_token"))
}

func TestNewPostgresRequiresDSN(t *testing.T) {
	if _, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop()); err == nil {
		t.Fatalf("expected error without DSN")
	}
}

func TestOpenTokenStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{name: "memory", cfg: config.Config{Session: config.SessionConfig{Store: config.StoreMemory, TokenKey: "jwt_token"}}},
		{name: "sqlite", cfg: config.Config{
			Session: config.SessionConfig{Store: config.StoreSQLite, TokenKey: "jwt_token"},
			SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "nested", "console.db")},
		}},
		{name: "redis", cfg: config.Config{
			Session: config.SessionConfig{Store: config.StoreRedis, TokenKey: "jwt_token"},
			Redis:   config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "test"},
		}},
		{name: "postgres without dsn", cfg: config.Config{Session: config.SessionConfig{Store: config.StorePostgres}}, wantErr: true},
		{name: "unknown", cfg: config.Config{Session: config.SessionConfig{Store: "etcd"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeFn, err := OpenTokenStore(context.Background(), &tt.cfg, zap.NewNop())
			defer closeFn()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			exerciseTokenStore(t, store)
		})
	}
}
