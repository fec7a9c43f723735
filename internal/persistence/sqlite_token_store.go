package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/telecom-ops/admin-console/internal/domain"
)

// SQLiteTokenStore is the console's local durable storage: a small key/value
// table in a SQLite file.
type SQLiteTokenStore struct {
	db        *sql.DB
	key       string
	writeLock *sync.Mutex // modernc sqlite does not support concurrent writes
}

// NewSQLiteTokenStore opens (or creates) the database at path and ensures the schema.
func NewSQLiteTokenStore(ctx context.Context, path, tokenKey string, logger *zap.Logger) (*SQLiteTokenStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS console_storage (
			key        TEXT PRIMARY KEY,
			value      TEXT    NOT NULL,
			updated_at INTEGER NOT NULL
		)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("opened sqlite token store", zap.String("path", path))

	return &SQLiteTokenStore{db: db, key: tokenKey, writeLock: new(sync.Mutex)}, nil
}

// Load reads the stored token, or domain.ErrNoToken when the row is absent.
func (s *SQLiteTokenStore) Load(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM console_storage WHERE key = ?`, s.key).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("select token: %w", err)
	}
	return token, nil
}

// Save upserts the token under the write lock.
func (s *SQLiteTokenStore) Save(ctx context.Context, token string) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO console_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, token, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

// Delete removes the stored token. A missing row is not an error.
func (s *SQLiteTokenStore) Delete(ctx context.Context) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM console_storage WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Ping checks the database handle.
func (s *SQLiteTokenStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *SQLiteTokenStore) Close() error {
	return s.db.Close()
}
