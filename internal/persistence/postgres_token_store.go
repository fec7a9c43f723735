package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telecom-ops/admin-console/internal/domain"
)

// PostgresTokenStore keeps the session token in the console_tokens table,
// one row per token key.
type PostgresTokenStore struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgresTokenStore returns a store bound to tokenKey.
func NewPostgresTokenStore(pool *pgxpool.Pool, tokenKey string) *PostgresTokenStore {
	return &PostgresTokenStore{pool: pool, key: tokenKey}
}

// Load reads the token row for the configured key. A missing row yields
// domain.ErrNoToken.
func (s *PostgresTokenStore) Load(ctx context.Context) (string, error) {
	const query = `SELECT token FROM console_tokens WHERE key=$1`

	var token string
	if err := s.pool.QueryRow(ctx, query, s.key).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNoToken
		}
		return "", fmt.Errorf("select token: %w", err)
	}
	return token, nil
}

// Save upserts the token row.
func (s *PostgresTokenStore) Save(ctx context.Context, token string) error {
	const query = `
        INSERT INTO console_tokens (key, token, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET token=EXCLUDED.token, updated_at=NOW()`

	if _, err := s.pool.Exec(ctx, query, s.key, token); err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

// Delete removes the token row. Deleting a missing row is not an error.
func (s *PostgresTokenStore) Delete(ctx context.Context) error {
	const query = `DELETE FROM console_tokens WHERE key=$1`

	if _, err := s.pool.Exec(ctx, query, s.key); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Ping checks the pool connection.
func (s *PostgresTokenStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
