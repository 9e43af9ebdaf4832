// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"scholarship-matcher/internal/common/config"

	_ "github.com/lib/pq"
)

// ScholarshipsSchema creates the catalog table. Eligibility is stored as JSON
// text; title is unique so the seeder can upsert on it.
const ScholarshipsSchema = `
CREATE TABLE IF NOT EXISTS scholarships (
	id               BIGSERIAL PRIMARY KEY,
	title            TEXT NOT NULL UNIQUE,
	provider         TEXT NOT NULL DEFAULT '',
	amount           TEXT NOT NULL DEFAULT '',
	type             TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	deadline         DATE,
	eligibility      TEXT NOT NULL DEFAULT '[]',
	application_link TEXT NOT NULL DEFAULT '',
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pooled connection. It does not dial; call Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// EnsureSchema creates the scholarships table if it does not exist.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, ScholarshipsSchema); err != nil {
		return fmt.Errorf("failed to create scholarships table: %w", err)
	}
	return nil
}

// GetDB returns the underlying *sql.DB
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
