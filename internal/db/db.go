// Package db provides PostgreSQL database access for application
// records and user profiles.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// schema is the DDL for the tables this service owns. The unique
// (user_id, job_id) constraint is the at-most-once guard against
// duplicate concurrent applications for the same pair.
const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	phone         TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	password_set  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_profiles (
	user_id    UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	full_name  TEXT NOT NULL,
	email      TEXT NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	location   TEXT NOT NULL DEFAULT '',
	portfolio  TEXT NOT NULL DEFAULT '',
	linkedin   TEXT NOT NULL DEFAULT '',
	cv         JSONB,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS applications (
	id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id              UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	job_id               TEXT NOT NULL,
	job_title            TEXT NOT NULL DEFAULT '',
	company_name         TEXT NOT NULL DEFAULT '',
	job_url              TEXT NOT NULL DEFAULT '',
	status               TEXT NOT NULL,
	notes                TEXT NOT NULL DEFAULT '',
	salary               TEXT NOT NULL DEFAULT '',
	location             TEXT NOT NULL DEFAULT '',
	job_type             TEXT NOT NULL DEFAULT '',
	application_data     JSONB,
	applied_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	response_received_at TIMESTAMPTZ,
	UNIQUE (user_id, job_id)
);

CREATE INDEX IF NOT EXISTS idx_applications_user_status
	ON applications (user_id, status);
`

// Migrate creates the tables this service owns if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
