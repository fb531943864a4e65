package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createConversationsTable = `
CREATE TABLE IF NOT EXISTS conversations (
	session_id   UUID PRIMARY KEY,
	completed_at TIMESTAMPTZ NOT NULL,
	ended_early  BOOLEAN NOT NULL DEFAULT FALSE,
	record       JSONB NOT NULL
)`

// PostgresRecorder stores conversation records in a conversations table.
// Used instead of the file recorder when DATABASE_URL is configured.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder connects to the database, verifies the connection,
// and ensures the conversations table exists.
func NewPostgresRecorder(ctx context.Context, databaseURL string) (*PostgresRecorder, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createConversationsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure conversations table: %w", err)
	}

	return &PostgresRecorder{pool: pool}, nil
}

// Save inserts the record, replacing any previous row for the same session.
func (r *PostgresRecorder) Save(ctx context.Context, rec *Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation record: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO conversations (session_id, completed_at, ended_early, record)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO UPDATE
		SET completed_at = EXCLUDED.completed_at,
		    ended_early  = EXCLUDED.ended_early,
		    record       = EXCLUDED.record`,
		rec.SessionID, rec.CompletedAt, rec.EndedEarly, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversation record: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *PostgresRecorder) Close() {
	r.pool.Close()
}
