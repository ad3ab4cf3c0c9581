// Package db provides PostgreSQL storage for extraction runs, their decision
// candidates and the review state reviewers attach to them.
package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/dnav/internal/types"
)

//go:embed schema.sql
var schemaSQL string

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

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// EnsureSchema creates the tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// CreateRun creates a new extraction run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, label string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO extraction_runs (label, status)
		 VALUES ($1, $2)
		 RETURNING id`,
		nullIfEmpty(label), RunStatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run finished with the given status. debug is stored
// as JSON when set.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, debug *types.ExtractionDebug) error {
	var debugJSON []byte
	fallback := false
	if debug != nil {
		var err error
		debugJSON, err = json.Marshal(debug)
		if err != nil {
			return fmt.Errorf("failed to marshal run debug: %w", err)
		}
		fallback = debug.FallbackUsed
	}

	_, err := db.pool.Exec(ctx,
		`UPDATE extraction_runs
		 SET status = $1, debug = $2, fallback_used = $3, completed_at = NOW()
		 WHERE id = $4`,
		status, debugJSON, fallback, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

const runColumns = `id, label, status, candidate_count, fallback_used, debug, created_at, completed_at`

func scanRun(row pgx.Row) (*Run, error) {
	var r Run
	var debugJSON []byte
	if err := row.Scan(&r.ID, &r.Label, &r.Status, &r.CandidateCount, &r.FallbackUsed,
		&debugJSON, &r.CreatedAt, &r.CompletedAt); err != nil {
		return nil, err
	}
	if debugJSON != nil {
		var debug types.ExtractionDebug
		if err := json.Unmarshal(debugJSON, &debug); err != nil {
			return nil, fmt.Errorf("failed to decode run debug: %w", err)
		}
		r.Debug = &debug
	}
	return &r, nil
}

// GetRun retrieves a run by ID. Returns nil, nil when the run does not exist.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	run, err := scanRun(db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM extraction_runs WHERE id = $1`,
		runID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first.
func (db *DB) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+` FROM extraction_runs
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		normalizeLimit(limit), max(offset, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
