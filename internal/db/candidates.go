package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/dnav/internal/types"
)

// SaveCandidates stores the ranked candidates of a run with their sources
// and updates the run's candidate count, all in one transaction. Rank is
// the 1-based position in candidates.
func (db *DB) SaveCandidates(ctx context.Context, runID uuid.UUID, candidates []types.DecisionCandidate) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for i, c := range candidates {
		batch.Queue(
			`INSERT INTO decision_candidates
			     (run_id, candidate_id, rank, decision_title, evidence, score, extract_confidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			runID, c.ID, i+1, c.DecisionTitle, c.Evidence, c.Score, c.ExtractConfidence,
		)
		for j, src := range c.Sources {
			batch.Queue(
				`INSERT INTO decision_candidate_sources
				     (run_id, candidate_id, ordinal, file_name, page_number, excerpt)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				runID, c.ID, j, src.FileName, src.PageNumber, src.Excerpt,
			)
		}
	}
	batch.Queue(`UPDATE extraction_runs SET candidate_count = $1 WHERE id = $2`, len(candidates), runID)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save candidates: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit candidates: %w", err)
	}
	return nil
}

const candidateColumns = `run_id, candidate_id, rank, decision_title, evidence, score, extract_confidence,
	keep, edited_title, reviewer_notes, reviewer_id, reviewed_at`

func scanCandidate(row pgx.Row) (*types.StoredCandidate, error) {
	var c types.StoredCandidate
	var keep *bool
	var editedTitle, notes *string
	var reviewerID *uuid.UUID
	var reviewedAt *time.Time
	if err := row.Scan(&c.RunID, &c.ID, &c.Rank, &c.DecisionTitle, &c.Evidence, &c.Score,
		&c.ExtractConfidence, &keep, &editedTitle, &notes, &reviewerID, &reviewedAt); err != nil {
		return nil, err
	}
	if keep != nil {
		c.Review = &types.Review{
			Keep:          *keep,
			EditedTitle:   derefString(editedTitle),
			ReviewerNotes: derefString(notes),
			ReviewerID:    reviewerID,
			ReviewedAt:    reviewedAt,
		}
	}
	c.Sources = []types.DecisionSource{}
	return &c, nil
}

// ListCandidates returns the candidates of a run in rank order.
func (db *DB) ListCandidates(ctx context.Context, runID uuid.UUID) ([]types.StoredCandidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM decision_candidates
		 WHERE run_id = $1
		 ORDER BY rank`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []types.StoredCandidate{}
	index := map[string]int{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		index[c.ID] = len(candidates)
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	sources, err := db.listSources(ctx, runID, "")
	if err != nil {
		return nil, err
	}
	for id, srcs := range sources {
		if i, ok := index[id]; ok {
			candidates[i].Sources = srcs
		}
	}
	return candidates, nil
}

// GetCandidate retrieves one candidate of a run. Returns nil, nil when it
// does not exist.
func (db *DB) GetCandidate(ctx context.Context, runID uuid.UUID, candidateID string) (*types.StoredCandidate, error) {
	c, err := scanCandidate(db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+`
		 FROM decision_candidates
		 WHERE run_id = $1 AND candidate_id = $2`,
		runID, candidateID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	sources, err := db.listSources(ctx, runID, candidateID)
	if err != nil {
		return nil, err
	}
	if srcs, ok := sources[candidateID]; ok {
		c.Sources = srcs
	}
	return c, nil
}

// UpdateReview records a reviewer's decision on a candidate and returns the
// updated record. Returns nil, nil when the candidate does not exist.
func (db *DB) UpdateReview(ctx context.Context, runID uuid.UUID, candidateID string, reviewerID uuid.UUID, update types.ReviewUpdate) (*types.StoredCandidate, error) {
	if update.Keep == nil {
		return nil, fmt.Errorf("review update requires keep")
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE decision_candidates
		 SET keep = $1, edited_title = $2, reviewer_notes = $3, reviewer_id = $4, reviewed_at = NOW()
		 WHERE run_id = $5 AND candidate_id = $6`,
		*update.Keep, nullIfEmpty(update.EditedTitle), nullIfEmpty(update.ReviewerNotes), reviewerID,
		runID, candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return db.GetCandidate(ctx, runID, candidateID)
}

// listSources loads sources keyed by candidate ID; an empty candidateID
// loads the whole run.
func (db *DB) listSources(ctx context.Context, runID uuid.UUID, candidateID string) (map[string][]types.DecisionSource, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT candidate_id, file_name, page_number, excerpt
		 FROM decision_candidate_sources
		 WHERE run_id = $1 AND ($2::text = '' OR candidate_id = $2)
		 ORDER BY candidate_id, ordinal`,
		runID, candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate sources: %w", err)
	}
	defer rows.Close()

	sources := map[string][]types.DecisionSource{}
	for rows.Next() {
		var id string
		var src types.DecisionSource
		if err := rows.Scan(&id, &src.FileName, &src.PageNumber, &src.Excerpt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate source: %w", err)
		}
		sources[id] = append(sources[id], src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list candidate sources: %w", err)
	}
	return sources, nil
}
