//go:build integration
// +build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/dnav/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.EnsureSchema(ctx))
	return db
}

func sampleCandidates() []types.DecisionCandidate {
	return []types.DecisionCandidate{
		{
			ID:            "dc_0000000000000001",
			DecisionTitle: "Begin production at Gigafactory Texas",
			Evidence:      "We will begin production at Gigafactory Texas in Q2 2025.",
			Sources: []types.DecisionSource{
				{FileName: "letter.pdf", PageNumber: 2, Excerpt: "We will begin production at Gigafactory Texas in Q2 2025."},
				{FileName: "deck.pdf", PageNumber: 9, Excerpt: "We will begin production at Gigafactory Texas in Q2 2025"},
			},
			Score:             60,
			ExtractConfidence: 0.76,
		},
		{
			ID:                "dc_0000000000000002",
			DecisionTitle:     "Expand the Nevada plant",
			Evidence:          "We plan to expand the Nevada plant next year.",
			Sources:           []types.DecisionSource{{FileName: "letter.pdf", PageNumber: 3, Excerpt: "We plan to expand the Nevada plant next year."}},
			Score:             40,
			ExtractConfidence: 0.51,
		},
	}
}

func TestRunLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, "q3 shareholder letter")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, runID)

	run, err := db.GetRun(ctx, runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Nil(t, run.CompletedAt)

	require.NoError(t, db.SaveCandidates(ctx, runID, sampleCandidates()))
	debug := &types.ExtractionDebug{PagesParsed: 3, CandidatesAfterFiltering: 2, FallbackUsed: true}
	require.NoError(t, db.CompleteRun(ctx, runID, RunStatusCompleted, debug))

	run, err = db.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Equal(t, 2, run.CandidateCount)
	assert.True(t, run.FallbackUsed)
	require.NotNil(t, run.Debug)
	assert.Equal(t, 3, run.Debug.PagesParsed)
	assert.NotNil(t, run.CompletedAt)

	runs, err := db.ListRuns(ctx, 10, 0)
	require.NoError(t, err)
	found := false
	for _, r := range runs {
		if r.ID == runID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCandidates_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, "")
	require.NoError(t, err)
	require.NoError(t, db.SaveCandidates(ctx, runID, sampleCandidates()))

	candidates, err := db.ListCandidates(ctx, runID)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, 1, candidates[0].Rank)
	assert.Equal(t, "dc_0000000000000001", candidates[0].ID)
	require.Len(t, candidates[0].Sources, 2)
	assert.Equal(t, "deck.pdf", candidates[0].Sources[1].FileName)
	assert.Nil(t, candidates[0].Review)

	got, err := db.GetCandidate(ctx, runID, "dc_0000000000000002")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Expand the Nevada plant", got.DecisionTitle)
	assert.Len(t, got.Sources, 1)

	missing, err := db.GetCandidate(ctx, runID, "dc_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateReview_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, "review")
	require.NoError(t, err)
	require.NoError(t, db.SaveCandidates(ctx, runID, sampleCandidates()))

	reviewer := uuid.New()
	keep := false
	updated, err := db.UpdateReview(ctx, runID, "dc_0000000000000002", reviewer, types.ReviewUpdate{
		Keep:          &keep,
		EditedTitle:   "Expand Nevada",
		ReviewerNotes: "duplicate of last quarter",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.Review)
	assert.False(t, updated.Review.Keep)
	assert.Equal(t, "Expand Nevada", updated.Review.EditedTitle)
	require.NotNil(t, updated.Review.ReviewerID)
	assert.Equal(t, reviewer, *updated.Review.ReviewerID)
	assert.NotNil(t, updated.Review.ReviewedAt)

	missing, err := db.UpdateReview(ctx, runID, "dc_missing", reviewer, types.ReviewUpdate{Keep: &keep})
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = db.UpdateReview(ctx, runID, "dc_0000000000000002", reviewer, types.ReviewUpdate{})
	assert.Error(t, err)
}

func TestGetRun_NotFound_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	run, err := db.GetRun(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, run)
}
