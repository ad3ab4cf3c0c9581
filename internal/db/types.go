package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/dnav/internal/types"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// DefaultListLimit is used when ListRuns is called without a limit.
const DefaultListLimit = 50

// MaxListLimit caps the page size of ListRuns.
const MaxListLimit = 500

// Run represents an extraction run record
type Run struct {
	ID             uuid.UUID              `json:"id"`
	Label          *string                `json:"label,omitempty"`
	Status         string                 `json:"status"`
	CandidateCount int                    `json:"candidate_count"`
	FallbackUsed   bool                   `json:"fallback_used"`
	Debug          *types.ExtractionDebug `json:"debug,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
}

// IsTerminal reports whether the run has finished, successfully or not.
func (r *Run) IsTerminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
