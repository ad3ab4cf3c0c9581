package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ExtractRequest is the HTTP request body for extraction endpoints.
type ExtractRequest struct {
	Pages []PageInput `json:"pages" validate:"required,min=1,max=2000,dive"`
	Label string      `json:"label,omitempty" validate:"max=200"`
}

// PageInput is a page as accepted over the API.
type PageInput struct {
	FileName   string `json:"fileName,omitempty" validate:"max=512"`
	PageNumber int    `json:"pageNumber" validate:"gte=0"`
	Text       string `json:"text" validate:"max=200000"`
}

// ToPages converts the request into pipeline input.
func (r *ExtractRequest) ToPages() []PageText {
	pages := make([]PageText, 0, len(r.Pages))
	for _, p := range r.Pages {
		pages = append(pages, PageText(p))
	}
	return pages
}

// Validate validates the ExtractRequest using the validator.
func (r *ExtractRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ReviewUpdate carries the edits a reviewer made to one candidate.
type ReviewUpdate struct {
	Keep          *bool  `json:"keep" validate:"required"`
	EditedTitle   string `json:"editedTitle,omitempty" validate:"max=200"`
	ReviewerNotes string `json:"reviewerNotes,omitempty" validate:"max=2000"`
}

// Validate validates the ReviewUpdate using the validator.
func (r *ReviewUpdate) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Review is the stored review state of a candidate.
type Review struct {
	Keep          bool       `json:"keep"`
	EditedTitle   string     `json:"editedTitle,omitempty"`
	ReviewerNotes string     `json:"reviewerNotes,omitempty"`
	ReviewerID    *uuid.UUID `json:"reviewerId,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
}

// StoredCandidate is a persisted candidate with its run and review state.
type StoredCandidate struct {
	DecisionCandidate
	RunID  uuid.UUID `json:"runId"`
	Rank   int       `json:"rank"`
	Review *Review   `json:"review,omitempty"`
}
