package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/dnav/internal/db"
	"github.com/jonathan/dnav/internal/server/middleware"
	"github.com/jonathan/dnav/internal/types"
	"go.uber.org/zap"
)

// CreateRunResponse is returned by POST /runs.
type CreateRunResponse struct {
	RunID  uuid.UUID              `json:"run_id"`
	Status string                 `json:"status"`
	Result types.ExtractionResult `json:"result"`
}

// ListRunsResponse is returned by GET /runs.
type ListRunsResponse struct {
	Runs   []db.Run `json:"runs"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

// ListCandidatesResponse is returned by GET /runs/{id}/candidates.
type ListCandidatesResponse struct {
	RunID      uuid.UUID               `json:"run_id"`
	Candidates []types.StoredCandidate `json:"candidates"`
}

// decodeJSON reads a size-limited JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrValidation{Field: "body", Message: fmt.Sprintf("exceeds %d bytes", tooLarge.Limit)}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// decodeExtractRequest decodes and validates an extraction request.
func (s *Server) decodeExtractRequest(w http.ResponseWriter, r *http.Request) (*types.ExtractRequest, error) {
	var req types.ExtractRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	return &req, nil
}

// extract runs the pipeline and records metrics.
func (s *Server) extract(req *types.ExtractRequest) types.ExtractionResult {
	start := time.Now()
	result := s.extractor.Extract(req.ToPages())
	s.metrics.ObserveExtraction(&result, time.Since(start))
	return result
}

// handleExtract runs a stateless extraction over the posted pages
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeExtractRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.extract(req))
}

// handleCreateRun extracts candidates and persists them as a new run
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStorageDisabled)
		return
	}
	req, err := s.decodeExtractRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	runID, err := s.store.CreateRun(ctx, req.Label)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result := s.extract(req)
	if err := s.store.SaveCandidates(ctx, runID, result.Candidates); err != nil {
		if cErr := s.store.CompleteRun(ctx, runID, db.RunStatusFailed, nil); cErr != nil {
			s.logger.Error("failed to mark run failed", zap.String("run_id", runID.String()), zap.Error(cErr))
		}
		s.writeError(w, err)
		return
	}
	if err := s.store.CompleteRun(ctx, runID, db.RunStatusCompleted, &result.Debug); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("run stored",
		zap.String("run_id", runID.String()),
		zap.Int("candidates", len(result.Candidates)),
	)
	s.jsonResponse(w, http.StatusCreated, CreateRunResponse{
		RunID:  runID,
		Status: db.RunStatusCompleted,
		Result: result,
	})
}

// handleListRuns returns runs newest first, paged by limit and offset
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStorageDisabled)
		return
	}

	limit, err := queryInt(r, "limit", db.DefaultListLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if limit == 0 {
		limit = db.DefaultListLimit
	}
	limit = min(limit, db.MaxListLimit)

	runs, err := s.store.ListRuns(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	s.jsonResponse(w, http.StatusOK, ListRunsResponse{Runs: runs, Limit: limit, Offset: offset})
}

// handleGetRun returns a single run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStorageDisabled)
		return
	}
	runID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if run == nil {
		s.writeError(w, &ErrNotFound{Resource: "run", ID: runID.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleListCandidates returns the ranked candidates of a run
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStorageDisabled)
		return
	}
	runID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if run == nil {
		s.writeError(w, &ErrNotFound{Resource: "run", ID: runID.String()})
		return
	}

	candidates, err := s.store.ListCandidates(ctx, runID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if candidates == nil {
		candidates = []types.StoredCandidate{}
	}
	s.jsonResponse(w, http.StatusOK, ListCandidatesResponse{RunID: runID, Candidates: candidates})
}

// handleGetCandidate returns one candidate with its review state
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStorageDisabled)
		return
	}
	runID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	candidateID := r.PathValue("candidate_id")

	candidate, err := s.store.GetCandidate(r.Context(), runID, candidateID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if candidate == nil {
		s.writeError(w, &ErrNotFound{Resource: "candidate", ID: candidateID})
		return
	}
	s.jsonResponse(w, http.StatusOK, candidate)
}

// handleUpdateReview records the authenticated reviewer's decision
func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStorageDisabled)
		return
	}
	reviewerID, err := middleware.GetReviewerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	runID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	candidateID := r.PathValue("candidate_id")

	var update types.ReviewUpdate
	if err := s.decodeJSON(w, r, &update); err != nil {
		s.writeError(w, err)
		return
	}
	if err := update.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}

	candidate, err := s.store.UpdateReview(r.Context(), runID, candidateID, reviewerID, update)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if candidate == nil {
		s.writeError(w, &ErrNotFound{Resource: "candidate", ID: candidateID})
		return
	}

	s.logger.Info("candidate reviewed",
		zap.String("run_id", runID.String()),
		zap.String("candidate_id", candidateID),
		zap.String("reviewer_id", reviewerID.String()),
		zap.Bool("keep", *update.Keep),
	)
	s.jsonResponse(w, http.StatusOK, candidate)
}

// pathUUID parses a UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "invalid UUID format"}
	}
	return id, nil
}

// queryInt parses a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a non-negative integer"}
	}
	return n, nil
}
