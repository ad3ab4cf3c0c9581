// Package middleware provides HTTP middleware for reviewer authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// reviewerIDKey is the context key for storing the authenticated reviewer ID.
const reviewerIDKey ContextKey = "reviewerID"

// TokenValidator is an interface for validating bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (ReviewerIDGetter, error)
}

// ReviewerIDGetter is an interface for extracting the reviewer ID from token claims.
type ReviewerIDGetter interface {
	GetReviewerID() uuid.UUID
}

// AuthMiddleware creates middleware that validates bearer tokens and adds
// the reviewer ID to the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="dnav"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="dnav", error="invalid_token"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithReviewerID(r.Context(), claims.GetReviewerID())))
		})
	}
}

// bearerToken parses "Bearer <token>" case-insensitively.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// WithReviewerID returns a copy of ctx carrying the reviewer ID.
func WithReviewerID(ctx context.Context, reviewerID uuid.UUID) context.Context {
	return context.WithValue(ctx, reviewerIDKey, reviewerID)
}

// GetReviewerID extracts the authenticated reviewer ID from the request context.
func GetReviewerID(r *http.Request) (uuid.UUID, error) {
	reviewerID, ok := r.Context().Value(reviewerIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("reviewer ID not found in request context")
	}
	return reviewerID, nil
}
