package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &ErrNotFound{Resource: "run", ID: "x"}, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", &ErrNotFound{Resource: "run", ID: "x"}), http.StatusNotFound},
		{"validation", &ErrValidation{Field: "limit", Message: "bad"}, http.StatusBadRequest},
		{"storage disabled", ErrStorageDisabled, http.StatusServiceUnavailable},
		{"review disabled", fmt.Errorf("patch: %w", ErrReviewDisabled), http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "candidate not found: dc_1", (&ErrNotFound{Resource: "candidate", ID: "dc_1"}).Error())
	assert.Equal(t, "validation error: offset - must be a non-negative integer",
		(&ErrValidation{Field: "offset", Message: "must be a non-negative integer"}).Error())
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Name  string `validate:"required"`
		Count int    `validate:"max=3"`
	}
	validate := validator.New()

	t.Run("tag without param", func(t *testing.T) {
		err := validationError(validate.Struct(payload{}))
		var v *ErrValidation
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "payload.Name", v.Field)
		assert.Equal(t, "failed 'required' check", v.Message)
	})

	t.Run("tag with param", func(t *testing.T) {
		err := validationError(validate.Struct(payload{Name: "x", Count: 9}))
		var v *ErrValidation
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "payload.Count", v.Field)
		assert.Equal(t, "failed 'max=3' check", v.Message)
	})

	t.Run("non validator error", func(t *testing.T) {
		err := validationError(errors.New("odd"))
		var v *ErrValidation
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "body", v.Field)
		assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
	})
}
