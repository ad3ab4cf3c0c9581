package schemas

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/dnav/internal/extraction"
	"github.com/jonathan/dnav/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func extractedResult(t *testing.T) types.ExtractionResult {
	t.Helper()
	ex := extraction.NewExtractor(extraction.DefaultOptions(), zap.NewNop())
	return ex.Extract([]types.PageText{{
		FileName:   "letter.pdf",
		PageNumber: 1,
		Text:       "We will begin Cybertruck production ramp in Q2 2025 at Gigafactory Texas.",
	}})
}

func TestEmbeddedSchema_IsValidJSON(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(DecisionCandidatesSchema(), &doc))
	assert.Equal(t, "ExtractionResult", doc["title"])

	_, err := outputSchema()
	require.NoError(t, err)
}

func TestValidateResult_ExtractorOutput(t *testing.T) {
	result := extractedResult(t)
	require.NotEmpty(t, result.Candidates)
	assert.NoError(t, ValidateResult(&result))
}

func TestValidateResult_EmptyResult(t *testing.T) {
	ex := extraction.NewExtractor(extraction.DefaultOptions(), zap.NewNop())
	result := ex.Extract(nil)
	assert.NoError(t, ValidateResult(&result))
}

func TestValidateResult_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.ExtractionResult)
		field  string
	}{
		{
			name:   "bad id",
			mutate: func(r *types.ExtractionResult) { r.Candidates[0].ID = "candidate-1" },
			field:  "candidates.0.id",
		},
		{
			name:   "empty title",
			mutate: func(r *types.ExtractionResult) { r.Candidates[0].DecisionTitle = "" },
			field:  "candidates.0.decisionTitle",
		},
		{
			name:   "confidence out of range",
			mutate: func(r *types.ExtractionResult) { r.Candidates[0].ExtractConfidence = 1.5 },
			field:  "candidates.0.extractConfidence",
		},
		{
			name:   "no sources",
			mutate: func(r *types.ExtractionResult) { r.Candidates[0].Sources = []types.DecisionSource{} },
			field:  "candidates.0.sources",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractedResult(t)
			tt.mutate(&result)

			err := ValidateResult(&result)
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateResultJSON_MissingRequired(t *testing.T) {
	err := ValidateResultJSON([]byte(`{"candidates": []}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	assert.Contains(t, validationErr.Errors[0].Message, "debug")
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateResultJSON_NotJSON(t *testing.T) {
	err := ValidateResultJSON([]byte(`{not json`))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "failed to parse document")
}

func TestValidateJSONFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		result := extractedResult(t)
		data, err := json.MarshalIndent(result, "", "  ")
		require.NoError(t, err)
		path := filepath.Join(dir, "valid.json")
		require.NoError(t, os.WriteFile(path, data, 0644))

		assert.NoError(t, ValidateJSONFile(path))
	})

	t.Run("type mismatch", func(t *testing.T) {
		path := filepath.Join(dir, "mismatch.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"candidates": "none", "debug": {}}`), 0644))

		err := ValidateJSONFile(path)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.NotEmpty(t, validationErr.Errors)
	})

	t.Run("missing file", func(t *testing.T) {
		err := ValidateJSONFile(filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "ok"}`))

	err := ValidateJSONString(schema, `{"name": 3}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Errors[0].Field)

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "(string schema)", loadErr.Path)
}
