package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/dnav/internal/config"
	"github.com/jonathan/dnav/internal/server"
	"github.com/jonathan/dnav/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const letterText = `To our shareholders,

We will begin Cybertruck production ramp in Q2 2025 at Gigafactory Texas.
`

// executeCommand runs the root command in-process with fresh flag values.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	extractInputs = nil
	extractURL = ""
	extractOut = ""
	extractVerbose = false
	extractUseBrowser = false
	validateFile = ""
	tokenReviewer = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractCommand_WritesCandidates(t *testing.T) {
	in := writeInput(t, "letter.txt", letterText)
	out := filepath.Join(t.TempDir(), "candidates.json")

	output, err := executeCommand(t, "extract", "--in", in, "--out", out)
	require.NoError(t, err, output)
	assert.Contains(t, output, "Extracted 1 decision candidates from 1 pages")
	assert.NotContains(t, output, "Warning")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var result types.ExtractionResult
	require.NoError(t, json.Unmarshal(data, &result))
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "letter.txt", result.Candidates[0].Sources[0].FileName)
	assert.Equal(t, 1, result.Debug.DocumentsProcessed)
}

func TestExtractCommand_MultipleInputsAndVerbose(t *testing.T) {
	first := writeInput(t, "a.txt", letterText)
	second := writeInput(t, "b.txt", "We plan to open a new distribution center in Ohio by 2026.\n")
	out := filepath.Join(t.TempDir(), "candidates.json")

	output, err := executeCommand(t, "extract", "--in", first, "--in", second, "--out", out, "--verbose")
	require.NoError(t, err, output)
	assert.Contains(t, output, "EXTRACTION SUMMARY")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var result types.ExtractionResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, 2, result.Debug.DocumentsProcessed)
	assert.Len(t, result.Documents, 2)
}

func TestExtractCommand_Errors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "candidates.json")

	t.Run("no inputs", func(t *testing.T) {
		_, err := executeCommand(t, "extract", "--out", out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--in or --url")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := executeCommand(t, "extract", "--in", filepath.Join(t.TempDir(), "nope.txt"), "--out", out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file not found")
	})

	t.Run("bad config", func(t *testing.T) {
		cfgPath := writeInput(t, "config.yaml", "extraction:\n  repeated_line_share: 2\n")
		in := writeInput(t, "letter.txt", letterText)
		_, err := executeCommand(t, "extract", "--config", cfgPath, "--in", in, "--out", out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})
}

func TestValidateCommand(t *testing.T) {
	in := writeInput(t, "letter.txt", letterText)
	out := filepath.Join(t.TempDir(), "candidates.json")
	_, err := executeCommand(t, "extract", "--in", in, "--out", out)
	require.NoError(t, err)

	t.Run("passes", func(t *testing.T) {
		output, err := executeCommand(t, "validate", "--file", out)
		require.NoError(t, err)
		assert.Contains(t, output, "Validation passed")
	})

	t.Run("fails", func(t *testing.T) {
		bad := writeInput(t, "bad.json", `{"candidates": [{"id": "x"}], "debug": {}}`)
		output, err := executeCommand(t, "validate", "--file", bad)
		require.Error(t, err)
		assert.Contains(t, output, "Validation failed")
		assert.Contains(t, err.Error(), "schema violation")
	})
}

func TestTokenCommand(t *testing.T) {
	const secret = "cli-test-secret-0123456789"
	t.Setenv("JWT_SECRET", secret)
	reviewerID := uuid.New()

	output, err := executeCommand(t, "token", "--reviewer", reviewerID.String())
	require.NoError(t, err)

	jwtService := server.NewJWTService(&config.JWTConfig{
		Secret:          secret,
		ExpirationHours: 24,
		Issuer:          config.DefaultTokenIssuer,
	})
	claims, err := jwtService.ValidateToken(strings.TrimSpace(output))
	require.NoError(t, err)
	assert.Equal(t, reviewerID, claims.ReviewerID)
}

func TestTokenCommand_InvalidReviewer(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret-0123456789")
	_, err := executeCommand(t, "token", "--reviewer", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --reviewer")
}

func TestTokenCommand_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := executeCommand(t, "token", "--reviewer", uuid.New().String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
