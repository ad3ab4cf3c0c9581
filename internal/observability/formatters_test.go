package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/dnav/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintExtractionDebug(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtractionDebug(types.ExtractionDebug{
		DocumentsProcessed:       2,
		PersonalMemoDocuments:    1,
		PagesParsed:              14,
		CandidatesAfterFiltering: 30,
		FallbackUsed:             true,
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACTION SUMMARY")
	assert.Contains(t, output, "Pages parsed:         14")
	assert.Contains(t, output, "(1 personal memo)")
	assert.Contains(t, output, "floor applied")
}

func TestPrintExtractionDebug_NoFallback(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintExtractionDebug(types.ExtractionDebug{DocumentsProcessed: 1})
	assert.NotContains(t, buf.String(), "Fallback")
	assert.NotContains(t, buf.String(), "personal memo")
}

func TestPrintCandidates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	candidates := []types.DecisionCandidate{
		{
			DecisionTitle:     "Begin production at Gigafactory Texas",
			Score:             60,
			ExtractConfidence: 0.76,
			Sources: []types.DecisionSource{
				{FileName: "letter.pdf", PageNumber: 2},
				{FileName: "deck.pdf", PageNumber: 9},
			},
		},
		{DecisionTitle: "Expand Nevada", Score: 40, Sources: []types.DecisionSource{{PageNumber: 1}}},
	}

	p.PrintCandidates(candidates)
	output := buf.String()

	assert.Contains(t, output, "DECISION CANDIDATES")
	assert.Contains(t, output, "Total candidates: 2")
	assert.Contains(t, output, "#1  Begin production at Gigafactory Texas")
	assert.Contains(t, output, "Score: 60  Confidence: 0.76")
	assert.Contains(t, output, "letter.pdf p.2 +1 more")
	assert.Contains(t, output, "(unnamed) p.1")
}

func TestPrintCandidates_Truncation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	candidates := make([]types.DecisionCandidate, 8)
	for i := range candidates {
		candidates[i] = types.DecisionCandidate{DecisionTitle: fmt.Sprintf("Decision %d", i+1)}
	}

	p.PrintCandidates(candidates)
	output := buf.String()

	assert.Contains(t, output, "#5  Decision 5")
	assert.NotContains(t, output, "#6")
	assert.Contains(t, output, "... and 3 more candidates")
}

func TestPrintCandidates_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCandidates(nil)
	assert.Contains(t, buf.String(), "No candidates found")
}

func TestPrintDocuments(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDocuments([]types.DocumentSummary{
		{FileName: "memo.txt", Pages: 1, Candidates: 3, PersonalMemo: true},
		{FileName: "10k.htm", Pages: 40, Candidates: 12, RepeatedLines: 2},
	})
	output := buf.String()

	assert.Contains(t, output, "memo.txt: 1 pages, 3 candidates [memo]")
	assert.Contains(t, output, "10k.htm: 40 pages, 12 candidates, 2 repeated lines")

	buf.Reset()
	p.PrintDocuments(nil)
	assert.Empty(t, buf.String())
}

func TestPrintResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_LongLinesAreTruncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 200))
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}
