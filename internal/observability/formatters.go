// Package observability provides formatted output for verbose CLI mode and
// Prometheus metrics for extraction runs.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/dnav/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintExtractionDebug outputs the pipeline counters of a run.
func (p *Printer) PrintExtractionDebug(debug types.ExtractionDebug) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Documents:            %d", debug.DocumentsProcessed))
	if debug.PersonalMemoDocuments > 0 {
		sb.WriteString(fmt.Sprintf(" (%d personal memo)", debug.PersonalMemoDocuments))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Pages parsed:         %d\n", debug.PagesParsed))
	sb.WriteString(fmt.Sprintf("Raw lines:            %d\n", debug.RawLinesCount))
	sb.WriteString(fmt.Sprintf("Sentences:            %d\n", debug.SentencesCount))
	sb.WriteString(fmt.Sprintf("Before dedupe:        %d\n", debug.CandidatesBeforeDedupe))
	sb.WriteString(fmt.Sprintf("After dedupe:         %d\n", debug.CandidatesAfterDedupe))
	sb.WriteString(fmt.Sprintf("After filtering:      %d", debug.CandidatesAfterFiltering))
	if debug.FallbackUsed {
		sb.WriteString("\nFallback:             floor applied")
	}

	p.printBox("EXTRACTION SUMMARY", sb.String())
}

// PrintCandidates outputs the top candidates with score and first source.
func (p *Printer) PrintCandidates(candidates []types.DecisionCandidate) {
	if len(candidates) == 0 {
		p.printBox("DECISION CANDIDATES", "No candidates found")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates: %d\n\n", len(candidates)))

	count := min(len(candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := candidates[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, c.DecisionTitle))
		sb.WriteString(fmt.Sprintf("    Score: %d  Confidence: %.2f\n", c.Score, c.ExtractConfidence))
		if len(c.Sources) > 0 {
			src := c.Sources[0]
			name := src.FileName
			if name == "" {
				name = "(unnamed)"
			}
			sb.WriteString(fmt.Sprintf("    Source: %s p.%d", name, src.PageNumber))
			if len(c.Sources) > 1 {
				sb.WriteString(fmt.Sprintf(" +%d more", len(c.Sources)-1))
			}
			sb.WriteString("\n")
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(candidates)-maxItemsToShow))
	}

	p.printBox("DECISION CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocuments outputs the per-document breakdown of a run.
func (p *Printer) PrintDocuments(docs []types.DocumentSummary) {
	if len(docs) == 0 {
		return
	}

	var sb strings.Builder
	for _, d := range docs {
		name := d.FileName
		if name == "" {
			name = "(unnamed)"
		}
		sb.WriteString(fmt.Sprintf("• %s: %d pages, %d candidates", name, d.Pages, d.Candidates))
		if d.RepeatedLines > 0 {
			sb.WriteString(fmt.Sprintf(", %d repeated lines", d.RepeatedLines))
		}
		if d.PersonalMemo {
			sb.WriteString(" [memo]")
		}
		sb.WriteString("\n")
	}

	p.printBox("DOCUMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs the summary, documents and top candidates of a run.
func (p *Printer) PrintResult(result *types.ExtractionResult) {
	if result == nil {
		return
	}
	p.PrintExtractionDebug(result.Debug)
	p.PrintDocuments(result.Documents)
	p.PrintCandidates(result.Candidates)
}
