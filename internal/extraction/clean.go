package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/dnav/internal/types"
)

// Table-noise thresholds shared by the cleaner and the scorer.
const (
	tableDigitRatio      = 0.22
	tableNumericTokens   = 6
	tableCurrencySymbols = 2
	tableColumnSeps      = 3
	tableShortTokens     = 10
	tableShortTokenLen   = 3.0
)

var (
	pageNumberLine = regexp.MustCompile(`(?i)^(?:page\s+)?[-–]?\s*\d{1,4}\s*[-–]?(?:\s*(?:of|/)\s*\d{1,4})?$`)
	footerLine     = regexp.MustCompile(`(?i)^(?:©|\(c\)\s|copyright\b)|\ball rights reserved\b|^(?:confidential|proprietary)(?:\s+and\s+(?:confidential|proprietary))?$`)
	numericToken   = regexp.MustCompile(`^[(\-+$€£¥]*\d[\d,.]*[%)xX]*$`)
	columnSep      = regexp.MustCompile(`\t|\||[ \x{00A0}]{2,}`)
)

// Clean normalizes each page's lines and drops page numbers, footers,
// repeated lines, boilerplate and table noise. Table-like and hedged lines
// survive when they carry both a commitment verb and a timeline cue.
func (e *Extractor) Clean(pages []types.PageText, repeated RepeatedLines) []types.CleanedPage {
	cleaned := make([]types.CleanedPage, 0, len(pages))
	for _, page := range pages {
		cp := types.CleanedPage{
			FileName:   page.FileName,
			PageNumber: page.PageNumber,
			Lines:      []string{},
		}
		for _, raw := range splitLines(page.Text) {
			raw = strings.ToValidUTF8(raw, "\uFFFD")
			line := normalizeWhitespace(raw)
			if line == "" || e.dropLine(raw, line, repeated) {
				continue
			}
			cp.Lines = append(cp.Lines, line)
			cp.RawLines = append(cp.RawLines, raw)
		}
		cleaned = append(cleaned, cp)
	}
	return cleaned
}

func (e *Extractor) dropLine(raw, line string, repeated RepeatedLines) bool {
	if pageNumberLine.MatchString(line) || footerLine.MatchString(line) {
		return true
	}
	if repeated.Has(line) {
		return true
	}
	if e.rules.HasBoilerplatePhrase(line) {
		return true
	}
	commitment := e.rules.HasCommitmentVerb(line)
	if e.rules.HasHedge(line) && !commitment {
		return true
	}
	if isTableLike(raw) {
		return !(commitment && e.rules.HasTimelineCue(line))
	}
	return false
}

// isTableLike applies the composite table heuristic to a raw line. Column
// separators are only visible before whitespace normalization.
func isTableLike(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	if digitRatio(trimmed) > tableDigitRatio {
		return true
	}
	if currencySymbols(trimmed) >= tableCurrencySymbols {
		return true
	}
	if len(columnSep.FindAllStringIndex(trimmed, -1)) >= tableColumnSeps {
		return true
	}

	tokens := strings.Fields(trimmed)
	numeric, totalLen := 0, 0
	for _, tok := range tokens {
		if numericToken.MatchString(tok) {
			numeric++
		}
		totalLen += len([]rune(tok))
	}
	if numeric >= tableNumericTokens {
		return true
	}
	return len(tokens) >= tableShortTokens && float64(totalLen)/float64(len(tokens)) <= tableShortTokenLen
}

// digitRatio is the share of digits among non-space runes.
func digitRatio(s string) float64 {
	digits, total := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(digits) / float64(total)
}

func currencySymbols(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case '$', '€', '£', '¥', '%':
			n++
		}
	}
	return n
}
