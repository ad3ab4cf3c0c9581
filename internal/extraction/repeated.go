package extraction

import (
	"math"
	"strings"

	"github.com/jonathan/dnav/internal/types"
)

// RepeatedLines is a set of normalized, lower-cased lines that recur across
// a document's pages.
type RepeatedLines map[string]struct{}

// Has reports whether line, once normalized, is in the set.
func (r RepeatedLines) Has(line string) bool {
	if len(r) == 0 {
		return false
	}
	_, ok := r[lineKey(line)]
	return ok
}

// embeddedIn reports whether a repeated line of at least minLen characters
// occurs inside text.
func (r RepeatedLines) embeddedIn(text string, minLen int) bool {
	if len(r) == 0 {
		return false
	}
	key := lineKey(text)
	for line := range r {
		if len(line) >= minLen && strings.Contains(key, line) {
			return true
		}
	}
	return false
}

// DetectRepeated returns the lines that appear on at least
// max(2, ceil(share * pageCount)) distinct pages, where pageCount counts
// only non-blank pages. Fewer than two such pages yield an empty set.
func (e *Extractor) DetectRepeated(pages []types.PageText) RepeatedLines {
	repeated := make(RepeatedLines)
	nonBlank := 0
	for _, page := range pages {
		if strings.TrimSpace(page.Text) != "" {
			nonBlank++
		}
	}
	if nonBlank < 2 {
		return repeated
	}

	threshold := int(math.Ceil(e.opts.RepeatedLineShare * float64(nonBlank)))
	if threshold < 2 {
		threshold = 2
	}

	counts := make(map[string]int)
	for _, page := range pages {
		seen := make(map[string]bool)
		for _, raw := range splitLines(page.Text) {
			key := lineKey(raw)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			counts[key]++
		}
	}

	for key, n := range counts {
		if n >= threshold {
			repeated[key] = struct{}{}
		}
	}
	return repeated
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
