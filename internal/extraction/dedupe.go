package extraction

import (
	"sort"
	"strings"

	"github.com/jonathan/dnav/internal/types"
)

// Dedupe merges near-duplicate candidates. Candidates are visited in
// stable score order and compared only against already accepted
// survivors; a duplicate's missing sources are appended to the survivor it
// matched. Dedupe(Dedupe(x)) equals Dedupe(x).
func (e *Extractor) Dedupe(candidates []types.DecisionCandidate) []types.DecisionCandidate {
	if len(candidates) == 0 {
		return []types.DecisionCandidate{}
	}

	ordered := make([]types.DecisionCandidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	survivors := make([]types.DecisionCandidate, 0, len(ordered))
	keys := make([]dedupeKey, 0, len(ordered))
	for _, c := range ordered {
		key := newDedupeKey(c.Evidence)
		merged := false
		for i := range survivors {
			if e.isDuplicate(keys[i], key) {
				mergeSources(&survivors[i], c.Sources)
				merged = true
				break
			}
		}
		if !merged {
			c.Sources = append([]types.DecisionSource(nil), c.Sources...)
			survivors = append(survivors, c)
			keys = append(keys, key)
		}
	}
	return survivors
}

type dedupeKey struct {
	normalized string
	tokens     map[string]struct{}
}

func newDedupeKey(evidence string) dedupeKey {
	return dedupeKey{
		normalized: normalizeForCompare(evidence),
		tokens:     tokenSet(evidence),
	}
}

func (e *Extractor) isDuplicate(a, b dedupeKey) bool {
	if a.normalized == b.normalized {
		return true
	}
	if a.normalized != "" && b.normalized != "" && (containsWords(a.normalized, b.normalized) || containsWords(b.normalized, a.normalized)) {
		return true
	}
	return jaccard(a.tokens, b.tokens) >= e.opts.DuplicateSimilarity
}

// containsWords reports whether needle occurs in haystack on word
// boundaries. Both are single-spaced normalized strings.
func containsWords(haystack, needle string) bool {
	return len(needle) <= len(haystack) &&
		strings.Contains(" "+haystack+" ", " "+needle+" ")
}

func mergeSources(survivor *types.DecisionCandidate, sources []types.DecisionSource) {
	for _, src := range sources {
		if !survivor.HasSource(src) {
			survivor.Sources = append(survivor.Sources, src)
		}
	}
}
