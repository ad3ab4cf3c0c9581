package extraction

import (
	"strings"
	"unicode"

	"github.com/jonathan/dnav/internal/types"
)

const (
	memoMinTokens        = 20
	memoMinFirstPerson   = 3
	memoFirstPersonRatio = 0.03
)

// IsPersonalMemo reports whether the pages read as first-person notes rather
// than a filing, judged by first-person singular pronoun density over the
// whole document.
func (e *Extractor) IsPersonalMemo(pages []types.PageText) bool {
	total, firstPerson := 0, 0
	for _, page := range pages {
		for _, word := range memoTokens(page.Text) {
			total++
			if e.rules.IsFirstPerson(word) {
				firstPerson++
			}
		}
	}
	if total < memoMinTokens || firstPerson < memoMinFirstPerson {
		return false
	}
	return float64(firstPerson)/float64(total) >= memoFirstPersonRatio
}

func memoTokens(text string) []string {
	text = strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
