package extraction

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// normalizeWhitespace collapses every run of Unicode whitespace (including
// non-breaking and zero-width spaces) into one space and trims the ends.
// Invalid UTF-8 and U+FFFD are treated as whitespace.
func normalizeWhitespace(s string) string {
	s = strings.ToValidUTF8(s, string(utf8.RuneError))
	return strings.Join(strings.Fields(strings.Map(func(r rune) rune {
		if r == '\u200b' || r == '\ufeff' || r == utf8.RuneError {
			return ' '
		}
		return r
	}, s)), " ")
}

// lineKey is the form used for repeated-line lookups.
func lineKey(s string) string {
	return strings.ToLower(normalizeWhitespace(s))
}

// normalizeForCompare lower-cases s and maps every non-alphanumeric rune to
// a space, leaving single-spaced word tokens.
func normalizeForCompare(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(normalizeForCompare(s)) {
		set[tok] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// candidateID is stable for a given document and evidence text.
func candidateID(fileName, evidence string) string {
	sum := sha256.Sum256([]byte(fileName + "\n" + normalizeForCompare(evidence)))
	return "dc_" + hex.EncodeToString(sum[:])[:16]
}
