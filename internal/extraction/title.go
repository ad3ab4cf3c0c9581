package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type titleCue struct {
	re *regexp.Regexp
	// cutAtComma also ends the clause at the first comma.
	cutAtComma bool
}

// titleCues are tried in order; the first cue with a non-empty clause
// after it wins.
var titleCues = []titleCue{
	{re: regexp.MustCompile(`(?i)\bas\s+we\s+`), cutAtComma: true},
	{re: regexp.MustCompile(`(?i)\bwill\s+`)},
	{re: regexp.MustCompile(`(?i)\b(?:are|is|am)\s+going\s+to\s+`)},
	{re: regexp.MustCompile(`(?i)\bscheduled\s+to\s+`)},
	{re: regexp.MustCompile(`(?i)\b(?:plan|plans|expect|expects|aim|aims|target|targets|intend|intends)\s+to\s+`)},
}

var (
	leadingWe   = regexp.MustCompile(`(?i)^we\s+`)
	sentenceEnd = regexp.MustCompile(`[.;:!?](?:\s|$)`)
	clauseEnd   = regexp.MustCompile(`[,.;:!?](?:\s|$)`)
)

const (
	titleTrailing = ",.;:!?-–— \"'"
	ellipsis      = "…"
)

// RewriteTitle turns evidence text into a short imperative-style title.
func (e *Extractor) RewriteTitle(text string) string {
	text = normalizeWhitespace(text)
	if text == "" {
		return ""
	}

	clause := ""
	for _, cue := range titleCues {
		loc := cue.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		end := sentenceEnd
		if cue.cutAtComma {
			end = clauseEnd
		}
		if clause = cutAt(text[loc[1]:], end); clause != "" {
			break
		}
	}
	if clause == "" {
		clause = cutAt(leadingWe.ReplaceAllString(text, ""), clauseEnd)
	}
	if clause == "" {
		clause = cutAt(text, clauseEnd)
	}

	title := limitTitle(clause, e.opts.MaxTitleWords, e.opts.MaxTitleChars)
	return capitalizeFirst(title)
}

// cutAt returns s up to the first match of boundary, trimmed of trailing
// punctuation.
func cutAt(s string, boundary *regexp.Regexp) string {
	if loc := boundary.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimRight(strings.TrimSpace(s), titleTrailing)
}

// limitTitle keeps at most maxWords words and maxChars runes, cutting on
// word boundaries. A truncated title ends with an ellipsis that counts
// towards maxChars.
func limitTitle(s string, maxWords, maxChars int) string {
	words := strings.Fields(s)
	out := strings.Join(words, " ")
	if len(words) <= maxWords && utf8.RuneCountInString(out) <= maxChars {
		return out
	}

	if len(words) > maxWords {
		words = words[:maxWords]
	}
	budget := maxChars - utf8.RuneCountInString(ellipsis)
	for len(words) > 1 && utf8.RuneCountInString(strings.Join(words, " ")) > budget {
		words = words[:len(words)-1]
	}
	out = strings.Join(words, " ")
	if runes := []rune(out); len(runes) > budget {
		out = string(runes[:budget])
	}
	return strings.TrimRight(out, titleTrailing) + ellipsis
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
