package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/dnav/internal/types"
)

// minEmbeddedRepeatLen is the shortest repeated line that flags a segment
// merely by appearing inside it.
const minEmbeddedRepeatLen = 24

// Segment splits every cleaned line into sentence-like segments. Segments
// keep their page provenance and the trimmed raw line as excerpt; they are
// not deduplicated here.
func (e *Extractor) Segment(cleaned []types.CleanedPage, repeated RepeatedLines) []types.Segment {
	var segments []types.Segment
	for _, page := range cleaned {
		for i, line := range page.Lines {
			excerpt := line
			if i < len(page.RawLines) {
				excerpt = strings.TrimSpace(page.RawLines[i])
			}
			lineRepeated := repeated.Has(line)
			for _, text := range splitSentences(line) {
				segments = append(segments, types.Segment{
					FileName:       page.FileName,
					PageNumber:     page.PageNumber,
					Text:           text,
					RawExcerpt:     excerpt,
					IsRepeatedLine: lineRepeated || repeated.Has(text) || repeated.embeddedIn(text, minEmbeddedRepeatLen),
				})
			}
		}
	}
	return segments
}

// splitSentences cuts line after each '.', ';', ':', '!' or '?' that is
// followed by whitespace or ends the line. Delimiters stay with the
// preceding piece.
func splitSentences(line string) []string {
	var out []string
	start := 0
	for i, r := range line {
		if !isSentenceDelimiter(r) {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next < len(line) {
			nr, _ := utf8.DecodeRuneInString(line[next:])
			if !unicode.IsSpace(nr) {
				continue
			}
		}
		if piece := strings.TrimSpace(line[start:next]); piece != "" {
			out = append(out, piece)
		}
		start = next
	}
	if piece := strings.TrimSpace(line[start:]); piece != "" {
		out = append(out, piece)
	}
	return out
}

func isSentenceDelimiter(r rune) bool {
	switch r {
	case '.', ';', ':', '!', '?':
		return true
	}
	return false
}
