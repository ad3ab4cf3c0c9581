// Package types provides type definitions for structured data used throughout the decision extraction system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PageText is one page of raw document text as produced by a page loader.
// FileName is empty when the source has no name.
type PageText struct {
	FileName   string `json:"fileName,omitempty"`
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
}

// CleanedPage holds the lines of a page that survived cleaning.
// RawLines[i] is the original, untrimmed line that produced Lines[i].
type CleanedPage struct {
	FileName   string   `json:"fileName,omitempty"`
	PageNumber int      `json:"pageNumber"`
	Lines      []string `json:"lines"`
	RawLines   []string `json:"rawLines,omitempty"`
}

// Segment is a sentence-level unit of analysis cut from a cleaned line.
type Segment struct {
	FileName       string `json:"fileName,omitempty"`
	PageNumber     int    `json:"pageNumber"`
	Text           string `json:"text"`
	RawExcerpt     string `json:"rawExcerpt"`
	IsRepeatedLine bool   `json:"isRepeatedLine"`
}

// DecisionSource is an evidence anchor pointing at where a candidate was found.
type DecisionSource struct {
	FileName   string `json:"fileName,omitempty"`
	PageNumber int    `json:"pageNumber"`
	Excerpt    string `json:"excerpt"`
}

// DecisionCandidate is a forward-looking commitment statement proposed for human review.
type DecisionCandidate struct {
	ID                string           `json:"id"`
	DecisionTitle     string           `json:"decisionTitle"`
	Evidence          string           `json:"evidence"`
	Sources           []DecisionSource `json:"sources"`
	Score             int              `json:"score"`
	ExtractConfidence float64          `json:"extractConfidence"`
}

// HasSource reports whether src is already an anchor of the candidate.
func (c *DecisionCandidate) HasSource(src DecisionSource) bool {
	for _, existing := range c.Sources {
		if existing == src {
			return true
		}
	}
	return false
}

// ExtractionDebug carries diagnostic counters for one extraction run.
type ExtractionDebug struct {
	PagesParsed              int  `json:"pagesParsed"`
	RawLinesCount            int  `json:"rawLinesCount"`
	SentencesCount           int  `json:"sentencesCount"`
	CandidatesBeforeDedupe   int  `json:"candidatesBeforeDedupe"`
	CandidatesAfterDedupe    int  `json:"candidatesAfterDedupe"`
	CandidatesAfterFiltering int  `json:"candidatesAfterFiltering"`
	FallbackUsed             bool `json:"fallbackUsed"`
	DocumentsProcessed       int  `json:"documentsProcessed"`
	PersonalMemoDocuments    int  `json:"personalMemoDocuments"`
}

// Add accumulates the per-document counters of other into d.
// Fields decided at run level (filtering, fallback) are left alone.
func (d *ExtractionDebug) Add(other ExtractionDebug) {
	d.PagesParsed += other.PagesParsed
	d.RawLinesCount += other.RawLinesCount
	d.SentencesCount += other.SentencesCount
	d.CandidatesBeforeDedupe += other.CandidatesBeforeDedupe
	d.CandidatesAfterDedupe += other.CandidatesAfterDedupe
	d.DocumentsProcessed += other.DocumentsProcessed
	d.PersonalMemoDocuments += other.PersonalMemoDocuments
}

// DocumentSummary describes how a single source document was processed.
type DocumentSummary struct {
	FileName      string `json:"fileName,omitempty"`
	Pages         int    `json:"pages"`
	PersonalMemo  bool   `json:"personalMemo"`
	RepeatedLines int    `json:"repeatedLines"`
	Candidates    int    `json:"candidates"`
}

// ExtractionResult is the output of the extraction pipeline.
type ExtractionResult struct {
	Candidates []DecisionCandidate `json:"candidates"`
	Debug      ExtractionDebug     `json:"debug"`
	Documents  []DocumentSummary   `json:"documents,omitempty"`
}
