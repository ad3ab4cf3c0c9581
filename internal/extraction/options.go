// Package extraction turns noisy multi-page document text into a ranked,
// deduplicated list of decision candidates.
//
// The pipeline is per document: Clean, DetectRepeated, Segment, filter,
// Score, RewriteTitle and Dedupe, followed by a run-level assembly step in
// Extract. Every stage is a pure function of its inputs; document-scoped
// state (the repeated-line set and the personal-memo flag) is passed
// explicitly.
package extraction

import (
	"fmt"
	"runtime"

	"github.com/jonathan/dnav/internal/rules"
	"github.com/jonathan/dnav/internal/types"
	"go.uber.org/zap"
)

// Default tunables.
const (
	MinSegmentLength    = 40
	MaxSegmentLength    = 240
	RepeatedLineShare   = 0.4
	ScoreThreshold      = 25
	MinCandidateFloor   = 30
	DuplicateSimilarity = 0.86
	MaxTitleWords       = 10
	MaxTitleChars       = 80
)

// Options configures an Extractor. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	MinSegmentLength    int
	MaxSegmentLength    int
	RepeatedLineShare   float64
	ScoreThreshold      int
	MinCandidateFloor   int
	DuplicateSimilarity float64
	MaxTitleWords       int
	MaxTitleChars       int
	// Parallelism bounds how many documents are processed at once.
	Parallelism int
	Rules       *rules.RuleSet
}

// DefaultOptions returns the default tunables with the default rule set.
func DefaultOptions() Options {
	return Options{
		MinSegmentLength:    MinSegmentLength,
		MaxSegmentLength:    MaxSegmentLength,
		RepeatedLineShare:   RepeatedLineShare,
		ScoreThreshold:      ScoreThreshold,
		MinCandidateFloor:   MinCandidateFloor,
		DuplicateSimilarity: DuplicateSimilarity,
		MaxTitleWords:       MaxTitleWords,
		MaxTitleChars:       MaxTitleChars,
		Parallelism:         runtime.NumCPU(),
		Rules:               rules.Default(),
	}
}

// Validate reports the first inconsistent option.
func (o Options) Validate() error {
	switch {
	case o.MinSegmentLength < 1:
		return fmt.Errorf("min segment length must be positive, got %d", o.MinSegmentLength)
	case o.MaxSegmentLength < o.MinSegmentLength:
		return fmt.Errorf("max segment length %d is below min segment length %d", o.MaxSegmentLength, o.MinSegmentLength)
	case o.RepeatedLineShare <= 0 || o.RepeatedLineShare > 1:
		return fmt.Errorf("repeated line share must be in (0, 1], got %v", o.RepeatedLineShare)
	case o.MinCandidateFloor < 0:
		return fmt.Errorf("min candidate floor must not be negative, got %d", o.MinCandidateFloor)
	case o.DuplicateSimilarity <= 0 || o.DuplicateSimilarity > 1:
		return fmt.Errorf("duplicate similarity must be in (0, 1], got %v", o.DuplicateSimilarity)
	case o.MaxTitleWords < 1 || o.MaxTitleChars < 2:
		return fmt.Errorf("title limits too small: %d words, %d chars", o.MaxTitleWords, o.MaxTitleChars)
	case o.Parallelism < 1:
		return fmt.Errorf("parallelism must be positive, got %d", o.Parallelism)
	case o.Rules == nil:
		return fmt.Errorf("rule set is required")
	}
	return nil
}

// Extractor runs the extraction pipeline with a fixed set of options.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	opts   Options
	rules  *rules.RuleSet
	logger *zap.Logger
}

// NewExtractor creates an Extractor. Invalid options fall back to their
// defaults field by field; a nil logger is replaced with a no-op logger.
func NewExtractor(opts Options, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = withDefaults(opts)
	return &Extractor{opts: opts, rules: opts.Rules, logger: logger}
}

// Options returns the effective options.
func (e *Extractor) Options() Options {
	return e.opts
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.MinSegmentLength < 1 {
		opts.MinSegmentLength = def.MinSegmentLength
	}
	if opts.MaxSegmentLength < opts.MinSegmentLength {
		opts.MaxSegmentLength = def.MaxSegmentLength
	}
	if opts.RepeatedLineShare <= 0 || opts.RepeatedLineShare > 1 {
		opts.RepeatedLineShare = def.RepeatedLineShare
	}
	if opts.MinCandidateFloor < 0 {
		opts.MinCandidateFloor = def.MinCandidateFloor
	}
	if opts.DuplicateSimilarity <= 0 || opts.DuplicateSimilarity > 1 {
		opts.DuplicateSimilarity = def.DuplicateSimilarity
	}
	if opts.MaxTitleWords < 1 {
		opts.MaxTitleWords = def.MaxTitleWords
	}
	if opts.MaxTitleChars < 2 {
		opts.MaxTitleChars = def.MaxTitleChars
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = def.Parallelism
	}
	if opts.Rules == nil {
		opts.Rules = def.Rules
	}
	return opts
}

var defaultExtractor = NewExtractor(DefaultOptions(), zap.NewNop())

// Clean runs Extractor.Clean with default options.
func Clean(pages []types.PageText, repeated RepeatedLines) []types.CleanedPage {
	return defaultExtractor.Clean(pages, repeated)
}

// DetectRepeated runs Extractor.DetectRepeated with default options.
func DetectRepeated(pages []types.PageText) RepeatedLines {
	return defaultExtractor.DetectRepeated(pages)
}

// Segment runs Extractor.Segment with default options.
func Segment(cleaned []types.CleanedPage, repeated RepeatedLines) []types.Segment {
	return defaultExtractor.Segment(cleaned, repeated)
}

// Passes runs Extractor.Passes with default options.
func Passes(text string, ctx FilterContext) bool {
	return defaultExtractor.Passes(text, ctx)
}

// Evaluate runs Extractor.Evaluate with default options.
func Evaluate(text string, ctx FilterContext) (bool, Rejection) {
	return defaultExtractor.Evaluate(text, ctx)
}

// Score runs Extractor.Score with default options.
func Score(text string, ctx ScoreContext) int {
	return defaultExtractor.Score(text, ctx)
}

// RewriteTitle runs Extractor.RewriteTitle with default options.
func RewriteTitle(text string) string {
	return defaultExtractor.RewriteTitle(text)
}

// Dedupe runs Extractor.Dedupe with default options.
func Dedupe(candidates []types.DecisionCandidate) []types.DecisionCandidate {
	return defaultExtractor.Dedupe(candidates)
}

// Extract runs Extractor.Extract with default options.
func Extract(pages []types.PageText) types.ExtractionResult {
	return defaultExtractor.Extract(pages)
}
