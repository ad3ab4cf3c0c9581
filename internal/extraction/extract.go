package extraction

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/dnav/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// document is one source file's pages, in input order.
type document struct {
	fileName string
	pages    []types.PageText
}

type documentResult struct {
	candidates []types.DecisionCandidate
	debug      types.ExtractionDebug
	summary    types.DocumentSummary
}

// Extract runs the full pipeline. Pages are grouped by file name in
// first-appearance order and each document is processed independently;
// the merged list is sorted by score (desc) then evidence length (asc) and
// cut at the score threshold, relaxed to the candidate floor when too few
// candidates clear it. Extract never fails; empty input yields an empty
// result with zero counters.
func (e *Extractor) Extract(pages []types.PageText) types.ExtractionResult {
	start := time.Now()
	docs := groupByFile(pages)
	results := make([]documentResult, len(docs))

	g := new(errgroup.Group)
	g.SetLimit(e.opts.Parallelism)
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = e.processDocument(doc)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	result := types.ExtractionResult{Candidates: []types.DecisionCandidate{}}
	var all []types.DecisionCandidate
	for _, r := range results {
		all = append(all, r.candidates...)
		result.Debug.Add(r.debug)
		result.Documents = append(result.Documents, r.summary)
	}

	sortCandidates(all)
	selected, fallback := e.applyThreshold(all)
	result.Candidates = append(result.Candidates, selected...)
	result.Debug.CandidatesAfterFiltering = len(result.Candidates)
	result.Debug.FallbackUsed = fallback

	e.logger.Info("extraction complete",
		zap.Int("documents", result.Debug.DocumentsProcessed),
		zap.Int("pages", result.Debug.PagesParsed),
		zap.Int("segments", result.Debug.SentencesCount),
		zap.Int("candidates", len(result.Candidates)),
		zap.Bool("fallback", fallback),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}

func (e *Extractor) processDocument(doc document) documentResult {
	res := documentResult{
		summary: types.DocumentSummary{FileName: doc.fileName},
	}
	for _, p := range doc.pages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		res.debug.PagesParsed++
		for _, line := range splitLines(p.Text) {
			if strings.TrimSpace(line) != "" {
				res.debug.RawLinesCount++
			}
		}
	}
	res.summary.Pages = res.debug.PagesParsed
	if res.debug.PagesParsed == 0 {
		return res
	}
	res.debug.DocumentsProcessed = 1

	repeated := e.DetectRepeated(doc.pages)
	memo := e.IsPersonalMemo(doc.pages)
	if memo {
		res.debug.PersonalMemoDocuments = 1
	}
	res.summary.PersonalMemo = memo
	res.summary.RepeatedLines = len(repeated)

	segments := e.Segment(e.Clean(doc.pages, repeated), repeated)
	res.debug.SentencesCount = len(segments)

	var candidates []types.DecisionCandidate
	for _, seg := range segments {
		if !e.Passes(seg.Text, FilterContext{IsPersonalMemo: memo}) {
			continue
		}
		score := e.Score(seg.Text, ScoreContext{IsPersonalMemo: memo, IsRepeatedLine: seg.IsRepeatedLine})
		candidates = append(candidates, types.DecisionCandidate{
			ID:            candidateID(doc.fileName, seg.Text),
			DecisionTitle: e.RewriteTitle(seg.Text),
			Evidence:      seg.Text,
			Sources: []types.DecisionSource{{
				FileName:   seg.FileName,
				PageNumber: seg.PageNumber,
				Excerpt:    seg.RawExcerpt,
			}},
			Score:             score,
			ExtractConfidence: Confidence(score),
		})
	}
	res.debug.CandidatesBeforeDedupe = len(candidates)

	res.candidates = e.Dedupe(candidates)
	res.debug.CandidatesAfterDedupe = len(res.candidates)
	res.summary.Candidates = len(res.candidates)

	e.logger.Debug("document processed",
		zap.String("file", doc.fileName),
		zap.Int("pages", res.debug.PagesParsed),
		zap.Int("repeated_lines", len(repeated)),
		zap.Bool("personal_memo", memo),
		zap.Int("segments", len(segments)),
		zap.Int("candidates_before_dedupe", res.debug.CandidatesBeforeDedupe),
		zap.Int("candidates_after_dedupe", res.debug.CandidatesAfterDedupe),
	)
	return res
}

// applyThreshold keeps candidates at or above the score threshold. When
// fewer than the floor survive, the top min(floor, len) are kept instead.
func (e *Extractor) applyThreshold(sorted []types.DecisionCandidate) ([]types.DecisionCandidate, bool) {
	var kept []types.DecisionCandidate
	for _, c := range sorted {
		if c.Score >= e.opts.ScoreThreshold {
			kept = append(kept, c)
		}
	}
	if len(kept) >= e.opts.MinCandidateFloor {
		return kept, false
	}
	n := min(e.opts.MinCandidateFloor, len(sorted))
	if n <= len(kept) {
		return kept, false
	}
	return sorted[:n], true
}

func sortCandidates(candidates []types.DecisionCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return utf8.RuneCountInString(candidates[i].Evidence) < utf8.RuneCountInString(candidates[j].Evidence)
	})
}

func groupByFile(pages []types.PageText) []document {
	var docs []document
	index := make(map[string]int)
	for _, p := range pages {
		i, ok := index[p.FileName]
		if !ok {
			i = len(docs)
			index[p.FileName] = i
			docs = append(docs, document{fileName: p.FileName})
		}
		docs[i].pages = append(docs[i].pages, p)
	}
	return docs
}
