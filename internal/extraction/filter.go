package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// FilterContext is the document-scoped input to the candidate filter.
type FilterContext struct {
	IsPersonalMemo bool
}

// Rejection names the rule that rejected a segment. The empty value means
// the segment passed.
type Rejection string

const (
	RejectNone            Rejection = ""
	RejectTooShort        Rejection = "too_short"
	RejectTooLong         Rejection = "too_long"
	RejectBoilerplate     Rejection = "boilerplate"
	RejectTableNoise      Rejection = "table_noise"
	RejectNoCommitment    Rejection = "no_commitment_cue"
	RejectNoClearObject   Rejection = "no_clear_object"
	RejectDescriptive     Rejection = "descriptive_only"
	RejectCapabilityOnly  Rejection = "capability_only"
	RejectHedged          Rejection = "hedged_without_commitment"
	RejectTrivialPersonal Rejection = "trivial_personal_action"
	RejectMemoConstraint  Rejection = "memo_missing_constraint"
)

const (
	filterDigitRatio = 0.25
	minObjectChars   = 8
)

var (
	// verbObject approximates a subject followed by an action and its
	// object, for segments with a timeline but no listed commitment verb.
	verbObject     = regexp.MustCompile(`(?i)\b(?:we|i|our team|the company|management)\s+(?:\w+ly\s+)?[a-z]{3,}\s+[^,.;:!?]{8,}`)
	clauseBoundary = regexp.MustCompile(`[,.;:!?]`)
)

// Passes reports whether text qualifies as a decision candidate.
func (e *Extractor) Passes(text string, ctx FilterContext) bool {
	ok, _ := e.Evaluate(text, ctx)
	return ok
}

// Evaluate is Passes with the reason for a rejection.
func (e *Extractor) Evaluate(text string, ctx FilterContext) (bool, Rejection) {
	text = strings.TrimSpace(text)
	n := utf8.RuneCountInString(text)
	if n < e.opts.MinSegmentLength {
		return false, RejectTooShort
	}
	if n > e.opts.MaxSegmentLength {
		return false, RejectTooLong
	}

	r := e.rules
	if r.HasBoilerplatePhrase(text) {
		return false, RejectBoilerplate
	}

	verb := r.HasCommitmentVerb(text)
	plan := r.HasPlanLanguage(text)
	timeline := r.HasTimelineCue(text)

	if digitRatio(text) > filterDigitRatio || (isTableLike(text) && !(verb && timeline)) {
		return false, RejectTableNoise
	}

	rescued := timeline && verbObject.MatchString(text)
	if !verb && !plan && !rescued {
		return false, RejectNoCommitment
	}
	if (verb || plan) && !rescued && !e.hasClearObject(text) {
		return false, RejectNoClearObject
	}

	if !verb {
		if r.IsDescriptive(text) {
			return false, RejectDescriptive
		}
		if r.IsCapabilityOnly(text) {
			return false, RejectCapabilityOnly
		}
		if r.HasHedge(text) {
			return false, RejectHedged
		}
	}

	if ctx.IsPersonalMemo {
		if r.IsTrivialPersonal(text) {
			return false, RejectTrivialPersonal
		}
		if !verb || !r.HasConstraintCue(text) {
			return false, RejectMemoConstraint
		}
	}
	return true, RejectNone
}

// hasClearObject reports whether some commitment or plan cue is followed by
// at least minObjectChars of text before the next clause boundary.
func (e *Extractor) hasClearObject(text string) bool {
	for _, loc := range e.rules.CommitmentMatches(text) {
		rest := text[loc[1]:]
		if b := clauseBoundary.FindStringIndex(rest); b != nil {
			rest = rest[:b[0]]
		}
		if utf8.RuneCountInString(strings.TrimSpace(rest)) >= minObjectChars {
			return true
		}
	}
	return false
}
