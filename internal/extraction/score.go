package extraction

import "math"

// ScoreContext is the per-segment input to the scorer.
type ScoreContext struct {
	IsPersonalMemo bool
	IsRepeatedLine bool
}

// Score weights.
const (
	WeightCommitment = 20
	WeightTimeline   = 15
	WeightConstraint = 8
	WeightObject     = 10
	WeightDomainNoun = 8
	WeightProduct    = 6
	WeightFullSignal = 12

	PenaltyBoilerplate      = -30
	PenaltyDigitRatio       = -15
	PenaltyTableLike        = -20
	PenaltyDescriptive      = -15
	PenaltyRisk             = -18
	PenaltyFluff            = -12
	PenaltyHedge            = -10
	PenaltyRepeatedLine     = -25
	PenaltyMemoNoConstraint = -10
)

// maxScore is the sum of every positive weight.
const maxScore = WeightCommitment + WeightTimeline + WeightConstraint + WeightObject +
	WeightDomainNoun + WeightProduct + WeightFullSignal

const scoreDigitRatio = 0.15

// Score rates how strongly text reads as a trackable commitment. It is a
// pure function of text and ctx.
func (e *Extractor) Score(text string, ctx ScoreContext) int {
	r := e.rules
	verb := r.HasCommitmentVerb(text)
	commitment := verb || r.HasPlanLanguage(text)
	timeline := r.HasTimelineCue(text)
	constraint := r.HasConstraintCue(text)
	object := commitment && e.hasClearObject(text)

	score := 0
	if commitment {
		score += WeightCommitment
	}
	if timeline {
		score += WeightTimeline
	}
	if constraint {
		score += WeightConstraint
	}
	if object {
		score += WeightObject
	}
	if r.HasDomainNoun(text) {
		score += WeightDomainNoun
	}
	if r.HasProductName(text) {
		score += WeightProduct
	}
	if commitment && timeline && object {
		score += WeightFullSignal
	}

	if r.HasBoilerplatePhrase(text) {
		score += PenaltyBoilerplate
	}
	if digitRatio(text) > scoreDigitRatio {
		score += PenaltyDigitRatio
	}
	if isTableLike(text) && !(verb && timeline) {
		score += PenaltyTableLike
	}
	if r.IsDescriptive(text) {
		score += PenaltyDescriptive
	}
	if r.HasRiskLanguage(text) {
		score += PenaltyRisk
	}
	if r.HasInvestorFluff(text) {
		score += PenaltyFluff
	}
	if r.HasHedge(text) {
		score += PenaltyHedge
	}
	if ctx.IsRepeatedLine {
		score += PenaltyRepeatedLine
	}
	if ctx.IsPersonalMemo && !constraint {
		score += PenaltyMemoNoConstraint
	}
	return score
}

// Confidence maps a score onto [0, 1], rounded to two decimals.
func Confidence(score int) float64 {
	c := float64(score) / float64(maxScore)
	c = math.Max(0, math.Min(1, c))
	return math.Round(c*100) / 100
}
