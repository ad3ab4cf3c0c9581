package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// RuleSet is a compiled, immutable set of cue matchers. It is safe for
// concurrent use.
type RuleSet struct {
	commitment  *regexp.Regexp
	plan        *regexp.Regexp
	timeline    []*regexp.Regexp
	constraint  *regexp.Regexp
	boilerplate []string
	hedge       *regexp.Regexp
	hedgeWords  *regexp.Regexp
	descriptive *regexp.Regexp
	capability  *regexp.Regexp
	rollout     *regexp.Regexp
	trivial     *regexp.Regexp
	risk        *regexp.Regexp
	fluff       *regexp.Regexp
	domain      *regexp.Regexp

	commonCapitalized map[string]bool
	firstPerson       map[string]bool
}

// Compile builds a RuleSet from lists. It fails only on an invalid timeline
// pattern.
func Compile(lists Lists) (*RuleSet, error) {
	rs := &RuleSet{
		commitment:        phraseRegexp(lists.CommitmentVerbs, true),
		plan:              phraseRegexp(lists.PlanPhrases, true),
		constraint:        phraseRegexp(lists.ConstraintPhrases, true),
		hedge:             phraseRegexp(lists.HedgePhrases, true),
		hedgeWords:        phraseRegexp(lists.HedgeWords, false),
		descriptive:       phraseRegexp(lists.DescriptiveTerms, true),
		capability:        phraseRegexp(lists.CapabilityTerms, true),
		rollout:           phraseRegexp(lists.RolloutVerbs, true),
		trivial:           phraseRegexp(lists.TrivialActions, true),
		risk:              phraseRegexp(lists.RiskPhrases, true),
		fluff:             phraseRegexp(lists.FluffPhrases, true),
		domain:            phraseRegexp(lists.DomainNouns, true),
		commonCapitalized: make(map[string]bool, len(lists.CommonCapitalized)),
		firstPerson:       make(map[string]bool, len(lists.FirstPersonWords)),
	}

	for _, pattern := range lists.TimelinePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid timeline pattern %q: %w", pattern, err)
		}
		rs.timeline = append(rs.timeline, re)
	}

	for _, term := range lists.BoilerplateTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			rs.boilerplate = append(rs.boilerplate, term)
		}
	}
	for _, word := range lists.CommonCapitalized {
		rs.commonCapitalized[word] = true
	}
	for _, word := range lists.FirstPersonWords {
		rs.firstPerson[strings.ToLower(word)] = true
	}

	return rs, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(lists Lists) *RuleSet {
	rs, err := Compile(lists)
	if err != nil {
		panic(err)
	}
	return rs
}

var defaultRuleSet = MustCompile(DefaultLists())

// Default returns the RuleSet compiled from DefaultLists.
func Default() *RuleSet {
	return defaultRuleSet
}

// phraseRegexp compiles phrases into a single word-bounded alternation.
// Longer phrases are tried first so "plan to" wins over "plan". A nil
// result never matches.
func phraseRegexp(phrases []string, foldCase bool) *regexp.Regexp {
	parts := make([]string, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for _, phrase := range phrases {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" || seen[phrase] {
			continue
		}
		seen[phrase] = true
		words := strings.Fields(phrase)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		parts = append(parts, strings.Join(words, `\s+`))
	}
	if len(parts) == 0 {
		return nil
	}
	sortByLengthDesc(parts)

	prefix := ""
	if foldCase {
		prefix = "(?i)"
	}
	return regexp.MustCompile(prefix + `\b(?:` + strings.Join(parts, "|") + `)\b`)
}

func sortByLengthDesc(parts []string) {
	// insertion sort keeps equal-length phrases in list order
	for i := 1; i < len(parts); i++ {
		for j := i; j > 0 && len(parts[j]) > len(parts[j-1]); j-- {
			parts[j], parts[j-1] = parts[j-1], parts[j]
		}
	}
}

func matches(re *regexp.Regexp, text string) bool {
	return re != nil && re.MatchString(text)
}

// HasCommitmentVerb reports whether text contains a commitment verb.
func (r *RuleSet) HasCommitmentVerb(text string) bool { return matches(r.commitment, text) }

// CommitmentMatches returns the [start, end) offsets of every commitment
// verb and plan phrase in text, in order of appearance.
func (r *RuleSet) CommitmentMatches(text string) [][]int {
	var locs [][]int
	if r.commitment != nil {
		locs = append(locs, r.commitment.FindAllStringIndex(text, -1)...)
	}
	if r.plan != nil {
		locs = append(locs, r.plan.FindAllStringIndex(text, -1)...)
	}
	// small n; keep it simple
	for i := 1; i < len(locs); i++ {
		for j := i; j > 0 && locs[j][0] < locs[j-1][0]; j-- {
			locs[j], locs[j-1] = locs[j-1], locs[j]
		}
	}
	return locs
}

// HasPlanLanguage reports explicit plan/target wording.
func (r *RuleSet) HasPlanLanguage(text string) bool { return matches(r.plan, text) }

// HasTimelineCue reports whether text names a bounded time horizon.
func (r *RuleSet) HasTimelineCue(text string) bool {
	for _, re := range r.timeline {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// HasConstraintCue reports dependency or capacity wording.
func (r *RuleSet) HasConstraintCue(text string) bool { return matches(r.constraint, text) }

// HasBoilerplatePhrase reports whether text contains a stop phrase.
func (r *RuleSet) HasBoilerplatePhrase(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range r.boilerplate {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// HasHedge reports hedging modals.
func (r *RuleSet) HasHedge(text string) bool {
	return matches(r.hedge, text) || matches(r.hedgeWords, text)
}

// IsDescriptive reports descriptive phrasing ("includes", "is designed to").
func (r *RuleSet) IsDescriptive(text string) bool { return matches(r.descriptive, text) }

// IsCapabilityOnly reports capability wording with no rollout verb.
func (r *RuleSet) IsCapabilityOnly(text string) bool {
	return matches(r.capability, text) && !matches(r.rollout, text)
}

// IsTrivialPersonal reports everyday personal actions.
func (r *RuleSet) IsTrivialPersonal(text string) bool { return matches(r.trivial, text) }

// HasRiskLanguage reports risk-enumeration wording.
func (r *RuleSet) HasRiskLanguage(text string) bool { return matches(r.risk, text) }

// HasInvestorFluff reports promotional investor-relations wording.
func (r *RuleSet) HasInvestorFluff(text string) bool { return matches(r.fluff, text) }

// HasDomainNoun reports capacity or operations nouns.
func (r *RuleSet) HasDomainNoun(text string) bool { return matches(r.domain, text) }

// HasProductName reports a capitalized, non-common token after the first
// word, e.g. "Cybertruck" or "H100".
func (r *RuleSet) HasProductName(text string) bool {
	tokens := strings.Fields(text)
	for i := 1; i < len(tokens); i++ {
		token := strings.TrimFunc(tokens[i], func(c rune) bool {
			return !unicode.IsLetter(c) && !unicode.IsDigit(c)
		})
		if len([]rune(token)) < 3 || r.commonCapitalized[token] {
			continue
		}
		if isProductToken(token) {
			return true
		}
	}
	return false
}

func isProductToken(token string) bool {
	runes := []rune(token)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	hasLower, hasDigit := false, false
	for _, c := range runes[1:] {
		switch {
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsUpper(c), c == '-':
		default:
			return false
		}
	}
	return hasLower || hasDigit
}

// IsFirstPerson reports whether a lower-cased word is a first-person
// singular pronoun.
func (r *RuleSet) IsFirstPerson(word string) bool { return r.firstPerson[word] }
