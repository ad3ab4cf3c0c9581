// Package rules holds the lexical cue lists that drive decision extraction.
//
// Lists are plain ordered data. Compile turns them into matchers; the
// extraction package only ever asks questions of a compiled RuleSet.
package rules

// Lists is the raw, uncompiled form of every cue list.
//
// Phrase lists are matched case-insensitively on word boundaries, with any
// run of whitespace between words. Pattern lists are Go regular expressions.
type Lists struct {
	CommitmentVerbs   []string `json:"commitment_verbs" koanf:"commitment_verbs"`
	PlanPhrases       []string `json:"plan_phrases" koanf:"plan_phrases"`
	TimelinePatterns  []string `json:"timeline_patterns" koanf:"timeline_patterns"`
	ConstraintPhrases []string `json:"constraint_phrases" koanf:"constraint_phrases"`
	BoilerplateTerms  []string `json:"boilerplate_terms" koanf:"boilerplate_terms"`
	HedgePhrases      []string `json:"hedge_phrases" koanf:"hedge_phrases"`
	HedgeWords        []string `json:"hedge_words" koanf:"hedge_words"` // case-sensitive, so "May 2025" is not a hedge
	DescriptiveTerms  []string `json:"descriptive_terms" koanf:"descriptive_terms"`
	CapabilityTerms   []string `json:"capability_terms" koanf:"capability_terms"`
	RolloutVerbs      []string `json:"rollout_verbs" koanf:"rollout_verbs"`
	TrivialActions    []string `json:"trivial_actions" koanf:"trivial_actions"`
	RiskPhrases       []string `json:"risk_phrases" koanf:"risk_phrases"`
	FluffPhrases      []string `json:"fluff_phrases" koanf:"fluff_phrases"`
	DomainNouns       []string `json:"domain_nouns" koanf:"domain_nouns"`
	CommonCapitalized []string `json:"common_capitalized" koanf:"common_capitalized"`
	FirstPersonWords  []string `json:"first_person_words" koanf:"first_person_words"`
}

// DefaultLists returns the canonical cue lists.
func DefaultLists() Lists {
	return Lists{
		CommitmentVerbs: []string{
			"will", "shall", "won't",
			"plan to", "plans to", "planning to",
			"intend to", "intends to", "intending to",
			"expect to", "expects to",
			"aim to", "aims to",
			"target to", "targets to",
			"are going to", "is going to", "am going to",
			"scheduled to", "on schedule to", "set to",
			"commit to", "decided to", "have decided to",
			"launch", "launching",
			"roll out", "rolling out",
			"expand", "expanding into",
			"invest", "investing in",
			"discontinue", "discontinuing",
			"phase out", "wind down",
			"begin", "start", "introduce", "deploy",
			"open", "build", "hire", "acquire", "divest",
			"ramp up", "double", "triple",
		},
		PlanPhrases: []string{
			"plan", "plans", "roadmap",
			"target", "targets", "targeting",
			"goal", "on track", "guidance", "milestone",
		},
		TimelinePatterns: []string{
			`(?i)\b(?:Q[1-4]|[1-4]Q|H[12]|FY)\s*'?\d{2,4}\b`,
			`(?i)\bfiscal(?:\s+year)?\s+'?\d{2,4}\b`,
			`\b20[2-4]\d\b`,
			`(?i)\b(?:by|before|until|through|in|during|at|starting|beginning)\s+(?:the\s+)?(?:end|start|beginning|middle|close|first\s+half|second\s+half)\s+of\b`,
			`(?i)\b(?:this|next|coming|following)\s+(?:year|quarter|month|week|fiscal\s+year|season|summer|spring|fall|winter)\b`,
			`(?i)\b(?:end\s+of|later\s+this|early|mid|late)[\s-](?:the\s+)?(?:year|quarter|month|decade|20\d{2})\b`,
			`(?i)\bwithin\s+(?:the\s+)?(?:next\s+)?\d+\s+(?:days|weeks|months|years|quarters)\b`,
			`(?i)\b(?:over\s+the\s+next|in\s+the\s+next)\s+(?:\w+\s+)?(?:days|weeks|months|years|quarters)\b`,
			`\b(?:January|February|March|April|June|July|August|September|October|November|December)\b`,
			`\bMay\s+\d{1,4}\b`,
			`(?i)\b(?:tomorrow|tonight|next\s+week|next\s+month|by\s+(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday))\b`,
			`(?i)\b(?:year[\s-]end|quarter[\s-]end|year[\s-]over[\s-]year)\b`,
		},
		ConstraintPhrases: []string{
			"pending", "subject to", "capacity",
			"constrained", "constraint", "constraints",
			"depends on", "dependent on", "depending on", "contingent on", "contingent upon",
			"provided that", "assuming", "once", "until",
			"budget", "approval", "approved", "requires", "required", "dependency", "bottleneck",
			"if we", "as long as",
		},
		BoilerplateTerms: []string{
			"forward-looking statements", "forward looking statements", "forward-looking statement",
			"safe harbor", "private securities litigation reform act",
			"undue reliance", "undertake no obligation", "no obligation to update",
			"except as required by law", "incorporated by reference",
			"securities and exchange commission", "form 10-k", "form 10-q", "form 8-k",
			"risk factors", "non-gaap", "gaap", "reconciliation of",
			"depreciation and amortization", "basic and diluted", "weighted average shares",
			"this presentation contains", "this press release contains",
			"all rights reserved", "for informational purposes only",
		},
		HedgePhrases: []string{
			"might", "could", "subject to", "possibly", "potentially", "perhaps",
		},
		HedgeWords: []string{"may"},
		DescriptiveTerms: []string{
			"includes", "is designed to", "are designed to", "was designed to",
			"consists of", "is comprised of", "refers to", "is defined as",
			"represents", "is a leading", "is known for",
		},
		CapabilityTerms: []string{
			"is able to", "are able to", "is now able to", "are now able to",
			"is capable of", "are capable of",
			"has the ability to", "have the ability to",
			"has the capability to", "can now",
		},
		RolloutVerbs: []string{
			"launch", "roll out", "rolling out", "deploy", "ship", "release",
			"begin", "start", "introduce", "make available", "go live",
		},
		TrivialActions: []string{
			"coffee", "gym", "lunch", "dinner", "breakfast", "groceries", "grocery",
			"laundry", "workout", "haircut", "nap", "walk the dog", "netflix", "dentist",
		},
		RiskPhrases: []string{
			"risks and uncertainties", "risk and uncertainty", "could adversely",
			"adversely affect", "adverse effect", "material adverse",
			"factors that could", "there can be no assurance", "no assurance that",
			"the risk that", "risks include", "risks related to",
		},
		FluffPhrases: []string{
			"shareholder value", "world-class", "best-in-class", "industry-leading",
			"excited to", "thrilled", "proud to", "pleased to",
			"great quarter", "record quarter", "strong momentum", "incredible team",
			"we believe", "thank you",
		},
		DomainNouns: []string{
			"production", "capacity", "factory", "factories", "gigafactory", "plant", "plants",
			"facility", "facilities", "fleet", "manufacturing", "headcount",
			"stores", "locations", "market", "markets", "supply chain",
			"capex", "capital expenditure", "capital expenditures",
			"data center", "data centers", "inventory", "pricing",
			"ramp", "rollout", "deployment", "program", "platform", "product line",
		},
		CommonCapitalized: []string{
			"I", "We", "Our", "The", "This", "That", "These", "Those", "It", "In", "On", "At", "By",
			"For", "And", "But", "Or", "As", "If", "To", "Of", "With", "From", "After", "Before",
			"Company", "Management", "Board", "CEO", "CFO",
			"January", "February", "March", "April", "May", "June", "July", "August",
			"September", "October", "November", "December",
			"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
		},
		FirstPersonWords: []string{
			"i", "me", "my", "mine", "myself", "i'm", "i'll", "i've", "i'd",
		},
	}
}

// Merge returns a copy of l with every list of extra appended after its
// counterpart. Duplicates are kept; they match the same text.
func (l Lists) Merge(extra Lists) Lists {
	return Lists{
		CommitmentVerbs:   appendCopy(l.CommitmentVerbs, extra.CommitmentVerbs),
		PlanPhrases:       appendCopy(l.PlanPhrases, extra.PlanPhrases),
		TimelinePatterns:  appendCopy(l.TimelinePatterns, extra.TimelinePatterns),
		ConstraintPhrases: appendCopy(l.ConstraintPhrases, extra.ConstraintPhrases),
		BoilerplateTerms:  appendCopy(l.BoilerplateTerms, extra.BoilerplateTerms),
		HedgePhrases:      appendCopy(l.HedgePhrases, extra.HedgePhrases),
		HedgeWords:        appendCopy(l.HedgeWords, extra.HedgeWords),
		DescriptiveTerms:  appendCopy(l.DescriptiveTerms, extra.DescriptiveTerms),
		CapabilityTerms:   appendCopy(l.CapabilityTerms, extra.CapabilityTerms),
		RolloutVerbs:      appendCopy(l.RolloutVerbs, extra.RolloutVerbs),
		TrivialActions:    appendCopy(l.TrivialActions, extra.TrivialActions),
		RiskPhrases:       appendCopy(l.RiskPhrases, extra.RiskPhrases),
		FluffPhrases:      appendCopy(l.FluffPhrases, extra.FluffPhrases),
		DomainNouns:       appendCopy(l.DomainNouns, extra.DomainNouns),
		CommonCapitalized: appendCopy(l.CommonCapitalized, extra.CommonCapitalized),
		FirstPersonWords:  appendCopy(l.FirstPersonWords, extra.FirstPersonWords),
	}
}

func appendCopy(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
