// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intent

import "regexp"

// Strategy selects one of the graph-exploration algorithms. The nine
// strategies are mutually exclusive per query.
// Per prd002-intent R3.1-R3.3.
type Strategy string

const (
	StrategyCitationChain     Strategy = "citation_chain"
	StrategyInfluence         Strategy = "influence"
	StrategyContentSimilarity Strategy = "content_similarity"
	StrategyRelated           Strategy = "related"
	StrategyCollaboration     Strategy = "collaboration"
	StrategyConceptNetwork    Strategy = "concept_network"
	StrategyTemporal          Strategy = "temporal"
	StrategyVenue             Strategy = "venue"
	StrategyComprehensive     Strategy = "comprehensive"
)

// ExplorationStrategy maps an intent to the graph-exploration strategy a
// graph backend call should run for it. Intents that never route to the
// graph map to the broadest strategy so an escalation pass still gets
// useful graph results.
func (i Intent) ExplorationStrategy() Strategy {
	switch i {
	case Citation:
		return StrategyCitationChain
	case Influence:
		return StrategyInfluence
	case ContentSimilarity:
		return StrategyContentSimilarity
	case Relationship:
		return StrategyRelated
	case Collaboration:
		return StrategyCollaboration
	case ConceptNetwork:
		return StrategyConceptNetwork
	case Temporal:
		return StrategyTemporal
	case Venue:
		return StrategyVenue
	}
	return StrategyComprehensive
}

// ValidStrategy reports whether s names a known exploration strategy.
func ValidStrategy(s string) bool {
	switch Strategy(s) {
	case StrategyCitationChain, StrategyInfluence, StrategyContentSimilarity,
		StrategyRelated, StrategyCollaboration, StrategyConceptNetwork,
		StrategyTemporal, StrategyVenue, StrategyComprehensive:
		return true
	}
	return false
}

type strategyRule struct {
	strategy   Strategy
	confidence float64
	patterns   []*regexp.Regexp
}

// strategyRules is priority-ordered. content_similarity must precede
// related: both vocabularies contain "similar"/"related" phrasing, and the
// earlier match decides whether "alike papers" means content-based (vector
// backend) or structure-based (graph backend) similarity (R3.2).
var strategyRules = []strategyRule{
	{StrategyCitationChain, 0.90, compile(
		`\bcit(?:es?|ed|ing|ations?)\b`,
		`\bcitation (?:chain|trail|path)\b`,
		`\bbuilds? on\b`,
	)},
	{StrategyCollaboration, 0.90, compile(
		`\bcollaborat`,
		`\bco-?authors?\b`,
		`\bworked with\b`,
	)},
	{StrategyInfluence, 0.90, compile(
		`\binfluen(?:ce|ces|ced|tial)\b`,
		`\bseminal\b`,
		`\bmost important\b`,
		`\bhigh(?:ly|est)[- ]impact\b`,
	)},
	{StrategyContentSimilarity, 0.85, compile(
		`\bsimilar to\b`,
		`\bmore like\b`,
		`\bpapers? like\b`,
		`\bresembl`,
	)},
	{StrategyRelated, 0.85, compile(
		`\brelated to\b`,
		`\bconnect(?:ed|ion|ions)? (?:to|with)\b`,
		`\bshar(?:es?|ing) (?:authors?|concepts?|topics?)\b`,
	)},
	{StrategyConceptNetwork, 0.85, compile(
		`\bconcepts?\b`,
		`\bnetwork of (?:ideas|topics)\b`,
	)},
	{StrategyTemporal, 0.85, compile(
		`\bevolv(?:e|es|ed|ing|ution)\b`,
		`\bover time\b`,
		`\btrends?\b`,
	)},
	{StrategyVenue, 0.80, compile(
		`\b(?:journal|conference|venue|proceedings|workshop)s?\b`,
	)},
}

// SelectStrategy classifies exploration text into a strategy with a fixed
// base confidence. When a query matches neither family strongly there is
// no tie-break: the fallback is the broadest strategy, comprehensive, not
// a guess at a specific one (R3.3).
func SelectStrategy(text string) (Strategy, float64) {
	for _, r := range strategyRules {
		for _, p := range r.patterns {
			if p.MatchString(text) {
				return r.strategy, r.confidence
			}
		}
	}
	return StrategyComprehensive, 0.70
}
