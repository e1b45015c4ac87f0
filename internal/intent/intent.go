// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intent classifies natural-language research queries into a closed
// set of intents that select backends and algorithms downstream.
// Implements: prd002-intent (R1-R4);
//
//	docs/ARCHITECTURE § Intent Classification.
package intent

import (
	"regexp"

	"github.com/pdiddy/research-orchestrator/pkg/types"
)

// Intent is the classified purpose of a query.
type Intent string

const (
	Relationship      Intent = "relationship"
	Metadata          Intent = "metadata"
	Semantic          Intent = "semantic"
	Citation          Intent = "citation"
	Influence         Intent = "influence"
	ContentSimilarity Intent = "content_similarity"
	Collaboration     Intent = "collaboration"
	ConceptNetwork    Intent = "concept_network"
	Temporal          Intent = "temporal"
	Venue             Intent = "venue"
	Comprehensive     Intent = "comprehensive"
)

// Valid reports whether s names a known intent. Used to validate the
// caller-supplied forced mode (R1.4).
func Valid(s string) bool {
	switch Intent(s) {
	case Relationship, Metadata, Semantic, Citation, Influence,
		ContentSimilarity, Collaboration, ConceptNetwork,
		Temporal, Venue, Comprehensive:
		return true
	}
	return false
}

// Classification is the immutable output of Classify.
type Classification struct {
	Intent Intent
	// Confidence is a fixed constant per intent category. It reflects
	// category identity, not match strength: the escalation thresholds
	// downstream were tuned against these constants (R1.3).
	Confidence float64
	Params     Params
}

// rule pairs an intent with its trigger patterns and base confidence.
// The rules table is tested in order and the first match wins, so more
// specific categories whose vocabularies overlap broader ones (e.g.
// content_similarity vs. relationship, both matching "similar"/"related"
// phrasing) must appear first (R2.1, R2.2).
type rule struct {
	intent     Intent
	confidence float64
	patterns   []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// rules is the priority-ordered classification table. Order is a
// correctness property: see TestPatternPriority.
var rules = []rule{
	{Citation, 0.90, compile(
		`\bcit(?:es?|ed|ing|ations?)\b`,
		`\breferences?\b.*\bpaper\b`,
		`\bbibliograph`,
	)},
	{Collaboration, 0.90, compile(
		`\bcollaborat`,
		`\bco-?authors?\b`,
		`\bworked with\b`,
		`\bwho (?:has )?(?:published|written) with\b`,
	)},
	{Influence, 0.90, compile(
		`\binfluen(?:ce|ces|ced|tial)\b`,
		`\bseminal\b`,
		`\bmost important (?:papers?|works?)\b`,
		`\bfoundational\b`,
		`\bhigh(?:ly|est)[- ]impact\b`,
	)},
	{ContentSimilarity, 0.85, compile(
		`\bsimilar to\b`,
		`\bmore like\b`,
		`\bpapers? like\b`,
		`\bresembl`,
		`\bsame topic as\b`,
	)},
	{Relationship, 0.90, compile(
		`\brelated to\b`,
		`\bconnect(?:ed|ion|ions)? (?:to|with|between)\b`,
		`\brelationship between\b`,
		`\blink(?:s|ed)? (?:to|between)\b`,
	)},
	{ConceptNetwork, 0.85, compile(
		`\bconcepts? (?:around|near|linked)\b`,
		`\bnetwork of (?:ideas|concepts|topics)\b`,
		`\btopics? (?:surrounding|around)\b`,
	)},
	{Temporal, 0.85, compile(
		`\bevolv(?:e|es|ed|ing|ution)\b`,
		`\bover time\b`,
		`\btrends?\b`,
		`\bhistory of\b`,
		`\b(?:from|between|since)\b.*\b(?:19|20)\d{2}\b`,
	)},
	{Venue, 0.80, compile(
		`\bpublished (?:in|at)\b.*\b(?:journal|conference|proceedings|workshop)\b`,
		`\b(?:journal|conference|venue|proceedings)s?\b`,
	)},
	{Metadata, 0.80, compile(
		`\bpapers? by\b`,
		`\b(?:written|authored) by\b`,
		`\bpublished in (?:19|20)\d{2}\b`,
		`\btitled?\b`,
		`\bdoi\b`,
	)},
	{Comprehensive, 0.85, compile(
		`\beverything (?:about|on)\b`,
		`\ball (?:papers?|results|work) (?:about|on|by)\b`,
		`\bcomprehensive\b`,
		`\bexhaustive\b`,
	)},
}

// semanticFallback is returned when no rule matches. Classification never
// fails: an unmatched query is a plain semantic search (R1.2).
const semanticFallbackConfidence = 0.70

// Classify maps raw query text to an intent with a fixed base confidence
// and any parameters it can extract. It is a pure function over text:
// identical input always yields an identical Classification (R1.1).
func Classify(text string) Classification {
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(text) {
				return Classification{
					Intent:     r.intent,
					Confidence: r.confidence,
					Params:     ExtractParams(text),
				}
			}
		}
	}
	return Classification{
		Intent:     Semantic,
		Confidence: semanticFallbackConfidence,
		Params:     ExtractParams(text),
	}
}

// Backends returns the backends the intent naturally routes to, in plan
// declaration order. The planner consumes this table (prd003 R1.1).
func (i Intent) Backends() []types.BackendID {
	switch i {
	case Semantic, ContentSimilarity:
		return []types.BackendID{types.BackendVector}
	case Relationship, Citation, Influence, Collaboration, ConceptNetwork:
		return []types.BackendID{types.BackendGraph}
	case Metadata:
		return []types.BackendID{types.BackendMetadata}
	case Temporal:
		return []types.BackendID{types.BackendGraph, types.BackendMetadata}
	case Venue:
		return []types.BackendID{types.BackendMetadata, types.BackendGraph}
	case Comprehensive:
		return append([]types.BackendID(nil), types.AllBackends...)
	}
	return []types.BackendID{types.BackendVector}
}
