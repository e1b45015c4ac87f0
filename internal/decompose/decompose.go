// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decompose splits multi-concept queries into weighted sub-queries.
// Each sub-query re-enters the orchestrator independently; the engine merges
// the sub-results by importance weight.
// Implements: prd002-intent (R5.1-R5.5);
//
//	docs/ARCHITECTURE § Query Decomposition.
package decompose

import (
	"regexp"
	"strings"
)

// SubQuery is one independently orchestrated fragment of a decomposed
// query. Weight is an importance multiplier in (0,1] applied to the
// fragment's fused scores before the final merge.
type SubQuery struct {
	Text   string
	Weight float64
}

// Importance weights by segment role (R5.3): required segments count in
// full, OR-joined alternatives count partially, and contextual segments
// only nudge the ranking.
const (
	weightRequired   = 1.0
	weightOptional   = 0.7
	weightSupporting = 0.5
)

var (
	booleanAnd = regexp.MustCompile(`\s+AND\s+`)
	booleanOr  = regexp.MustCompile(`\s+OR\s+`)

	// conjunctions that join peer topics in natural phrasing, ordered
	// from most to least explicit. "as well as" and "along with" mark
	// the trailing segment as merely supporting.
	conjRequired   = regexp.MustCompile(`(?i)\s+(?:and also|and|versus|vs\.?)\s+`)
	conjSupporting = regexp.MustCompile(`(?i)\s+(?:as well as|along with|together with|combined with|in the context of|with respect to)\s+`)

	commaList = regexp.MustCompile(`\s*,\s*`)

	// comparePhrase catches comparative phrasing that joins two topics
	// without a conjunction ("compare X with Y").
	comparePhrase = regexp.MustCompile(`(?i)^\s*(?:compare|contrast)\s+(.+?)\s+(?:with|to|against)\s+(.+)$`)
)

// Decompose detects multi-concept queries and splits them into weighted
// sub-queries. Detection is attempted in a fixed order: explicit boolean
// operators, natural conjunctions, comma lists, prepositional multi-topic
// phrasing, then comparative phrasing. When no decomposition applies, the
// original query comes back as a single SubQuery with weight 1.0 (R5.1).
//
// Decomposition is one level deep by construction: the engine never
// re-decomposes a SubQuery, so termination needs no recursion guard.
func Decompose(text string) []SubQuery {
	text = strings.TrimSpace(text)

	if subs := splitBoolean(text); len(subs) > 1 {
		return subs
	}
	if subs := splitOn(text, conjRequired, weightRequired, weightRequired); len(subs) > 1 {
		return subs
	}
	if subs := splitComma(text); len(subs) > 1 {
		return subs
	}
	if subs := splitOn(text, conjSupporting, weightRequired, weightSupporting); len(subs) > 1 {
		return subs
	}
	if subs := splitCompare(text); len(subs) > 1 {
		return subs
	}
	return []SubQuery{{Text: text, Weight: weightRequired}}
}

// splitBoolean handles explicit uppercase AND/OR operators. AND segments
// are required; OR segments are optional alternatives (R5.2).
func splitBoolean(text string) []SubQuery {
	if !booleanAnd.MatchString(text) && !booleanOr.MatchString(text) {
		return nil
	}

	var subs []SubQuery
	for _, andPart := range booleanAnd.Split(text, -1) {
		orParts := booleanOr.Split(andPart, -1)
		if len(orParts) == 1 {
			subs = appendSegment(subs, orParts[0], weightRequired)
			continue
		}
		for _, p := range orParts {
			subs = appendSegment(subs, p, weightOptional)
		}
	}
	return subs
}

// splitOn splits text on the first occurrence of sep, weighting the head
// and tail segments separately.
func splitOn(text string, sep *regexp.Regexp, headWeight, tailWeight float64) []SubQuery {
	loc := sep.FindStringIndex(text)
	if loc == nil {
		return nil
	}

	head := text[:loc[0]]
	tail := text[loc[1]:]

	var subs []SubQuery
	subs = appendSegment(subs, head, headWeight)
	// The tail may itself contain further conjunctions; splitting all
	// occurrences at once keeps the pass single-level.
	for _, p := range sep.Split(tail, -1) {
		subs = appendSegment(subs, p, tailWeight)
	}
	return subs
}

// splitComma treats a comma-separated list of topic phrases as one
// required head plus optional alternatives. Short fragments (articles,
// stray qualifiers) do not count as topics.
func splitComma(text string) []SubQuery {
	parts := commaList.Split(text, -1)
	if len(parts) < 2 {
		return nil
	}

	var subs []SubQuery
	for i, p := range parts {
		w := weightOptional
		if i == 0 {
			w = weightRequired
		}
		subs = appendSegment(subs, p, w)
	}
	if len(subs) < 2 {
		return nil
	}
	return subs
}

// splitCompare splits comparative phrasing into two required topics.
func splitCompare(text string) []SubQuery {
	m := comparePhrase.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var subs []SubQuery
	subs = appendSegment(subs, m[1], weightRequired)
	subs = appendSegment(subs, m[2], weightRequired)
	if len(subs) < 2 {
		return nil
	}
	return subs
}

// appendSegment adds a cleaned segment, dropping fragments too short to
// stand alone as a query.
func appendSegment(subs []SubQuery, text string, weight float64) []SubQuery {
	text = strings.Trim(strings.TrimSpace(text), ".,;")
	if len(text) < 3 {
		return subs
	}
	return append(subs, SubQuery{Text: text, Weight: weight})
}
