// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intent

import "regexp"

// Depth selects how much of a paper a summary covers.
// Per prd006-surface R3.1.
type Depth string

const (
	DepthQuick         Depth = "quick"
	DepthTargeted      Depth = "targeted"
	DepthComprehensive Depth = "comprehensive"
	DepthFull          Depth = "full"
)

// ValidDepth reports whether s names a known summary depth.
func ValidDepth(s string) bool {
	switch Depth(s) {
	case DepthQuick, DepthTargeted, DepthComprehensive, DepthFull:
		return true
	}
	return false
}

type depthRule struct {
	depth    Depth
	patterns []*regexp.Regexp
}

// depthRules follows the same first-match-wins discipline as the intent
// table. full must precede comprehensive ("full detail" contains neither
// family's exclusive vocabulary otherwise).
var depthRules = []depthRule{
	{DepthFull, compile(
		`\bfull (?:text|paper|content|detail)\b`,
		`\bentire\b`,
		`\beverything\b`,
	)},
	{DepthComprehensive, compile(
		`\bcomprehensive\b`,
		`\bdetailed\b`,
		`\bin[- ]depth\b`,
		`\bthorough\b`,
	)},
	{DepthQuick, compile(
		`\bquick\b`,
		`\bbrief(?:ly)?\b`,
		`\btl;?dr\b`,
		`\bshort\b`,
		`\bgist\b`,
		`\bone[- ]liner\b`,
	)},
	{DepthTargeted, compile(
		`\bspecifically\b`,
		`\bwhat (?:does|do) .* say about\b`,
		`\bregarding\b`,
		`\bfocus(?:ed|ing)? on\b`,
	)},
}

// SelectDepth classifies a summary request. An empty query means the
// caller wants an overview, which maps to quick; a non-empty query that
// matches nothing is treated as targeted at that query's terms.
func SelectDepth(query string) Depth {
	if query == "" {
		return DepthQuick
	}
	for _, r := range depthRules {
		for _, p := range r.patterns {
			if p.MatchString(query) {
				return r.depth
			}
		}
	}
	return DepthTargeted
}
