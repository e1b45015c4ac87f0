// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Params holds parameters extracted from query text. Zero values mean the
// parameter was absent or failed validation; a malformed value is dropped,
// never surfaced as an error (R4.5).
type Params struct {
	// Author is an extracted author name.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// Paper is an extracted paper identifier (DOI or arXiv ID).
	Paper string `json:"paper,omitempty" yaml:"paper,omitempty"`

	// Concept is an extracted topic phrase.
	Concept string `json:"concept,omitempty" yaml:"concept,omitempty"`

	// YearFrom and YearTo bound a publication year range. A single
	// extracted year sets both.
	YearFrom int `json:"year_from,omitempty" yaml:"year_from,omitempty"`
	YearTo   int `json:"year_to,omitempty" yaml:"year_to,omitempty"`
}

// IsEmpty reports whether no parameter was extracted.
func (p Params) IsEmpty() bool {
	return p == Params{}
}

var (
	// authorPattern matches a name after an author-introducing word. The
	// name part allows internal capitals, apostrophes and hyphens, plus
	// lowercase particles, so "O'Brien", "McGrath" and "van der Waals"
	// extract whole (R4.1).
	authorPattern = regexp.MustCompile(
		`(?:\bby|\bwith|\bauthored by|\bauthor)\s+` +
			`((?:[A-Z][A-Za-z'-]+|van|von|der|de|la|du)` +
			`(?:\s+(?:[A-Z][A-Za-z'-]+|van|von|der|de|la|du))*)`)

	// yearPattern uses a non-capturing century prefix. A capturing group
	// here would make FindAllString-style extraction return "19"/"20"
	// instead of the full year (R4.2).
	yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	// conceptPattern captures the phrase between a topic-introducing
	// preposition and the next boundary. The boundary set includes the
	// evolution verbs alongside temporal prepositions so that
	// "dissociation evolved from 2010" yields "dissociation", not
	// "dissociation evolved" (R4.3).
	conceptPattern = regexp.MustCompile(
		`(?i)\b(?:about|on|regarding|around|concerning)\s+(.+?)` +
			`(?:\s+(?:evolv\w*|chang\w*|develop\w*|progress\w*|emerg\w*|` +
			`since|from|between|until|before|after|over|during|in)\b|[?.!,]|$)`)

	// paperPattern matches a DOI or arXiv identifier anywhere in the text.
	paperPattern = regexp.MustCompile(
		`\b(?:10\.\d{4,9}/\S+|\d{4}\.\d{4,5}(?:v\d+)?)\b`)
)

// particles are name fragments that may legitimately start lowercase but
// never constitute a name on their own.
var particles = map[string]bool{
	"van": true, "von": true, "der": true, "de": true, "la": true, "du": true,
}

// ExtractParams pulls structured parameters out of query text. It is pure
// and order-independent: each parameter is extracted with its own pattern.
func ExtractParams(text string) Params {
	var p Params

	if m := authorPattern.FindStringSubmatch(text); m != nil {
		p.Author = trimParticles(m[1])
	}

	years := yearPattern.FindAllString(text, -1)
	if len(years) > 0 {
		from, _ := strconv.Atoi(years[0])
		to := from
		if len(years) > 1 {
			to, _ = strconv.Atoi(years[len(years)-1])
		}
		if from > to {
			from, to = to, from
		}
		// The pattern already restricts to 1900-2099; the range check
		// stays as the validation boundary for future pattern edits.
		if from >= 1900 && to <= 2099 {
			p.YearFrom, p.YearTo = from, to
		}
	}

	if m := conceptPattern.FindStringSubmatch(text); m != nil {
		p.Concept = strings.TrimSpace(m[1])
	}

	if m := paperPattern.FindString(text); m != "" {
		p.Paper = strings.TrimRight(m, ".,;")
	}

	return p
}

// trimParticles drops trailing lowercase particles left dangling when the
// pattern stops mid-name ("papers by van der" → "").
func trimParticles(name string) string {
	words := strings.Fields(name)
	for len(words) > 0 && particles[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
