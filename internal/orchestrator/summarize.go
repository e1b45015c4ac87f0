// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/research-orchestrator/internal/backend"
	"github.com/pdiddy/research-orchestrator/internal/intent"
)

// SummarizeRequest asks for a summary of one stored paper. Query, when
// set, steers both the depth selection and the targeted excerpt.
// ForceDepth, when set to a valid depth name, overrides selection.
type SummarizeRequest struct {
	PaperID    string
	Query      string
	ForceDepth string
}

// SummarizeResponse carries the assembled summary. TokensEstimated uses
// the four-characters-per-token heuristic, rounded up.
type SummarizeResponse struct {
	PassID          string `json:"pass_id" yaml:"pass_id"`
	PaperID         string `json:"paper_id" yaml:"paper_id"`
	Depth           string `json:"depth" yaml:"depth"`
	Content         string `json:"content" yaml:"content"`
	TokensEstimated int    `json:"tokens_estimated" yaml:"tokens_estimated"`
}

// Summarize fetches one paper and renders it at the selected depth.
// An unknown paper is a normal empty outcome, not an error. Per
// prd006-surface R3.
func (e *Engine) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	if req.PaperID == "" {
		return nil, fmt.Errorf("empty paper id")
	}
	if e.papers == nil {
		return nil, fmt.Errorf("no paper store configured")
	}

	depth := intent.SelectDepth(req.Query)
	if req.ForceDepth != "" {
		if intent.ValidDepth(req.ForceDepth) {
			depth = intent.Depth(req.ForceDepth)
		} else {
			fmt.Fprintf(e.w, "warning: unknown depth %q ignored\n", req.ForceDepth)
		}
	}

	resp := &SummarizeResponse{
		PassID:  uuid.NewString(),
		PaperID: req.PaperID,
		Depth:   string(depth),
	}

	paper, err := e.papers.GetPaper(ctx, req.PaperID)
	if err != nil {
		return nil, fmt.Errorf("fetch paper %s: %w", req.PaperID, err)
	}
	if paper == nil {
		resp.Content = fmt.Sprintf("No stored content for %s.", req.PaperID)
		resp.TokensEstimated = estimateTokens(resp.Content)
		return resp, nil
	}

	resp.Content = renderSummary(paper, depth, req.Query)
	resp.TokensEstimated = estimateTokens(resp.Content)
	return resp, nil
}

// renderSummary assembles the depth-appropriate slice of a paper record.
func renderSummary(p *backend.Paper, depth intent.Depth, query string) string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString("\n")
	if len(p.Authors) > 0 {
		b.WriteString(strings.Join(p.Authors, ", "))
		b.WriteString("\n")
	}
	if p.Year > 0 || p.Venue != "" {
		if p.Venue != "" {
			fmt.Fprintf(&b, "%s", p.Venue)
			if p.Year > 0 {
				fmt.Fprintf(&b, ", %d", p.Year)
			}
		} else {
			fmt.Fprintf(&b, "%d", p.Year)
		}
		b.WriteString("\n")
	}

	switch depth {
	case intent.DepthQuick:
		// Header only.
	case intent.DepthTargeted:
		if excerpt := targetedExcerpt(p.Abstract, query); excerpt != "" {
			b.WriteString("\n")
			b.WriteString(excerpt)
			b.WriteString("\n")
		}
	case intent.DepthComprehensive, intent.DepthFull:
		if p.Abstract != "" {
			b.WriteString("\n")
			b.WriteString(p.Abstract)
			b.WriteString("\n")
		}
		if len(p.Concepts) > 0 {
			fmt.Fprintf(&b, "\nConcepts: %s\n", strings.Join(p.Concepts, ", "))
		}
		if depth == intent.DepthFull {
			if len(p.Cites) > 0 {
				fmt.Fprintf(&b, "\nCites: %s\n", strings.Join(p.Cites, ", "))
			}
			if len(p.CitedBy) > 0 {
				fmt.Fprintf(&b, "Cited by: %s\n", strings.Join(p.CitedBy, ", "))
			}
		}
	}
	return b.String()
}

// targetedExcerpt returns the abstract sentences mentioning any query
// term, falling back to the opening of the abstract when none match.
func targetedExcerpt(abstract, query string) string {
	if abstract == "" {
		return ""
	}
	terms := queryTerms(query)
	if len(terms) == 0 {
		return leadingSentences(abstract, 2)
	}

	var matched []string
	for _, sentence := range splitSentences(abstract) {
		lower := strings.ToLower(sentence)
		for _, t := range terms {
			if strings.Contains(lower, t) {
				matched = append(matched, sentence)
				break
			}
		}
	}
	if len(matched) == 0 {
		return leadingSentences(abstract, 2)
	}
	return strings.Join(matched, " ")
}

// queryTerms lowercases and keeps the substantive words of a query.
func queryTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,;:?!\"'")
		if len(w) >= 4 {
			terms = append(terms, w)
		}
	}
	return terms
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '?' || r == '!' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func leadingSentences(text string, n int) string {
	sentences := splitSentences(text)
	if len(sentences) > n {
		sentences = sentences[:n]
	}
	return strings.Join(sentences, " ")
}

// estimateTokens applies the rough four characters per token rule.
func estimateTokens(s string) int {
	return (len(s) + 3) / 4
}
