// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/research-orchestrator/internal/intent"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

// ExploreRequest asks for relationship exploration around explicit
// entities. Explicit fields override anything extracted from Query.
// ForceMode, when set to a valid strategy name, bypasses strategy
// selection; an unknown value is dropped with a warning.
type ExploreRequest struct {
	Query     string
	Author    string
	Paper     string
	Concept   string
	YearFrom  int
	YearTo    int
	Limit     int
	ForceMode string
}

// ExploreResponse is the structured outcome of an exploration pass.
// Content is a human-readable rendering of Items; an empty exploration
// yields ItemsFound zero with explanatory content, not an error.
type ExploreResponse struct {
	PassID     string       `json:"pass_id" yaml:"pass_id"`
	Mode       string       `json:"mode" yaml:"mode"`
	Confidence float64      `json:"confidence" yaml:"confidence"`
	ItemsFound int          `json:"items_found" yaml:"items_found"`
	Items      []types.Item `json:"items,omitempty" yaml:"items,omitempty"`
	Content    string       `json:"content" yaml:"content"`
}

// Explore selects an exploration strategy for the query and runs it
// against the graph store, or against the vector store for content
// similarity. Per prd006-surface R2.
func (e *Engine) Explore(ctx context.Context, req ExploreRequest) (*ExploreResponse, error) {
	q := strings.TrimSpace(req.Query)
	if q == "" && req.Author == "" && req.Paper == "" && req.Concept == "" {
		return nil, fmt.Errorf("empty exploration request")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.MaxResults
	}
	if e.cfg.PassTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.PassTimeout)
		defer cancel()
	}

	strategy, confidence := intent.SelectStrategy(q)
	if req.ForceMode != "" {
		if intent.ValidStrategy(req.ForceMode) {
			strategy = intent.Strategy(req.ForceMode)
			confidence = 1.0
		} else {
			fmt.Fprintf(e.w, "warning: unknown mode %q ignored\n", req.ForceMode)
		}
	}

	params := intent.ExtractParams(q)
	if req.Author != "" {
		params.Author = req.Author
	}
	if req.Paper != "" {
		params.Paper = req.Paper
	}
	if req.Concept != "" {
		params.Concept = req.Concept
	}
	// Out-of-range years are dropped, not fatal: the field is treated as
	// absent and the exploration proceeds without the constraint.
	if req.YearFrom != 0 {
		if validYear(req.YearFrom) {
			params.YearFrom = req.YearFrom
		} else {
			fmt.Fprintf(e.w, "warning: year %d out of range, ignored\n", req.YearFrom)
		}
	}
	if req.YearTo != 0 {
		if validYear(req.YearTo) {
			params.YearTo = req.YearTo
		} else {
			fmt.Fprintf(e.w, "warning: year %d out of range, ignored\n", req.YearTo)
		}
	}

	resp := &ExploreResponse{
		PassID:     uuid.NewString(),
		Mode:       string(strategy),
		Confidence: confidence,
	}

	var items []types.Item
	var err error
	if strategy == intent.StrategyContentSimilarity {
		// Similarity reads the vector store; the reference text is the
		// named paper when one was given, otherwise the query itself.
		ref := params.Paper
		if ref == "" {
			ref = q
		}
		items, err = e.vector.Search(ctx, ref, limit)
	} else {
		items, err = e.graph.Explore(ctx, strategy, params, limit)
	}
	if err != nil {
		fmt.Fprintf(e.w, "warning: exploration failed: %v\n", err)
		resp.Content = "Exploration failed; no results available."
		return resp, nil
	}

	resp.Items = items
	resp.ItemsFound = len(items)
	resp.Content = renderExploration(strategy, items)
	return resp, nil
}

// validYear matches the extraction range for publication years.
func validYear(y int) bool {
	return y >= 1900 && y <= 2099
}

// renderExploration formats exploration items as a readable listing.
func renderExploration(strategy intent.Strategy, items []types.Item) string {
	if len(items) == 0 {
		return "No relationships found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s exploration found %d items:\n", strategy, len(items))
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s", i+1, it.Title)
		if it.Year > 0 {
			fmt.Fprintf(&b, " (%d)", it.Year)
		}
		if len(it.Authors) > 0 {
			fmt.Fprintf(&b, " by %s", strings.Join(it.Authors, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
