// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrator coordinates a research query from classification
// through backend execution, fusion, and quality assessment. Implements:
// prd001-orchestration (R1-R6).
//
// A query enters through Search, Summarize, or Explore. Search is the
// general path: the engine classifies the query, plans which backends to
// consult, runs them with failure isolation, fuses the ranked lists, and
// escalates to the remaining backends at most once when the fused results
// look thin. Multi-concept queries are decomposed into weighted sub-queries
// that run on a bounded worker pool and merge back into a single ranking.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/pdiddy/research-orchestrator/internal/backend"
	"github.com/pdiddy/research-orchestrator/internal/decompose"
	"github.com/pdiddy/research-orchestrator/internal/execute"
	"github.com/pdiddy/research-orchestrator/internal/fuse"
	"github.com/pdiddy/research-orchestrator/internal/intent"
	"github.com/pdiddy/research-orchestrator/internal/plan"
	"github.com/pdiddy/research-orchestrator/internal/quality"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

// Engine runs research passes against the configured backends.
type Engine struct {
	cfg    types.OrchestratorConfig
	vector backend.VectorSearcher
	graph  backend.GraphQuerier
	meta   backend.MetadataSearcher
	papers backend.PaperFetcher
	pool   *ants.Pool
	w      io.Writer
}

// Option configures an Engine beyond the three required backends.
type Option func(*Engine)

// WithWarnings directs non-fatal diagnostics (backend failures, dropped
// parameters) to w. Defaults to io.Discard.
func WithWarnings(w io.Writer) Option {
	return func(e *Engine) { e.w = w }
}

// WithPaperFetcher supplies the store Summarize reads paper content from.
// Usually the same GraphStore passed as the graph backend.
func WithPaperFetcher(f backend.PaperFetcher) Option {
	return func(e *Engine) { e.papers = f }
}

// New builds an Engine over the three backends. The sub-query worker pool
// is sized by cfg.SubQueryWorkers; Close releases it.
func New(cfg types.OrchestratorConfig, vector backend.VectorSearcher, graph backend.GraphQuerier, meta backend.MetadataSearcher, opts ...Option) (*Engine, error) {
	cfg = cfg.Defaults()
	pool, err := ants.NewPool(cfg.SubQueryWorkers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	e := &Engine{
		cfg:    cfg,
		vector: vector,
		graph:  graph,
		meta:   meta,
		pool:   pool,
		w:      io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the sub-query worker pool.
func (e *Engine) Close() {
	e.pool.Release()
}

// SearchRequest is one search pass. ForceMode, when set to a valid intent
// name, bypasses classification and decomposition; an unknown value is
// dropped with a warning and the query classifies normally.
type SearchRequest struct {
	Query     string
	Limit     int
	ForceMode string
}

// SearchResponse is the structured outcome of a search pass. Results are
// ranked best-first with fused scores and per-entry backend provenance.
type SearchResponse struct {
	PassID       string            `json:"pass_id" yaml:"pass_id"`
	Query        string            `json:"query" yaml:"query"`
	Mode         string            `json:"mode" yaml:"mode"`
	Confidence   float64           `json:"confidence" yaml:"confidence"`
	BackendsUsed []types.BackendID `json:"backends_used" yaml:"backends_used"`
	Results      []fuse.Entry      `json:"results" yaml:"results"`
	Decomposed   bool              `json:"decomposed" yaml:"decomposed"`
	SubQueries   []string          `json:"sub_queries,omitempty" yaml:"sub_queries,omitempty"`
	Quality      quality.Metrics   `json:"quality" yaml:"quality"`
	Escalated    bool              `json:"escalated" yaml:"escalated"`
}

// Search runs one research pass and always returns a structured response
// when the query is non-empty; backend failures degrade the result rather
// than aborting it.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return nil, fmt.Errorf("empty query")
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

	resp := &SearchResponse{
		PassID: uuid.NewString(),
		Query:  q,
	}

	if req.ForceMode != "" {
		forced := intent.Intent(req.ForceMode)
		if !intent.Valid(req.ForceMode) {
			fmt.Fprintf(e.w, "warning: unknown mode %q ignored\n", req.ForceMode)
		} else {
			cls := intent.Classification{
				Intent:     forced,
				Confidence: 1.0,
				Params:     intent.ExtractParams(q),
			}
			e.runPass(ctx, resp, q, limit, cls, true)
			return resp, nil
		}
	}

	subs := decompose.Decompose(q)
	if len(subs) > 1 {
		e.runDecomposed(ctx, resp, subs, limit)
		return resp, nil
	}

	e.runPass(ctx, resp, q, limit, intent.Classify(q), true)
	return resp, nil
}

// runPass executes a single-query pass and fills resp with its outcome.
func (e *Engine) runPass(ctx context.Context, resp *SearchResponse, q string, limit int, cls intent.Classification, allowEscalation bool) {
	out := e.searchOne(ctx, q, limit, cls, allowEscalation)
	resp.Mode = string(cls.Intent)
	resp.Confidence = cls.Confidence
	resp.BackendsUsed = out.used
	resp.Results = trim(out.fused.Entries, limit)
	resp.Quality = out.metrics
	resp.Escalated = out.escalated
}

// passOutcome is the internal result of one classify-plan-execute-fuse
// cycle, before any sub-query merging.
type passOutcome struct {
	fused     fuse.Fused
	metrics   quality.Metrics
	used      []types.BackendID
	escalated bool
}

// searchOne runs one classified query against its planned backends, fuses
// the results, and escalates at most once when allowEscalation is set.
func (e *Engine) searchOne(ctx context.Context, q string, limit int, cls intent.Classification, allowEscalation bool) passOutcome {
	p := plan.Build(cls.Intent, limit)
	results := execute.Run(ctx, p.Strategy, e.calls(q, cls, p), e.w)
	order := p.Backends
	fused := fuse.Fuse(results, order)
	metrics := quality.Assess(fused, limit, e.cfg.Quality)

	escalated := false
	if allowEscalation && quality.NeedsEscalation(metrics) && !p.Comprehensive {
		esc := plan.Escalation(p)
		if len(esc.Backends) > 0 {
			more := execute.Run(ctx, esc.Strategy, e.calls(q, cls, esc), e.w)
			results = append(results, more...)
			order = append(append([]types.BackendID{}, p.Backends...), esc.Backends...)
			fused = fuse.Fuse(results, order)
			metrics = quality.Assess(fused, limit, e.cfg.Quality)
			escalated = true
		}
	}

	used := make([]types.BackendID, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			used = append(used, r.Backend)
		}
	}
	return passOutcome{fused: fused, metrics: metrics, used: used, escalated: escalated}
}

// runDecomposed fans the sub-queries out on the worker pool, fuses each
// sub-pass independently, then merges them weighted by sub-query weight.
// Sub-passes never escalate; escalation is a whole-query decision and a
// decomposed pass already spreads across backends.
func (e *Engine) runDecomposed(ctx context.Context, resp *SearchResponse, subs []decompose.SubQuery, limit int) {
	outcomes := make([]passOutcome, len(subs))
	classed := make([]intent.Classification, len(subs))
	var wg sync.WaitGroup
	for i, sq := range subs {
		i, sq := i, sq
		classed[i] = intent.Classify(sq.Text)
		wg.Add(1)
		task := func() {
			defer wg.Done()
			outcomes[i] = e.searchOne(ctx, sq.Text, limit, classed[i], false)
		}
		if err := e.pool.Submit(task); err != nil {
			// Pool rejected the task (released or overloaded); run inline
			// so the sub-query still contributes.
			task()
		}
	}
	wg.Wait()

	weighted := make([]fuse.Weighted, len(subs))
	var confSum, weightSum float64
	seen := map[types.BackendID]bool{}
	for i, sq := range subs {
		weighted[i] = fuse.Weighted{Fused: outcomes[i].fused, Weight: sq.Weight}
		confSum += classed[i].Confidence * sq.Weight
		weightSum += sq.Weight
		resp.SubQueries = append(resp.SubQueries, sq.Text)
		for _, b := range outcomes[i].used {
			seen[b] = true
		}
	}
	merged := fuse.MergeWeighted(weighted)

	resp.Mode = "decomposed"
	if weightSum > 0 {
		resp.Confidence = confSum / weightSum
	}
	for _, b := range types.AllBackends {
		if seen[b] {
			resp.BackendsUsed = append(resp.BackendsUsed, b)
		}
	}
	resp.Results = trim(merged.Entries, limit)
	resp.Decomposed = true
	resp.Quality = quality.Assess(merged, limit, e.cfg.Quality)
}

// calls builds the per-backend executable calls for a plan. Each call
// captures the query text and extracted parameters in the form its
// backend understands.
func (e *Engine) calls(q string, cls intent.Classification, p plan.ExecutionPlan) []execute.Call {
	calls := make([]execute.Call, 0, len(p.Backends))
	for _, b := range p.Backends {
		switch b {
		case types.BackendVector:
			calls = append(calls, execute.Call{
				Backend: b,
				Run: func(ctx context.Context) ([]types.Item, error) {
					return e.vector.Search(ctx, q, p.Limit)
				},
			})
		case types.BackendGraph:
			strategy := cls.Intent.ExplorationStrategy()
			params := cls.Params
			if params.Concept == "" {
				params.Concept = q
			}
			calls = append(calls, execute.Call{
				Backend: b,
				Run: func(ctx context.Context) ([]types.Item, error) {
					return e.graph.Explore(ctx, strategy, params, p.Limit)
				},
			})
		case types.BackendMetadata:
			filters := backend.MetadataFilters{
				Query:    q,
				Author:   cls.Params.Author,
				YearFrom: cls.Params.YearFrom,
				YearTo:   cls.Params.YearTo,
			}
			calls = append(calls, execute.Call{
				Backend: b,
				Run: func(ctx context.Context) ([]types.Item, error) {
					return e.meta.Search(ctx, filters, p.Limit)
				},
			})
		}
	}
	return calls
}

// trim caps the ranked entries at limit, keeping ranks as fused.
func trim(entries []fuse.Entry, limit int) []fuse.Entry {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
