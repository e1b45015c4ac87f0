// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by adapters that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-orchestrator/0.1"). Per prd005-backends R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// VectorConfig holds settings for the vector search service adapter.
// Per prd005-backends R2.1.
type VectorConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the vector search service endpoint
	// (e.g. "http://localhost:8900").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is an optional bearer token for the service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// MetadataConfig holds settings for the bibliographic metadata adapter.
// Per prd005-backends R2.3.
type MetadataConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// GraphConfig holds settings for the relationship graph store.
// Per prd005-backends R2.2.
type GraphConfig struct {
	// IndexDir is the directory holding the graph SQLite database.
	IndexDir string `json:"index_dir" yaml:"index_dir"`
}

// QualityConfig holds the fused-score thresholds driving confidence tiers
// and escalation. The defaults were tuned against reciprocal-rank scores
// (1/(60+rank) per contributing backend); operators adjusting the damping
// constant must retune these.
// Per prd004-fusion R3.1-R3.4.
type QualityConfig struct {
	// HighScore is the minimum top-N fused score for "high" confidence.
	HighScore float64 `json:"high_score" yaml:"high_score"`

	// MediumScore is the minimum top-N fused score for "medium" confidence.
	MediumScore float64 `json:"medium_score" yaml:"medium_score"`

	// CoverageScore is the fused score a result must exceed to count
	// toward coverage.
	CoverageScore float64 `json:"coverage_score" yaml:"coverage_score"`
}

// DefaultQualityConfig returns the tuned threshold set. A score around
// 0.03 means an item ranked near the top of two backend lists; 0.016 is
// roughly a first-place single-backend item.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		HighScore:     0.030,
		MediumScore:   0.015,
		CoverageScore: 0.010,
	}
}

// OrchestratorConfig groups all component configurations for one engine
// instance. It is constructed once at process start and never mutated, so
// concurrent orchestration passes share nothing mutable.
// Per prd001-orchestration R5.3.
type OrchestratorConfig struct {
	// MaxResults is the default result count for a query (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// SubQueryWorkers bounds concurrent sub-query execution for
	// decomposed queries (default 5).
	SubQueryWorkers int `json:"sub_query_workers" yaml:"sub_query_workers"`

	// PassTimeout bounds one whole orchestration pass. On expiry the
	// engine returns the best fused result from completed backends.
	// Zero disables the bound.
	PassTimeout time.Duration `json:"pass_timeout" yaml:"pass_timeout"`

	Vector   VectorConfig   `json:"vector" yaml:"vector"`
	Metadata MetadataConfig `json:"metadata" yaml:"metadata"`
	Graph    GraphConfig    `json:"graph" yaml:"graph"`
	Quality  QualityConfig  `json:"quality" yaml:"quality"`
}

// Defaults fills zero-valued fields with defaults and returns the config.
func (c OrchestratorConfig) Defaults() OrchestratorConfig {
	if c.MaxResults <= 0 {
		c.MaxResults = 10
	}
	if c.SubQueryWorkers <= 0 {
		c.SubQueryWorkers = 5
	}
	if c.Quality == (QualityConfig{}) {
		c.Quality = DefaultQualityConfig()
	}
	if c.Vector.Timeout <= 0 {
		c.Vector.Timeout = 30 * time.Second
	}
	if c.Metadata.Timeout <= 0 {
		c.Metadata.Timeout = 30 * time.Second
	}
	if c.Vector.UserAgent == "" {
		c.Vector.UserAgent = "research-orchestrator/0.1"
	}
	if c.Metadata.UserAgent == "" {
		c.Metadata.UserAgent = "research-orchestrator/0.1"
	}
	return c
}
