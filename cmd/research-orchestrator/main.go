// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-orchestrator CLI.
// Implements: prd001-orchestration, prd006-surface (CLI surface).
// See docs/ARCHITECTURE § Query Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-orchestrator/internal/backend"
	"github.com/pdiddy/research-orchestrator/internal/orchestrator"
	"github.com/pdiddy/research-orchestrator/internal/secrets"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the research-orchestrator CLI.
var rootCmd = &cobra.Command{
	Use:   "research-orchestrator",
	Short: "Intent-driven research query orchestration",
	Long: `research-orchestrator routes natural-language research queries across a
vector search service, a local relationship graph, and the OpenAlex
bibliographic API. Queries are classified by intent, decomposed when they
span multiple concepts, executed across the selected backends, and fused
into a single ranked result with per-item provenance.

Each entry point is a subcommand: search for ranked retrieval, explore for
relationship traversal, summarize for depth-controlled paper summaries, and
index for loading a paper corpus into the graph store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-orchestrator.yaml or ~/.config/research-orchestrator/config.yaml)")
	rootCmd.PersistentFlags().String("index-dir", "", "directory holding the graph database (default: index)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-orchestrator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-orchestrator"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_ORCHESTRATOR")
	viper.AutomaticEnv()

	viper.SetDefault("graph.index_dir", "index")
	viper.SetDefault("max_results", 10)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the orchestrator configuration from the config
// file, environment, flags, and loaded secrets.
func engineConfig(cmd *cobra.Command) types.OrchestratorConfig {
	cfg := types.OrchestratorConfig{
		MaxResults:      viper.GetInt("max_results"),
		SubQueryWorkers: viper.GetInt("sub_query_workers"),
		PassTimeout:     viper.GetDuration("pass_timeout"),
		Vector: types.VectorConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout: viper.GetDuration("vector.timeout"),
			},
			BaseURL: viper.GetString("vector.base_url"),
			APIKey:  secretDefault("vector-api-key", viper.GetString("vector.api_key")),
		},
		Metadata: types.MetadataConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout: viper.GetDuration("metadata.timeout"),
			},
			Email: secretDefault("openalex-email", viper.GetString("metadata.email")),
		},
		Graph: types.GraphConfig{
			IndexDir: viper.GetString("graph.index_dir"),
		},
		Quality: types.QualityConfig{
			HighScore:     viper.GetFloat64("quality.high_score"),
			MediumScore:   viper.GetFloat64("quality.medium_score"),
			CoverageScore: viper.GetFloat64("quality.coverage_score"),
		},
	}
	if dir, _ := rootCmd.PersistentFlags().GetString("index-dir"); dir != "" {
		cfg.Graph.IndexDir = dir
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.PassTimeout = timeout
	}
	return cfg.Defaults()
}

// buildEngine constructs the engine with all three backends. The returned
// cleanup closes the graph database and releases the worker pool.
func buildEngine(cmd *cobra.Command) (*orchestrator.Engine, func(), error) {
	cfg := engineConfig(cmd)

	graph, err := backend.NewGraphStore(cfg.Graph)
	if err != nil {
		return nil, nil, fmt.Errorf("opening graph store: %w", err)
	}

	engine, err := orchestrator.New(cfg,
		backend.NewVectorClient(cfg.Vector),
		graph,
		backend.NewOpenAlexClient(cfg.Metadata),
		orchestrator.WithWarnings(os.Stderr),
		orchestrator.WithPaperFetcher(graph),
	)
	if err != nil {
		graph.Close()
		return nil, nil, err
	}

	cleanup := func() {
		engine.Close()
		graph.Close()
	}
	return engine, cleanup, nil
}

// openGraph opens just the graph store, for commands that never query the
// remote backends.
func openGraph(cmd *cobra.Command) (*backend.GraphStore, error) {
	cfg := engineConfig(cmd)
	graph, err := backend.NewGraphStore(cfg.Graph)
	if err != nil {
		return nil, fmt.Errorf("opening graph store: %w", err)
	}
	return graph, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
