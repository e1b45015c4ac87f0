// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-orchestrator/internal/orchestrator"
)

var exploreCmd = &cobra.Command{
	Use:   "explore [query]",
	Short: "Traverse relationships in the local paper graph",
	Long: `Explore selects a graph-exploration strategy for the query (citation
chains, collaborations, concept networks, and so on) and runs it against
the local graph store. Content-similarity requests route to the vector
service instead.

Explicit entity flags override anything extracted from the query text.`,
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	engine, cleanup, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	author, _ := cmd.Flags().GetString("author")
	paper, _ := cmd.Flags().GetString("paper")
	concept, _ := cmd.Flags().GetString("concept")
	yearFrom, _ := cmd.Flags().GetInt("from")
	yearTo, _ := cmd.Flags().GetInt("to")
	limit, _ := cmd.Flags().GetInt("limit")
	mode, _ := cmd.Flags().GetString("mode")

	resp, err := engine.Explore(context.Background(), orchestrator.ExploreRequest{
		Query:     query,
		Author:    author,
		Paper:     paper,
		Concept:   concept,
		YearFrom:  yearFrom,
		YearTo:    yearTo,
		Limit:     limit,
		ForceMode: mode,
	})
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintf(os.Stdout, "Mode: %s (confidence %.2f)\n\n", resp.Mode, resp.Confidence)
	fmt.Fprint(os.Stdout, resp.Content)
	return nil
}

func init() {
	exploreCmd.Flags().String("query", "", "natural-language exploration request")
	exploreCmd.Flags().String("author", "", "explore around this author")
	exploreCmd.Flags().String("paper", "", "explore around this paper ID")
	exploreCmd.Flags().String("concept", "", "explore around this concept")
	exploreCmd.Flags().Int("from", 0, "start of a publication year range")
	exploreCmd.Flags().Int("to", 0, "end of a publication year range")
	exploreCmd.Flags().Int("limit", 0, "maximum number of items (default from config)")
	exploreCmd.Flags().String("mode", "", "force an exploration strategy")
	exploreCmd.Flags().Duration("timeout", 0, "bound the exploration pass")
	exploreCmd.Flags().Bool("json", false, "output the full response as JSON")

	rootCmd.AddCommand(exploreCmd)
}
