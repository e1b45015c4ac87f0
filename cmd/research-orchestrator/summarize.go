// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-orchestrator/internal/orchestrator"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <paper-id>",
	Short: "Summarize a stored paper at a query-appropriate depth",
	Long: `Summarize renders one paper from the graph store at a depth selected
from the query phrasing: quick for an overview, targeted for a specific
question, comprehensive for the full abstract and concepts, full for
everything including citation lists.

Use --depth to force a depth regardless of the query.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	engine, cleanup, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	query, _ := cmd.Flags().GetString("query")
	depth, _ := cmd.Flags().GetString("depth")

	resp, err := engine.Summarize(context.Background(), orchestrator.SummarizeRequest{
		PaperID:    args[0],
		Query:      query,
		ForceDepth: depth,
	})
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintf(os.Stderr, "Depth: %s (~%d tokens)\n\n", resp.Depth, resp.TokensEstimated)
	fmt.Fprint(os.Stdout, resp.Content)
	return nil
}

func init() {
	summarizeCmd.Flags().String("query", "", "question steering the depth and excerpt selection")
	summarizeCmd.Flags().String("depth", "", "force a depth: quick, targeted, comprehensive, full")
	summarizeCmd.Flags().Bool("json", false, "output the full response as JSON")

	rootCmd.AddCommand(summarizeCmd)
}
