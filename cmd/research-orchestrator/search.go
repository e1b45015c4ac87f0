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
	"github.com/pdiddy/research-orchestrator/internal/session"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

func joinBackends(bs []types.BackendID) string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = string(b)
	}
	return strings.Join(names, ",")
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run an orchestrated search across all configured backends",
	Long: `Search classifies the query's intent, plans which backends to consult,
runs them with failure isolation, and fuses the ranked lists into a single
result with per-item provenance. Multi-concept queries are decomposed into
weighted sub-queries and merged.

Use --mode to force a specific intent and bypass classification, --save to
persist the pass to a YAML file, and --load to re-render a saved pass
without querying any backend.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	loadPath, _ := cmd.Flags().GetString("load")
	if loadPath != "" {
		pf, err := session.ReadSearch(loadPath)
		if err != nil {
			return err
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return formatSearchOutput(pf.Search, jsonOutput)
	}

	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	if query == "" {
		return fmt.Errorf("query required: pass it as an argument or with --query")
	}

	engine, cleanup, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	limit, _ := cmd.Flags().GetInt("limit")
	mode, _ := cmd.Flags().GetString("mode")

	resp, err := engine.Search(context.Background(), orchestrator.SearchRequest{
		Query:     query,
		Limit:     limit,
		ForceMode: mode,
	})
	if err != nil {
		return err
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := session.WriteSearch(savePath, resp); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved pass %s to %s\n", resp.PassID, savePath)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(resp, jsonOutput)
}

func formatSearchOutput(resp *orchestrator.SearchResponse, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintf(os.Stdout, "Mode: %s (confidence %.2f)\n", resp.Mode, resp.Confidence)
	fmt.Fprintf(os.Stdout, "Backends: %s\n", joinBackends(resp.BackendsUsed))
	if resp.Decomposed {
		fmt.Fprintf(os.Stdout, "Sub-queries: %s\n", strings.Join(resp.SubQueries, " | "))
	}
	if resp.Escalated {
		fmt.Fprintln(os.Stdout, "Escalated: yes")
	}
	fmt.Fprintf(os.Stdout, "Quality: %s (coverage %.2f)\n\n", resp.Quality.Tier, resp.Quality.Coverage)

	if len(resp.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-50s  %-6s  %-8s  %s\n",
		"Rank", "Title", "Year", "Score", "Backends")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))

	for _, e := range resp.Results {
		title := e.Item.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		year := ""
		if e.Item.Year > 0 {
			year = fmt.Sprintf("%d", e.Item.Year)
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-50s  %-6s  %-8.4f  %s\n",
			e.Rank, title, year, e.Score, joinBackends(e.Backends))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(resp.Results))
	return nil
}

func init() {
	searchCmd.Flags().String("query", "", "natural-language research query")
	searchCmd.Flags().Int("limit", 0, "maximum number of results (default from config)")
	searchCmd.Flags().String("mode", "", "force an intent and skip classification")
	searchCmd.Flags().Duration("timeout", 0, "bound the whole pass; expired backends contribute nothing")
	searchCmd.Flags().Bool("json", false, "output the full response as JSON")
	searchCmd.Flags().String("save", "", "save the pass to a YAML file")
	searchCmd.Flags().String("load", "", "re-render a saved pass instead of searching")

	rootCmd.AddCommand(searchCmd)
}
