// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load a paper corpus into the graph store",
	Long: `Index reads a YAML corpus of papers (titles, abstracts, authors,
citations, concepts) and loads it into the local SQLite graph database.
Papers that fail to load are skipped with a warning; re-indexing an
existing paper updates it in place.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	corpusPath, _ := cmd.Flags().GetString("corpus")
	if corpusPath == "" {
		return fmt.Errorf("corpus file required: pass it with --corpus")
	}

	graph, err := openGraph(cmd)
	if err != nil {
		return err
	}
	defer graph.Close()

	summary, err := graph.LoadCorpus(context.Background(), corpusPath, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Indexed %d paper(s)\n", summary.Loaded)
	if summary.Failed > 0 {
		return fmt.Errorf("%d paper(s) failed indexing", summary.Failed)
	}
	return nil
}

func init() {
	indexCmd.Flags().String("corpus", "", "path to the YAML corpus file")

	rootCmd.AddCommand(indexCmd)
}
