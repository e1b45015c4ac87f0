// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// Corpus is the on-disk YAML form of a paper collection loaded into the
// graph store.
type Corpus struct {
	Papers []Paper `yaml:"papers"`
}

// LoadSummary reports what a corpus load did.
type LoadSummary struct {
	Loaded int
	Failed int
}

// LoadCorpus reads a YAML corpus file and inserts every paper into the
// store. A paper that fails to insert is reported on w and skipped; the
// load continues.
func (s *GraphStore) LoadCorpus(ctx context.Context, path string, w io.Writer) (LoadSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("reading corpus file: %w", err)
	}

	var corpus Corpus
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return LoadSummary{}, fmt.Errorf("parsing corpus file: %w", err)
	}

	var summary LoadSummary
	for _, p := range corpus.Papers {
		if err := s.AddPaper(ctx, p); err != nil {
			summary.Failed++
			if w != nil {
				fmt.Fprintf(w, "warning: skipping paper %s: %v\n", p.ID, err)
			}
			continue
		}
		summary.Loaded++
	}
	return summary, nil
}
