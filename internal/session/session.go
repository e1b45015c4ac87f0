// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session persists completed research passes to disk. A saved
// pass can be reloaded and re-rendered later without re-querying any
// backend. Implements: prd006-surface R4.
package session

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-orchestrator/internal/orchestrator"
)

// PassFile is the on-disk representation of one search pass: the full
// structured response plus the moment it was saved.
type PassFile struct {
	SavedAt time.Time                    `yaml:"saved_at"`
	Search  *orchestrator.SearchResponse `yaml:"search"`
}

// WriteSearch saves a search response to a YAML file.
func WriteSearch(path string, resp *orchestrator.SearchResponse) error {
	pf := PassFile{
		SavedAt: time.Now().UTC(),
		Search:  resp,
	}
	data, err := yaml.Marshal(&pf)
	if err != nil {
		return fmt.Errorf("marshaling pass file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSearch loads a previously saved pass file from disk.
func ReadSearch(path string) (*PassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pass file: %w", err)
	}
	var pf PassFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing pass file: %w", err)
	}
	if pf.Search == nil {
		return nil, fmt.Errorf("pass file %s has no search section", path)
	}
	return &pf, nil
}
