// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/research-orchestrator/internal/httputil"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

// VectorClient queries an external vector search service over HTTP (R2.1).
// The service holds the embedding model and index; this adapter only
// speaks its JSON wire format.
type VectorClient struct {
	Client *http.Client
	Cfg    types.VectorConfig
}

// NewVectorClient builds a client with the configured timeout.
func NewVectorClient(cfg types.VectorConfig) *VectorClient {
	return &VectorClient{
		Client: &http.Client{Timeout: cfg.Timeout},
		Cfg:    cfg,
	}
}

type vectorRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type vectorResponse struct {
	Hits []vectorHit `json:"hits"`
}

type vectorHit struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Snippet string   `json:"snippet"`
	Authors []string `json:"authors"`
	Year    int      `json:"year"`
	Score   float64  `json:"score"`
}

// Search posts the query to the service's /search endpoint and returns
// hits ranked by descending similarity. An indexed-but-empty store
// answers with zero hits, which comes back as an empty list, not an
// error (R2.1).
func (c *VectorClient) Search(ctx context.Context, query string, limit int) ([]types.Item, error) {
	if query == "" {
		return nil, fmt.Errorf("empty vector query")
	}
	if limit <= 0 {
		limit = 10
	}

	body, err := json.Marshal(vectorRequest{Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("encoding vector request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.Cfg.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.Cfg.UserAgent)
	if c.Cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.Cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("vector service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vector service returned HTTP %d", resp.StatusCode)
	}

	var vr vectorResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("parsing vector response: %w", err)
	}

	items := make([]types.Item, 0, len(vr.Hits))
	for _, h := range vr.Hits {
		items = append(items, types.Item{
			ID:      h.ID,
			Title:   h.Title,
			Snippet: h.Snippet,
			Authors: h.Authors,
			Year:    h.Year,
			Score:   h.Score,
			Source:  types.BackendVector,
		})
	}
	return items, nil
}
