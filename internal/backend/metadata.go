// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/research-orchestrator/internal/httputil"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

// openAlexWorksBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

// OpenAlexClient implements MetadataSearcher against the OpenAlex Works
// API (R2.3).
type OpenAlexClient struct {
	Client *http.Client
	Cfg    types.MetadataConfig
}

// NewOpenAlexClient builds a client with the configured timeout.
func NewOpenAlexClient(cfg types.MetadataConfig) *OpenAlexClient {
	return &OpenAlexClient{
		Client: &http.Client{Timeout: cfg.Timeout},
		Cfg:    cfg,
	}
}

// Search performs a structured bibliographic lookup. Filters map to
// OpenAlex filter syntax; the free-text query, when present, goes through
// relevance search. Item scores are position-derived since OpenAlex
// returns relevance order.
func (c *OpenAlexClient) Search(ctx context.Context, filters MetadataFilters, limit int) ([]types.Item, error) {
	if filters.IsEmpty() {
		return nil, fmt.Errorf("empty metadata query")
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 200 {
		limit = 200
	}

	params := url.Values{
		"per_page": {fmt.Sprintf("%d", limit)},
		"page":     {"1"},
	}
	if filters.Query != "" {
		params.Set("search", filters.Query)
	}

	var parts []string
	if filters.Author != "" {
		parts = append(parts, "raw_author_name.search:"+filters.Author)
	}
	if filters.Title != "" {
		parts = append(parts, "title.search:"+filters.Title)
	}
	if filters.YearFrom > 0 {
		parts = append(parts, fmt.Sprintf("from_publication_date:%d-01-01", filters.YearFrom))
	}
	if filters.YearTo > 0 {
		parts = append(parts, fmt.Sprintf("to_publication_date:%d-12-31", filters.YearTo))
	}
	if len(parts) > 0 {
		params.Set("filter", strings.Join(parts, ","))
	}

	if c.Cfg.Email != "" {
		params.Set("mailto", c.Cfg.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		openAlexWorksBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	total := len(oar.Results)
	items := make([]types.Item, 0, total)
	for i, work := range oar.Results {
		it := types.Item{
			Title:   work.Title,
			Snippet: snippet(reconstructAbstract(work.AbstractInvertedIndex)),
			Year:    work.PublicationYear,
			Venue:   work.PrimaryLocation.Source.DisplayName,
			Source:  types.BackendMetadata,
		}

		for _, a := range work.Authorships {
			if a.Author.DisplayName != "" {
				it.Authors = append(it.Authors, a.Author.DisplayName)
			}
		}

		// Prefer the bare DOI as identifier; OpenAlex is DOI-centric.
		if work.DOI != "" {
			it.ID = strings.TrimPrefix(work.DOI, "https://doi.org/")
		} else {
			it.ID = work.ID
		}

		// Position-based score: OpenAlex returns relevance order.
		if total > 1 {
			it.Score = 1.0 - float64(i)/float64(total-1)*0.9
		} else {
			it.Score = 1.0
		}

		items = append(items, it)
	}
	return items, nil
}

const snippetLen = 240

func snippet(abstract string) string {
	if len(abstract) <= snippetLen {
		return abstract
	}
	cut := strings.LastIndex(abstract[:snippetLen], " ")
	if cut < 0 {
		cut = snippetLen
	}
	return abstract[:cut] + "..."
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The index maps each word to the positions where it appears.
func reconstructAbstract(inverted map[string][]int) string {
	if len(inverted) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range inverted {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].pos < pairs[j].pos })

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	Source openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName string `json:"display_name"`
}
