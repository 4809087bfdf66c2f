// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package litsearch queries the external literature-search service for
// papers related to a research idea. The service is rate-limited; HTTP 429
// responses are retried with exponential backoff and every other non-2xx
// status is an unretryable failure for that call. Callers degrade a failed
// search to "no supporting literature found" rather than aborting.
package litsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/discovery-engine/internal/httputil"
	"github.com/pdiddy/discovery-engine/pkg/types"
)

// apiBase is the literature search endpoint (Semantic Scholar wire shape).
// Declared as a var so tests can substitute an httptest server.
var apiBase = "https://api.semanticscholar.org/graph/v1/paper/search"

// searchFields are the record fields requested for every result.
const searchFields = "title,abstract,year,citationCount,authors,url"

// maxAuthors caps how many author names are kept per record.
const maxAuthors = 3

// Client queries the literature-search service.
type Client struct {
	HTTP   *http.Client
	Config types.SearchConfig
}

// NewClient builds a Client from a SearchConfig, applying the 10s default
// request timeout.
func NewClient(cfg types.SearchConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		HTTP:   &http.Client{Timeout: timeout},
		Config: cfg,
	}
}

// defaultTimeout is the fixed literature-search request timeout.
const defaultTimeout = 10 * time.Second

// Search requests up to limit papers matching query and returns those
// carrying a non-empty abstract. Rate limiting is retried up to three
// attempts with 2s/4s/8s backoff; after that, or on any other non-OK
// status, an error is returned and the caller decides how to degrade.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]types.PaperRecord, error) {
	if query == "" {
		return nil, fmt.Errorf("empty literature search query")
	}
	if limit <= 0 {
		limit = c.Config.MaxResults
	}
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {searchFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	if c.Config.APIKey != "" {
		req.Header.Set("x-api-key", c.Config.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("literature search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("literature search rate limited after retries")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("literature search returned HTTP %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing literature search response: %w", err)
	}

	var records []types.PaperRecord
	for _, paper := range sr.Data {
		if paper.Abstract == "" {
			continue
		}
		r := types.PaperRecord{
			Title:     paper.Title,
			Abstract:  paper.Abstract,
			Year:      paper.Year,
			Citations: paper.CitationCount,
			URL:       paper.URL,
		}
		for i, a := range paper.Authors {
			if i >= maxAuthors {
				break
			}
			r.Authors = append(r.Authors, a.Name)
		}
		records = append(records, r)
	}
	return records, nil
}

// Literature search API JSON structures.
type searchResponse struct {
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Data   []searchPaper `json:"data"`
}

type searchPaper struct {
	PaperID       string         `json:"paperId"`
	Title         string         `json:"title"`
	Abstract      string         `json:"abstract"`
	Year          int            `json:"year"`
	CitationCount int            `json:"citationCount"`
	URL           string         `json:"url"`
	Authors       []searchAuthor `json:"authors"`
}

type searchAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}
