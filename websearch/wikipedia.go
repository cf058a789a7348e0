// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/answerit/core"
)

const defaultWikipediaEndpoint = "https://en.wikipedia.org/w/api.php"

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// WikipediaClient searches Wikipedia through the MediaWiki API.
type WikipediaClient struct {
	endpoint   string
	maxResults int
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Searcher = (*WikipediaClient)(nil)

// WikipediaOption configures a WikipediaClient.
type WikipediaOption func(*WikipediaClient) error

// WithWikipediaEndpoint overrides the API endpoint. Used in tests.
func WithWikipediaEndpoint(endpoint string) WikipediaOption {
	return func(c *WikipediaClient) error {
		c.endpoint = endpoint
		return nil
	}
}

// WithWikipediaMaxResults sets the number of results to request.
// Default is 3.
func WithWikipediaMaxResults(n int) WikipediaOption {
	return func(c *WikipediaClient) error {
		if n > 0 {
			c.maxResults = n
		}
		return nil
	}
}

// WithWikipediaTimeout sets the HTTP timeout.
// Default is 15 seconds.
func WithWikipediaTimeout(d time.Duration) WikipediaOption {
	return func(c *WikipediaClient) error {
		c.httpClient.Timeout = d
		return nil
	}
}

// WithWikipediaLogger sets a custom logger.
// Default is slog.Default().
func WithWikipediaLogger(logger *slog.Logger) WikipediaOption {
	return func(c *WikipediaClient) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewWikipediaClient creates a Wikipedia search client.
func NewWikipediaClient(opts ...WikipediaOption) (*WikipediaClient, error) {
	c := &WikipediaClient{
		endpoint:   defaultWikipediaEndpoint,
		maxResults: defaultMaxResults,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

type wikipediaResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

// Search queries the MediaWiki search API and maps results to
// wikipedia context items. Snippets arrive as HTML fragments and are
// stripped to plain text.
func (c *WikipediaClient) Search(ctx context.Context, query string) ([]core.ContextItem, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprintf("%d", c.maxResults))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: wikipedia returned status %d", ErrRequestFailed, resp.StatusCode)
	}

	var parsed wikipediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	items := make([]core.ContextItem, 0, len(parsed.Query.Search))
	for _, result := range parsed.Query.Search {
		snippet := stripHTML(result.Snippet)
		if snippet == "" {
			continue
		}
		items = append(items, core.ContextItem{
			SourceType: core.SourceTypeWikipedia,
			Content:    snippet,
			Title:      result.Title,
			URL:        pageURL(result.Title),
		})
	}

	c.logger.Debug("wikipedia search completed", "query", query, "hits", len(items))
	return items, nil
}

// pageURL builds the canonical article URL from a page title.
func pageURL(title string) string {
	return "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// stripHTML removes markup from a MediaWiki search snippet.
func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}
