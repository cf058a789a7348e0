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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/answerit/core"
)

const (
	defaultTavilyEndpoint = "https://api.tavily.com/search"
	defaultMaxResults     = 3
	defaultTimeout        = 15 * time.Second
)

// TavilyClient searches the web through the Tavily API.
type TavilyClient struct {
	apiKey     string
	endpoint   string
	maxResults int
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Searcher = (*TavilyClient)(nil)

// TavilyOption configures a TavilyClient.
type TavilyOption func(*TavilyClient) error

// WithTavilyEndpoint overrides the API endpoint. Used in tests.
func WithTavilyEndpoint(endpoint string) TavilyOption {
	return func(c *TavilyClient) error {
		c.endpoint = endpoint
		return nil
	}
}

// WithTavilyMaxResults sets the number of results to request.
// Default is 3.
func WithTavilyMaxResults(n int) TavilyOption {
	return func(c *TavilyClient) error {
		if n > 0 {
			c.maxResults = n
		}
		return nil
	}
}

// WithTavilyTimeout sets the HTTP timeout.
// Default is 15 seconds.
func WithTavilyTimeout(d time.Duration) TavilyOption {
	return func(c *TavilyClient) error {
		c.httpClient.Timeout = d
		return nil
	}
}

// WithTavilyLogger sets a custom logger.
// Default is slog.Default().
func WithTavilyLogger(logger *slog.Logger) TavilyOption {
	return func(c *TavilyClient) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewTavilyClient creates a Tavily search client.
func NewTavilyClient(apiKey string, opts ...TavilyOption) (*TavilyClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &TavilyClient{
		apiKey:     apiKey,
		endpoint:   defaultTavilyEndpoint,
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

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search queries Tavily and maps results to web context items.
func (c *TavilyClient) Search(ctx context.Context, query string) ([]core.ContextItem, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: tavily returned status %d", ErrRequestFailed, resp.StatusCode)
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	items := make([]core.ContextItem, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		if result.Content == "" {
			continue
		}
		items = append(items, core.ContextItem{
			SourceType: core.SourceTypeWeb,
			Content:    result.Content,
			Title:      result.Title,
			URL:        result.URL,
		})
	}

	c.logger.Debug("web search completed", "query", query, "hits", len(items))
	return items, nil
}
