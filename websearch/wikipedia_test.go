package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/answerit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikipediaSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "query", query.Get("action"))
		assert.Equal(t, "search", query.Get("list"))
		assert.Equal(t, "gold standard", query.Get("srsearch"))

		json.NewEncoder(w).Encode(map[string]any{
			"query": map[string]any{
				"search": []map[string]string{
					{"title": "Gold standard", "snippet": `The <span class="searchmatch">gold standard</span> is a monetary system.`},
				},
			},
		})
	}))
	defer server.Close()

	client, err := NewWikipediaClient(WithWikipediaEndpoint(server.URL))
	require.NoError(t, err)

	items, err := client.Search(context.Background(), "gold standard")
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, core.SourceTypeWikipedia, items[0].SourceType)
	assert.Equal(t, "Gold standard", items[0].Title)
	assert.Equal(t, "The gold standard is a monetary system.", items[0].Content)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Gold_standard", items[0].URL)
}

func TestWikipediaSearch_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"query": map[string]any{"search": []map[string]string{}},
		})
	}))
	defer server.Close()

	client, err := NewWikipediaClient(WithWikipediaEndpoint(server.URL))
	require.NoError(t, err)

	items, err := client.Search(context.Background(), "nonexistent topic xyz")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWikipediaSearch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewWikipediaClient(WithWikipediaEndpoint(server.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "query")
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain", stripHTML("plain"))
	assert.Equal(t, "bold text", stripHTML("<b>bold</b> text"))
	assert.Equal(t, "", stripHTML("  <span></span>  "))
}
