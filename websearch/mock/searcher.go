// Package mock provides a test double for websearch.Searcher.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/answerit/core"
)

// MockSearcher is a test double for websearch.Searcher.
// It allows custom behavior injection via function fields.
type MockSearcher struct {
	// SearchFunc is called by Search if set.
	// If nil, returns the fixed Results slice.
	SearchFunc func(ctx context.Context, query string) ([]core.ContextItem, error)

	// Results is returned by Search when SearchFunc is nil.
	Results []core.ContextItem

	mu        sync.Mutex
	queries   []string
	callCount int
}

// NewMockSearcher creates a mock searcher returning no results.
// Note: Returns concrete type to allow test assertions.
func NewMockSearcher() *MockSearcher {
	return &MockSearcher{}
}

// Search records the query and returns the configured results.
func (m *MockSearcher) Search(ctx context.Context, query string) ([]core.ContextItem, error) {
	m.mu.Lock()
	m.callCount++
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return m.Results, nil
}

// CallCount returns the number of times Search was called.
func (m *MockSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Queries returns the queries passed to Search, in order.
func (m *MockSearcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries
}
