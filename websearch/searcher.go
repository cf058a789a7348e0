// Package websearch provides external evidence adapters.
//
// Adapters return structured context items so the fusion layer can cite
// titles and URLs. An empty result list is a valid outcome, never an
// error.
package websearch

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// Searcher retrieves external evidence for a query.
type Searcher interface {
	// Search returns evidence items for the query, best match first.
	// An empty slice means no results, not failure.
	Search(ctx context.Context, query string) ([]core.ContextItem, error)
}
