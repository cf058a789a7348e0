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

package retriever

import (
	"context"
	"log/slog"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/vectorstore"
)

// DefaultTopK is the number of chunks retrieved per query.
const DefaultTopK = 4

// Retriever performs top-K similarity retrieval over the document corpus.
type Retriever struct {
	store    *vectorstore.Store
	embedder ai.Embedder
	topK     int
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithTopK sets the number of chunks to retrieve.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(r *Retriever) error {
		if k <= 0 {
			return ErrInvalidTopK
		}
		r.topK = k
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// New creates a new Retriever.
func New(store *vectorstore.Store, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		store:    store,
		embedder: embedder,
		topK:     DefaultTopK,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve returns the top-K most similar document chunks for the query,
// most relevant first. Returns vectorstore.ErrEmptyIndex when no corpus
// exists; embedding failure is fatal to the query.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]core.ContextItem, error) {
	idx, err := r.store.Index()
	if err != nil {
		return nil, err
	}

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error embedding query", "err", err)
		return nil, err
	}

	matches := idx.Search(vector, r.topK)
	items := make([]core.ContextItem, 0, len(matches))
	for _, match := range matches {
		items = append(items, core.ContextItemFromChunk(match.Chunk))
	}

	r.logger.Debug("retrieved document chunks", "query", query, "hits", len(items))
	return items, nil
}
