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

package vectorstore

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

// Store owns the chunk corpus and the similarity index derived from it.
//
// Every mutation re-embeds the full corpus, builds a fresh index off to
// the side, publishes it with an atomic pointer swap, and rewrites the
// persisted corpus in one transaction. Writers are serialized by a
// mutex; readers take index snapshots without locking.
type Store struct {
	repository storage.ChunkRepository
	embedder   ai.Embedder
	logger     *slog.Logger

	mu     sync.Mutex // serializes writers; guards corpus
	corpus []*core.Chunk
	index  atomic.Pointer[Index]
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a Store backed by the given repository and embedder.
// The persisted corpus is loaded and the index rebuilt from the stored
// vectors, so no embedding calls happen at construction time.
func New(ctx context.Context, repository storage.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Store, error) {
	if repository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Store{
		repository: repository,
		embedder:   embedder,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	chunks, err := repository.ListChunks(ctx)
	if err != nil {
		return nil, err
	}
	s.corpus = chunks
	if len(chunks) > 0 {
		s.index.Store(newIndex(chunks))
		s.logger.Info("loaded persisted corpus", "chunks", len(chunks))
	}

	return s, nil
}

// Index returns the current index snapshot, or ErrEmptyIndex when the
// corpus is empty.
func (s *Store) Index() (*Index, error) {
	idx := s.index.Load()
	if idx == nil || idx.Len() == 0 {
		return nil, ErrEmptyIndex
	}
	return idx, nil
}

// AddDocuments appends chunks to the corpus and rebuilds the index.
// The whole corpus is re-embedded; on failure the previous index and
// persisted corpus are left untouched.
func (s *Store) AddDocuments(ctx context.Context, chunks []*core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*core.Chunk, 0, len(s.corpus)+len(chunks))
	next = append(next, s.corpus...)
	next = append(next, chunks...)

	return s.rebuildLocked(ctx, next)
}

// RemoveByTitle removes every chunk whose title matches and rebuilds.
// When the filtered corpus is empty the index is dropped and all
// persisted artifacts deleted.
func (s *Store) RemoveByTitle(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*core.Chunk, 0, len(s.corpus))
	for _, chunk := range s.corpus {
		if chunk.Title != title {
			next = append(next, chunk)
		}
	}
	if len(next) == len(s.corpus) {
		return nil
	}

	if len(next) == 0 {
		if err := s.repository.Clear(ctx); err != nil {
			return err
		}
		s.corpus = nil
		s.index.Store(nil)
		s.logger.Info("corpus emptied, index dropped", "title", title)
		return nil
	}

	return s.rebuildLocked(ctx, next)
}

// Titles returns the distinct corpus titles, in first-seen order.
func (s *Store) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.corpus))
	var titles []string
	for _, chunk := range s.corpus {
		if _, ok := seen[chunk.Title]; ok {
			continue
		}
		seen[chunk.Title] = struct{}{}
		titles = append(titles, chunk.Title)
	}
	return titles
}

// Count returns the number of chunks in the corpus.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.corpus)
}

// rebuildLocked re-embeds the corpus, builds a fresh index, persists
// the corpus, then publishes the index. Caller must hold s.mu.
func (s *Store) rebuildLocked(ctx context.Context, chunks []*core.Chunk) error {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		s.logger.Error("error embedding corpus for rebuild", "chunks", len(chunks), "err", err)
		return err
	}
	if len(vectors) != len(chunks) {
		s.logger.Error("embedding count mismatch", "expected", len(chunks), "actual", len(vectors))
		return ErrEmbeddingMismatch
	}
	for i, chunk := range chunks {
		chunk.Vector = vectors[i]
	}

	if err := s.repository.ReplaceAll(ctx, chunks); err != nil {
		s.logger.Error("error persisting rebuilt corpus", "chunks", len(chunks), "err", err)
		return err
	}

	s.corpus = chunks
	s.index.Store(newIndex(chunks))
	s.logger.Info("index rebuilt", "chunks", len(chunks))
	return nil
}
