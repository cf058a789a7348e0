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

package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
//
// Chunks are keyed by a BigEndian corpus sequence number, so iterating
// the key range returns them in insertion order. ReplaceAll rewrites the
// whole key range in one transaction.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	return &ChunkRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ChunkRepository has no resources to release.
func (r *ChunkRepository) Close() error {
	return nil
}

// ListChunks retrieves every chunk in the corpus, in insertion order.
func (r *ChunkRepository) ListChunks(ctx context.Context) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := chunkKeyPrefix()
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, chunk)
		}
		return nil
	}, false)

	return results, err
}

// ReplaceAll atomically replaces the entire persisted corpus.
// Sequence numbers are assigned from slice order, so a later ListChunks
// returns the chunks exactly as given here.
func (r *ChunkRepository) ReplaceAll(ctx context.Context, chunks []*core.Chunk) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteChunkRange(tx); err != nil {
			return err
		}

		now := time.Now().UTC()
		for i, chunk := range chunks {
			if chunk.Id == 0 {
				chunk.Id = core.IDFromContent(chunk.Content)
			}
			if chunk.InsertedAt.IsZero() {
				chunk.InsertedAt = now
			}
			key := makeChunkKey(uint64(i))
			value := storage.MarshalChunk(chunk)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Clear removes every persisted chunk.
func (r *ChunkRepository) Clear(ctx context.Context) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteChunkRange(tx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of chunks in the corpus.
func (r *ChunkRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := chunkKeyPrefix()
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Titles returns the distinct chunk titles, in first-seen order.
func (r *ChunkRepository) Titles(ctx context.Context) ([]string, error) {
	chunks, err := r.ListChunks(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(chunks))
	var titles []string
	for _, chunk := range chunks {
		if _, ok := seen[chunk.Title]; ok {
			continue
		}
		seen[chunk.Title] = struct{}{}
		titles = append(titles, chunk.Title)
	}
	return titles, nil
}

// deleteChunkRange removes every chunk key within the transaction.
// Keys are collected before deletion because the iterator must not
// observe its own writes.
func deleteChunkRange(tx *badger.Txn) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	prefix := chunkKeyPrefix()
	var keys [][]byte
	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
