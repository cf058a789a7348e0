package storage

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// ChunkRepository provides durable storage for the chunk corpus.
// Chunks persist together with their embedding vectors, so the
// similarity index can be reconstructed after a restart without
// calling the embedding service.
//
// Implementations must be thread-safe and support concurrent reads.
type ChunkRepository interface {
	// ListChunks retrieves every chunk in the corpus, in insertion order.
	ListChunks(ctx context.Context) ([]*core.Chunk, error)

	// ReplaceAll atomically replaces the entire persisted corpus with
	// the given chunks. The previous records are dropped and the new
	// ones written in a single transaction; readers observe either the
	// old corpus or the new one, never a mix.
	ReplaceAll(ctx context.Context, chunks []*core.Chunk) error

	// Clear removes every persisted chunk.
	Clear(ctx context.Context) error

	// Count returns the number of chunks in the corpus.
	Count(ctx context.Context) (int, error)

	// Titles returns the distinct chunk titles, in first-seen order.
	Titles(ctx context.Context) ([]string, error)

	// Close closes the repository and releases resources.
	Close() error
}
