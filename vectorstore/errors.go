package vectorstore

import "errors"

var (
	// ErrEmptyIndex indicates that no index exists because the corpus is empty.
	ErrEmptyIndex = errors.New("index is empty")

	// ErrChunkRepositoryRequired indicates a nil chunk repository was provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")

	// ErrEmbedderRequired indicates a nil embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmbeddingMismatch indicates the embedding service returned a
	// different number of vectors than texts submitted.
	ErrEmbeddingMismatch = errors.New("embedding count does not match chunk count")
)
