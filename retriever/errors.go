package retriever

import "errors"

var (
	// ErrStoreRequired indicates a nil vector store was provided.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrEmbedderRequired indicates a nil embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidTopK indicates a non-positive top-K was configured.
	ErrInvalidTopK = errors.New("top-K must be positive")
)
