package websearch

import "errors"

var (
	// ErrAPIKeyRequired indicates a missing API key.
	ErrAPIKeyRequired = errors.New("API key is required")

	// ErrRequestFailed indicates a non-success HTTP status from the
	// search backend.
	ErrRequestFailed = errors.New("search request failed")
)
