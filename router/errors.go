package router

import "errors"

var (
	// ErrChatModelRequired indicates a nil chat model was provided.
	ErrChatModelRequired = errors.New("chat model is required")
)
