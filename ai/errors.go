package ai

import "errors"

var (
	// ErrInvalidMaxAttempts indicates a retry policy with a non-positive
	// attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")

	// ErrEmbeddingUnavailable indicates the embedding service could not be
	// reached after retries. Callers degrade rather than fail the batch.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
