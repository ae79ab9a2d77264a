package ai

import (
	"context"
	"strings"
)

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
//
// Blank input (empty or whitespace-only text) must produce the zero vector of
// the configured dimension without contacting the embedding service.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ZeroVector returns the deterministic zero vector of the given width.
func ZeroVector(dim int) []float32 {
	return make([]float32, dim)
}

// IsBlank reports whether text would embed as the zero vector.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
