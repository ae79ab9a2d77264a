package openai

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/perigee/recall/ai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder   embeddings.Embedder
	dimensions int
	logger     *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// "none" as token works for local OpenAI-compatible services that don't
	// require authentication.
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:   embedder,
		dimensions: config.Dimensions,
		logger:     slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns the ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string. Blank
// input yields the zero vector without a network call.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if ai.IsBlank(text) {
		return ai.ZeroVector(e.dimensions), nil
	}

	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return ai.ZeroVector(e.dimensions), nil
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a
// batch. Blank entries are excluded from the service call and filled with
// zero vectors in the result.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	nonBlank := make([]string, 0, len(texts))
	positions := make([]int, 0, len(texts))
	for i, text := range texts {
		if !ai.IsBlank(text) {
			nonBlank = append(nonBlank, text)
			positions = append(positions, i)
		}
	}

	result := make([][]float32, len(texts))
	for i := range result {
		result[i] = ai.ZeroVector(e.dimensions)
	}
	if len(nonBlank) == 0 {
		return result, nil
	}

	e.logger.Debug("generating embeddings for texts", "count", len(nonBlank))

	vectors, err := e.embedder.EmbedDocuments(ctx, nonBlank)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(nonBlank), "err", err)
		return nil, err
	}

	for i, vec := range vectors {
		if i < len(positions) {
			result[positions[i]] = vec
		}
	}
	return result, nil
}
