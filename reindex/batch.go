package reindex

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/perigee/recall/ai"
	"github.com/perigee/recall/core"
	"github.com/perigee/recall/vector"
)

// BatchProcessor re-embeds batches of messages and writes the new vectors
// through the vector index.
type BatchProcessor struct {
	index    vector.Store
	embedder ai.Embedder
	policy   ai.RetryPolicy
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(index vector.Store, embedder ai.Embedder, policy ai.RetryPolicy) *BatchProcessor {
	return &BatchProcessor{
		index:    index,
		embedder: embedder,
		policy:   policy,
	}
}

// Process generates embeddings for a batch of messages and replaces their
// indexed vectors. Vectors are normalized after embedding so cosine
// similarity stays valid.
func (bp *BatchProcessor) Process(ctx context.Context, messages []*core.Message) error {
	if len(messages) == 0 {
		return nil
	}

	texts := make([]string, len(messages))
	for i, msg := range messages {
		texts[i] = msg.Text
	}

	var embeddings [][]float32
	err := ai.RetryWithBackoff(ctx, func() error {
		var embedErr error
		embeddings, embedErr = bp.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, bp.policy)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.policy.MaxAttempts, err)
	}

	if len(embeddings) != len(messages) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(messages), len(embeddings))
	}

	ids := make([]string, len(messages))
	vectors := make([][]float32, len(messages))
	metadata := make([]map[string]string, len(messages))
	for i, msg := range messages {
		ids[i] = strconv.FormatUint(uint64(msg.Key), 10)
		vectors[i] = NormalizeVector(embeddings[i])
		metadata[i] = map[string]string{
			"conversation_id": msg.ConversationID,
			"username":        msg.Username,
			"timestamp":       msg.Timestamp.UTC().Format(time.RFC3339),
		}
	}

	if err := bp.index.Add(ctx, ids, vectors, texts, metadata); err != nil {
		return fmt.Errorf("failed to update vectors: %w", err)
	}
	return nil
}
