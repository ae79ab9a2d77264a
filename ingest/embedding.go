package ingest

import (
	"context"
	"sync"

	"github.com/perigee/recall/ai"
)

// embedBatch embeds texts through the bounded embedding pool. Transient
// failures are retried per the pipeline's retry policy; persistent failures
// fall back to a zero vector so the batch always completes.
func (p *Pipeline) embedBatch(ctx context.Context, texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		err := p.embedPool.Submit(func() {
			defer wg.Done()
			vectors[i] = p.embedOne(ctx, text)
		})
		if err != nil {
			wg.Done()
			p.logger.Error("submitting embedding task", "err", err)
			vectors[i] = ai.ZeroVector(p.dimensions)
		}
	}
	wg.Wait()

	return vectors
}

func (p *Pipeline) embedOne(ctx context.Context, text string) []float32 {
	var vec []float32
	err := ai.RetryWithBackoff(ctx, func() error {
		var embedErr error
		vec, embedErr = p.embedder.EmbedText(ctx, text)
		return embedErr
	}, p.retry)
	if err != nil {
		p.logger.Warn("embedding unavailable, storing zero vector", "err", err)
		return ai.ZeroVector(p.dimensions)
	}
	return vec
}
