package badger

import (
	"context"
	"strconv"
	"time"

	"github.com/perigee/recall/core"
	"github.com/perigee/recall/storage"
	"github.com/perigee/recall/vector"
)

// VectorIndex implements vector.Store over the message repository, so the
// embedded database doubles as the vector backend without a separate service.
// IDs are the decimal form of the message content-hash key.
type VectorIndex struct {
	messages storage.MessageRepository
}

var _ vector.Store = (*VectorIndex)(nil)

// NewVectorIndex creates a vector.Store view over stored messages.
func NewVectorIndex(messages storage.MessageRepository) *VectorIndex {
	return &VectorIndex{messages: messages}
}

// Add stores the vectors on their message records. Documents and metadata
// are already held by the message store and are not duplicated.
func (v *VectorIndex) Add(ctx context.Context, ids []string, vectors [][]float32, documents []string, metadata []map[string]string) error {
	updates := make(map[core.ID][]float32, len(ids))
	for i, id := range ids {
		key, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return err
		}
		if i < len(vectors) {
			updates[core.ID(key)] = vectors[i]
		}
	}
	return v.messages.UpdateVectors(ctx, updates)
}

// Query returns the k nearest stored messages.
func (v *VectorIndex) Query(ctx context.Context, queryVector []float32, k int) ([]vector.Match, error) {
	found, err := v.messages.FindSimilar(ctx, queryVector, k)
	if err != nil {
		return nil, err
	}

	matches := make([]vector.Match, 0, len(found))
	for _, m := range found {
		matches = append(matches, vector.Match{
			ID:       strconv.FormatUint(uint64(m.Message.Key), 10),
			Distance: m.Distance,
			Document: m.Message.Text,
			Metadata: map[string]string{
				"conversation_id": m.Message.ConversationID,
				"username":        m.Message.Username,
				"timestamp":       m.Message.Timestamp.UTC().Format(time.RFC3339),
			},
		})
	}
	return matches, nil
}
