package storage

import (
	"context"

	"github.com/perigee/recall/core"
)

// VectorMatch is one nearest-neighbor hit from FindSimilar. Distance is
// 1 minus cosine similarity for unit vectors.
type VectorMatch struct {
	Message  *core.Message
	Distance float32
}

// ConversationRepository provides operations for conversation records.
// Conversations are keyed by their stable external id; re-importing the same
// export never duplicates one.
type ConversationRepository interface {
	// UpsertConversation inserts or replaces a conversation by id.
	// InsertedAt of an existing record is preserved; UpdatedAt is set.
	UpsertConversation(ctx context.Context, conv *core.Conversation) (*core.Conversation, error)

	// GetConversation retrieves a conversation by id.
	// Returns ErrNotFound if it doesn't exist.
	GetConversation(ctx context.Context, id string) (*core.Conversation, error)

	// ListConversations returns all conversations, ordered by id.
	ListConversations(ctx context.Context) ([]*core.Conversation, error)
}

// MessageRepository provides operations for message records. Messages are
// keyed by the content hash of (conversation, timestamp, username, text), so
// re-running an import upserts instead of duplicating.
type MessageRepository interface {
	// UpsertMessages inserts or updates messages by key. For an existing
	// key the stored embedding vector is preserved when the incoming
	// message carries none. Returns the number of newly inserted messages.
	UpsertMessages(ctx context.Context, messages ...*core.Message) (int, error)

	// GetMessage retrieves a message by key.
	// Returns ErrNotFound if it doesn't exist.
	GetMessage(ctx context.Context, key core.ID) (*core.Message, error)

	// GetMessagesByConversation returns all messages of one conversation,
	// ordered by timestamp.
	GetMessagesByConversation(ctx context.Context, conversationID string) ([]*core.Message, error)

	// ScanMessages invokes fn for every stored message. Iteration stops on
	// the first error from fn or when ctx is cancelled.
	ScanMessages(ctx context.Context, fn func(*core.Message) error) error

	// SearchText returns messages whose text contains the query as a
	// case-insensitive substring, up to limit.
	SearchText(ctx context.Context, query string, limit int) ([]*core.Message, error)

	// UpdateVectors replaces the embedding vectors of the given messages.
	UpdateVectors(ctx context.Context, vectors map[core.ID][]float32) error

	// FindSimilar returns up to limit messages nearest to the given vector,
	// closest first. Messages without embeddings are skipped.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*VectorMatch, error)

	// CountMessages returns the total number of stored messages.
	CountMessages(ctx context.Context) (int, error)
}

// UploadRepository provides operations for upload job records.
type UploadRepository interface {
	// CreateUpload stores a new upload job.
	// Returns ErrDuplicateKey if the id already exists.
	CreateUpload(ctx context.Context, job *core.UploadJob) error

	// GetUpload retrieves an upload job by id.
	// Returns ErrNotFound if it doesn't exist.
	GetUpload(ctx context.Context, id string) (*core.UploadJob, error)

	// ListUploads returns all upload jobs, newest first.
	ListUploads(ctx context.Context) ([]*core.UploadJob, error)

	// UpdateUpload persists job changes. Within a stage, StageProgress
	// never regresses: a lower incoming value is clamped to the stored
	// one (last-write-wins for everything else). Returns ErrNotFound if
	// the job doesn't exist.
	UpdateUpload(ctx context.Context, job *core.UploadJob) (*core.UploadJob, error)
}

// FailureRepository provides append-only storage for import failures.
type FailureRepository interface {
	// AddFailures appends failure records, assigning each a sequence
	// number that preserves insertion order.
	AddFailures(ctx context.Context, records ...*core.FailedImportRecord) error

	// GetFailuresByUpload returns all failures of one upload job in
	// insertion order.
	GetFailuresByUpload(ctx context.Context, uploadID string) ([]*core.FailedImportRecord, error)
}
