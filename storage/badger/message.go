package badger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/perigee/recall/core"
	"github.com/perigee/recall/storage"
)

// MessageRepository implements storage.MessageRepository for BadgerDB.
type MessageRepository struct {
	backend *Backend
}

var _ storage.MessageRepository = (*MessageRepository)(nil)

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(backend *Backend) *MessageRepository {
	return &MessageRepository{backend: backend}
}

// UpsertMessages inserts or updates messages by their content-hash key.
// A re-imported message never duplicates: the existing record is refreshed
// in place, keeping its InsertedAt and keeping its embedding vector when the
// incoming message carries none. Returns the number of newly inserted
// messages.
func (r *MessageRepository) UpsertMessages(ctx context.Context, messages ...*core.Message) (int, error) {
	inserted := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, msg := range messages {
			key := makeMessageKey(msg.Key)

			old, err := readMessage(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if old != nil {
				msg.InsertedAt = old.InsertedAt
				if len(msg.Vector) == 0 {
					msg.Vector = old.Vector
				}
			} else {
				msg.InsertedAt = now
				inserted++
			}
			msg.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalMessage(msg)); err != nil {
				return err
			}

			// Conversation index; the key is content-derived, so an upsert
			// writes the same index entry it wrote before.
			convKey := makeMessageConvKey(msg.ConversationID, msg.Timestamp.UnixMicro(), msg.Key)
			if err := tx.Set(convKey, storage.MarshalID(msg.Key)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return inserted, err
}

// GetMessage retrieves a message by key.
func (r *MessageRepository) GetMessage(ctx context.Context, key core.ID) (*core.Message, error) {
	var msg *core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		msg, err = readMessage(tx, makeMessageKey(key))
		if err != nil {
			return err
		}
		if msg == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return msg, err
}

// GetMessagesByConversation returns all messages of one conversation,
// ordered by timestamp via the conversation index.
func (r *MessageRepository) GetMessagesByConversation(ctx context.Context, conversationID string) ([]*core.Message, error) {
	var msgs []*core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialMessageConvKey(conversationID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var key core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				key, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			msg, err := readMessage(tx, makeMessageKey(key))
			if err != nil {
				return err
			}
			if msg != nil {
				msgs = append(msgs, msg)
			}
		}
		return nil
	}, false)
	return msgs, err
}

// ScanMessages invokes fn for every stored message.
func (r *MessageRepository) ScanMessages(ctx context.Context, fn func(*core.Message) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(messagePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var msg *core.Message
			err := iter.Item().Value(func(val []byte) error {
				var err error
				msg, err = storage.UnmarshalMessage(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(msg); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// SearchText returns messages whose text contains the query as a
// case-insensitive substring, up to limit, in key order.
func (r *MessageRepository) SearchText(ctx context.Context, query string, limit int) ([]*core.Message, error) {
	if query == "" {
		return nil, storage.ErrInvalidQuery
	}
	needle := strings.ToLower(query)

	var msgs []*core.Message
	err := r.ScanMessages(ctx, func(msg *core.Message) error {
		if limit > 0 && len(msgs) >= limit {
			return errScanDone
		}
		if strings.Contains(strings.ToLower(msg.Text), needle) {
			msgs = append(msgs, msg)
		}
		return nil
	})
	if err != nil && err != errScanDone {
		return nil, err
	}
	return msgs, nil
}

// UpdateVectors replaces the embedding vectors of the given messages.
func (r *MessageRepository) UpdateVectors(ctx context.Context, vectors map[core.ID][]float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for id, vector := range vectors {
			key := makeMessageKey(id)
			msg, err := readMessage(tx, key)
			if err != nil {
				return err
			}
			if msg == nil {
				return storage.ErrNotFound
			}

			msg.Vector = vector
			msg.UpdatedAt = time.Now().UTC()
			if err := tx.Set(key, storage.MarshalMessage(msg)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindSimilar delegates to the backend's brute-force scan.
func (r *MessageRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]*storage.VectorMatch, error) {
	return r.backend.FindSimilar(ctx, vector, limit)
}

// CountMessages returns the total number of stored messages.
func (r *MessageRepository) CountMessages(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(messagePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// errScanDone signals early termination of a scan; never returned to callers.
var errScanDone = errors.New("scan done")

// readMessage reads a message inside a transaction.
// Returns nil, nil when the key doesn't exist.
func readMessage(tx *badger.Txn, key []byte) (*core.Message, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var msg *core.Message
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		msg, unmarshalErr = storage.UnmarshalMessage(val)
		return unmarshalErr
	})
	return msg, err
}
