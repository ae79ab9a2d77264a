package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/perigee/recall/core"
	"github.com/perigee/recall/storage"
)

// ConversationRepository implements storage.ConversationRepository for BadgerDB.
type ConversationRepository struct {
	backend *Backend
}

var _ storage.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(backend *Backend) *ConversationRepository {
	return &ConversationRepository{backend: backend}
}

// UpsertConversation inserts or replaces a conversation by its external id.
// InsertedAt of an existing record is preserved.
func (r *ConversationRepository) UpsertConversation(ctx context.Context, conv *core.Conversation) (*core.Conversation, error) {
	if err := core.ValidateConversation(conv); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeConversationKey(conv.ID)

		now := time.Now().UTC()
		old, err := readConversation(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			conv.InsertedAt = old.InsertedAt
		} else {
			conv.InsertedAt = now
		}
		conv.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalConversation(conv)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return conv, err
}

// GetConversation retrieves a conversation by id.
func (r *ConversationRepository) GetConversation(ctx context.Context, id string) (*core.Conversation, error) {
	var conv *core.Conversation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		conv, err = readConversation(tx, makeConversationKey(id))
		if err != nil {
			return err
		}
		if conv == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return conv, err
}

// ListConversations returns all conversations, ordered by id.
func (r *ConversationRepository) ListConversations(ctx context.Context) ([]*core.Conversation, error) {
	var convs []*core.Conversation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(conversationPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				conv, err := storage.UnmarshalConversation(val)
				if err != nil {
					return err
				}
				convs = append(convs, conv)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return convs, err
}

// readConversation reads a conversation inside a transaction.
// Returns nil, nil when the key doesn't exist.
func readConversation(tx *badger.Txn, key []byte) (*core.Conversation, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var conv *core.Conversation
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		conv, unmarshalErr = storage.UnmarshalConversation(val)
		return unmarshalErr
	})
	return conv, err
}
