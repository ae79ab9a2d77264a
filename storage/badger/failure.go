package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/perigee/recall/core"
	"github.com/perigee/recall/storage"
)

// FailureRepository implements storage.FailureRepository for BadgerDB.
// Failure records are append-only; the sequence preserves insertion order
// across restarts.
type FailureRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.FailureRepository = (*FailureRepository)(nil)

// NewFailureRepository creates a new FailureRepository.
func NewFailureRepository(backend *Backend) (*FailureRepository, error) {
	seq, err := backend.GetSequence(failureSeqName)
	if err != nil {
		return nil, err
	}
	return &FailureRepository{backend: backend, seq: seq}, nil
}

// Close releases the sequence.
func (r *FailureRepository) Close() error {
	return r.seq.Release()
}

// AddFailures appends failure records, assigning each a sequence number.
func (r *FailureRepository) AddFailures(ctx context.Context, records ...*core.FailedImportRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			seq, err := r.seq.Next()
			if err != nil {
				return err
			}
			record.Seq = seq
			if record.CreatedAt.IsZero() {
				record.CreatedAt = time.Now().UTC()
			}

			key := makeFailureKey(record.UploadID, record.Seq)
			if err := tx.Set(key, storage.MarshalFailedImportRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetFailuresByUpload returns all failures of one upload in insertion order.
func (r *FailureRepository) GetFailuresByUpload(ctx context.Context, uploadID string) ([]*core.FailedImportRecord, error) {
	var records []*core.FailedImportRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialFailureKey(uploadID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.UnmarshalFailedImportRecord(val)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return records, err
}
