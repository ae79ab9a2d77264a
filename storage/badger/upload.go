package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/perigee/recall/core"
	"github.com/perigee/recall/storage"
)

// UploadRepository implements storage.UploadRepository for BadgerDB.
type UploadRepository struct {
	backend *Backend
}

var _ storage.UploadRepository = (*UploadRepository)(nil)

// NewUploadRepository creates a new UploadRepository.
func NewUploadRepository(backend *Backend) *UploadRepository {
	return &UploadRepository{backend: backend}
}

// CreateUpload stores a new upload job.
func (r *UploadRepository) CreateUpload(ctx context.Context, job *core.UploadJob) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeUploadKey(job.ID)

		if _, err := tx.Get(key); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		now := time.Now().UTC()
		job.CreatedAt = now
		job.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalUploadJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetUpload retrieves an upload job by id.
func (r *UploadRepository) GetUpload(ctx context.Context, id string) (*core.UploadJob, error) {
	var job *core.UploadJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		job, err = readUploadJob(tx, makeUploadKey(id))
		if err != nil {
			return err
		}
		if job == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return job, err
}

// ListUploads returns all upload jobs, newest first.
func (r *UploadRepository) ListUploads(ctx context.Context) ([]*core.UploadJob, error) {
	var jobs []*core.UploadJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(uploadPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				job, err := storage.UnmarshalUploadJob(val)
				if err != nil {
					return err
				}
				jobs = append(jobs, job)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Key order is id order; callers want recency.
	slices.SortFunc(jobs, func(a, b *core.UploadJob) int {
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return 1
		}
		return 0
	})
	return jobs, nil
}

// UpdateUpload persists job changes. Progress writes are last-write-wins
// except that StageProgress never regresses within a stage: a lower incoming
// value is clamped to the stored one.
func (r *UploadRepository) UpdateUpload(ctx context.Context, job *core.UploadJob) (*core.UploadJob, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeUploadKey(job.ID)

		old, err := readUploadJob(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		if old.CurrentStage == job.CurrentStage && old.Status == job.Status {
			if job.StageProgress < old.StageProgress {
				job.StageProgress = old.StageProgress
			}
			if job.OverallProgress < old.OverallProgress {
				job.OverallProgress = old.OverallProgress
			}
		}

		job.CreatedAt = old.CreatedAt
		job.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalUploadJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return job, err
}

// readUploadJob reads an upload job inside a transaction.
// Returns nil, nil when the key doesn't exist.
func readUploadJob(tx *badger.Txn, key []byte) (*core.UploadJob, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var job *core.UploadJob
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		job, unmarshalErr = storage.UnmarshalUploadJob(val)
		return unmarshalErr
	})
	return job, err
}
