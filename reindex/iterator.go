// Copyright 2025 The recall Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"

	"github.com/perigee/recall/core"
	"github.com/perigee/recall/storage"
)

const (
	// DefaultBatchSize is the default number of messages per batch.
	DefaultBatchSize = 100
)

// MessageIterator iterates over all stored messages in batches.
type MessageIterator struct {
	repo      storage.MessageRepository
	batchSize int
}

// NewMessageIterator creates a new message iterator.
// batchSize: number of messages in each batch (must be > 0)
func NewMessageIterator(repo storage.MessageRepository, batchSize int) *MessageIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &MessageIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all messages, calling fn for each batch.
// Iteration stops on the first error from fn or when ctx is cancelled.
func (it *MessageIterator) ForEach(ctx context.Context, fn func([]*core.Message) error) error {
	batch := make([]*core.Message, 0, it.batchSize)

	err := it.repo.ScanMessages(ctx, func(msg *core.Message) error {
		batch = append(batch, msg)
		if len(batch) < it.batchSize {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	})
	if err != nil {
		return err
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}
