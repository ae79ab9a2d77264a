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
	"fmt"
	"io"
	"time"

	"github.com/perigee/recall/ai"
	"github.com/perigee/recall/core"
	"github.com/perigee/recall/storage"
	"github.com/perigee/recall/vector"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of messages to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of messages)
	ReportInterval int

	// Retry is the backoff policy for embedding calls
	Retry ai.RetryPolicy
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		Retry:          ai.DefaultRetryPolicy(),
	}
}

// Reindexer orchestrates re-embedding of every stored message.
type Reindexer struct {
	messages  storage.MessageRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *MessageIterator
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(messages storage.MessageRepository, index vector.Store, embedder ai.Embedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reindexer{
		messages:  messages,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(index, embedder, config.Retry),
		iterator:  NewMessageIterator(messages, config.BatchSize),
	}
}

// Run re-embeds every message in the database with the configured embedder.
// Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context) error {
	total, err := r.messages.CountMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to count messages: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No messages found in database (0 messages)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d messages (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(batch []*core.Message) error {
		if err := r.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(batch)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d messages in %v (%.1f messages/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
