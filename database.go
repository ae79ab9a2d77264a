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


package recall

import (
	"io"
	"log/slog"

	"github.com/perigee/recall/ai"
	"github.com/perigee/recall/ai/openai"
	"github.com/perigee/recall/ingest"
	"github.com/perigee/recall/reindex"
	"github.com/perigee/recall/search"
	"github.com/perigee/recall/storage"
	"github.com/perigee/recall/storage/badger"
	"github.com/perigee/recall/vector"
)

// Database is the process-wide handle over storage, embeddings, and the
// vector index. Construct one per process and share it by reference.
type Database struct {
	store    *badger.Store
	index    vector.Store
	embedder ai.Embedder
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	index    vector.Store
	inMemory bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder injects an embedder, bypassing the OpenAI-compatible client.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithVectorStore injects a vector store. Default is the embedded index
// over the message repository.
func WithVectorStore(store vector.Store) DatabaseOption {
	return func(o *databaseOptions) {
		o.index = store
	}
}

// WithInMemory opens the storage backend in memory, ignoring the path.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the storage backend at filePath and wires the
// repositories, embedder, and vector index.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var store *badger.Store
	var err error
	if options.inMemory {
		store, err = badger.NewMemoryStore()
	} else {
		store, err = badger.NewStore(filePath)
	}
	if err != nil {
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	index := options.index
	if index == nil {
		index = badger.NewVectorIndex(store.Messages)
	}

	return &Database{
		store:    store,
		index:    index,
		embedder: embedder,
		logger:   slog.Default(),
	}, nil
}

// Close releases the storage backend.
func (db *Database) Close() error {
	return db.store.Close()
}

func (db *Database) Conversations() storage.ConversationRepository {
	return db.store.Conversations
}

func (db *Database) Messages() storage.MessageRepository {
	return db.store.Messages
}

func (db *Database) Uploads() storage.UploadRepository {
	return db.store.Uploads
}

func (db *Database) Failures() storage.FailureRepository {
	return db.store.Failures
}

func (db *Database) VectorStore() vector.Store {
	return db.index
}

func (db *Database) Embedder() ai.Embedder {
	return db.embedder
}

// NewPipeline creates an import pipeline over this database.
func (db *Database) NewPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(
		db.store.Uploads,
		db.store.Conversations,
		db.store.Messages,
		db.store.Failures,
		db.index,
		db.embedder,
		opts...,
	)
}

// NewSearcher creates a hybrid searcher over this database.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.store.Messages, db.index, db.embedder, opts...)
}

// NewReindexer creates a reindexer over this database.
// progress: where to write progress output (typically os.Stderr)
func (db *Database) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(db.store.Messages, db.index, db.embedder, config, progress)
}
