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


// Package vector defines the vector store contract used for semantic search.
//
// Two implementations ship with the module: the embedded index in
// storage/badger and the remote backend in vector/weaviate.
package vector

import "context"

// Match is one nearest-neighbor hit. Distance is 1 minus cosine similarity
// for unit vectors, so 0 is identical and larger is farther.
type Match struct {
	ID       string
	Distance float32
	Document string
	Metadata map[string]string
}

// Store indexes documents with their embedding vectors and serves
// nearest-neighbor queries. Implementations must be safe for concurrent use.
type Store interface {
	// Add indexes documents. The four slices are parallel; ids are stable
	// and re-adding an id replaces its previous entry.
	Add(ctx context.Context, ids []string, vectors [][]float32, documents []string, metadata []map[string]string) error

	// Query returns up to k nearest neighbors of the given vector, closest
	// first.
	Query(ctx context.Context, vector []float32, k int) ([]Match, error)
}
