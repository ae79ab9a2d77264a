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


// Package ai provides the embedding abstraction used for semantic search.
//
// The Embedder interface generates vector embeddings from text. Two
// implementations ship with the module:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/mock: deterministic test double, no external dependencies
//
// Constructors return the Embedder interface to keep callers decoupled from
// the concrete client; the mock constructor returns its concrete type so
// tests can inject behavior and assert call counts.
//
// RetryPolicy and RetryWithBackoff wrap embedding calls against transient
// connection failures. The policy is an explicit value so backoff behavior
// is testable on its own.
package ai
