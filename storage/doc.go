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


// Package storage provides the storage abstraction layer for recall.
//
// It defines repository interfaces that decouple the import pipeline and
// search from the storage implementation. The badger subpackage provides the
// production BadgerDB implementation; tests use its in-memory mode.
//
// Repositories:
//
//   - ConversationRepository: upsert-by-id conversation records
//   - MessageRepository: upsert-by-key messages, text scan, vector search
//   - UploadRepository: upload job records with a monotonic progress guard
//   - FailureRepository: append-only import failure records
//
// All repository implementations must be thread-safe, and all methods accept
// context.Context for cancellation.
package storage
