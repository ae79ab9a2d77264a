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


package ingest

import "errors"

var (
	// ErrUploadRepositoryRequired is returned when an upload repository is not provided.
	ErrUploadRepositoryRequired = errors.New("upload repository required")

	// ErrConversationRepositoryRequired is returned when a conversation repository is not provided.
	ErrConversationRepositoryRequired = errors.New("conversation repository required")

	// ErrMessageRepositoryRequired is returned when a message repository is not provided.
	ErrMessageRepositoryRequired = errors.New("message repository required")

	// ErrFailureRepositoryRequired is returned when a failure repository is not provided.
	ErrFailureRepositoryRequired = errors.New("failure repository required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrArchiveCorrupt is returned when the uploaded archive cannot be read.
	ErrArchiveCorrupt = errors.New("archive corrupt")

	// ErrCancelled is returned by Run when the job was cancelled mid-flight.
	ErrCancelled = errors.New("job cancelled")

	// ErrAlreadyRunning is returned when a job already has an in-flight run.
	ErrAlreadyRunning = errors.New("job already running")

	// ErrNothingToRestart is returned when neither the archive nor the
	// extract directory survives for a restartable job.
	ErrNothingToRestart = errors.New("nothing to restart: archive and extract directory are gone")
)
