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


package badger

// Store bundles the backend with all repositories over it.
type Store struct {
	Backend       *Backend
	Conversations *ConversationRepository
	Messages      *MessageRepository
	Uploads       *UploadRepository
	Failures      *FailureRepository
}

// NewStore opens a persistent store at path and wires all repositories.
// Caller must Close when done.
func NewStore(path string) (*Store, error) {
	return newStore(path, false)
}

// NewMemoryStore creates an in-memory store for testing.
// Caller must Close when done.
func NewMemoryStore() (*Store, error) {
	return newStore("", true)
}

func newStore(path string, inMemory bool) (*Store, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	failures, err := NewFailureRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Store{
		Backend:       backend,
		Conversations: NewConversationRepository(backend),
		Messages:      NewMessageRepository(backend),
		Uploads:       NewUploadRepository(backend),
		Failures:      failures,
	}, nil
}

// Close releases the repositories and the backend.
func (s *Store) Close() error {
	if err := s.Failures.Close(); err != nil {
		s.Backend.Close()
		return err
	}
	return s.Backend.Close()
}
