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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidConversation indicates a Conversation failed validation.
	ErrInvalidConversation = errors.New("invalid conversation")

	// ErrInvalidMessage indicates a Message failed validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidUpload indicates an UploadJob failed validation.
	ErrInvalidUpload = errors.New("invalid upload job")

	// ErrEmptyConversationID indicates a missing conversation identifier.
	ErrEmptyConversationID = errors.New("conversation id cannot be empty")

	// ErrEmptyText indicates the message Text field is empty.
	ErrEmptyText = errors.New("message text cannot be empty")

	// ErrEmptyUsername indicates the message Username field is empty.
	ErrEmptyUsername = errors.New("message username cannot be empty")

	// ErrZeroTimestamp indicates a message without a concrete timestamp.
	ErrZeroTimestamp = errors.New("timestamp must be concrete")

	// ErrInvalidMessageKind indicates an invalid MessageKind value.
	ErrInvalidMessageKind = errors.New("invalid message kind")

	// ErrInvalidUploadStatus indicates an invalid UploadStatus value.
	ErrInvalidUploadStatus = errors.New("invalid upload status")

	// ErrDMUsersMismatch indicates the DM flag and member list disagree.
	ErrDMUsersMismatch = errors.New("dm flag and dm user list disagree")

	// ErrInvalidTransition indicates a disallowed upload status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)
