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

import (
	"fmt"
)

// ValidateConversation validates a Conversation according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - IsDM must agree with DMUsers: a DM carries a non-empty member list,
//     a channel carries none
//
// NOT validated (populated later):
//   - Topic/Purpose/Archived fields (absent in many exports)
//   - InsertedAt/UpdatedAt (set by storage)
func ValidateConversation(conv *Conversation) error {
	if conv == nil {
		return fmt.Errorf("%w: conversation is nil", ErrInvalidConversation)
	}

	if conv.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConversation, ErrEmptyConversationID)
	}

	if conv.IsDM != (len(conv.DMUsers) > 0) {
		return fmt.Errorf("%w: %w", ErrInvalidConversation, ErrDMUsersMismatch)
	}

	return nil
}

// ValidateMessage validates a Message according to domain rules.
//
// Validation rules:
//   - ConversationID must not be empty
//   - Username must not be empty
//   - Text must not be empty unless the message carries a payload
//   - Timestamp must be concrete (non-zero)
//   - Kind must be a known MessageKind
//   - SystemAction is only legal on system and archive messages
//   - FileID is only legal on file messages
//
// NOT validated (populated by the pipeline):
//   - Vector (empty until embedding runs)
//   - InsertedAt/UpdatedAt (set by storage)
func ValidateMessage(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if msg.ConversationID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyConversationID)
	}

	if msg.Username == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyUsername)
	}

	if msg.Text == "" && len(msg.Payload) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyText)
	}

	if msg.Timestamp.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrZeroTimestamp)
	}

	if err := ValidateMessageKind(msg.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	if msg.SystemAction != "" && msg.Kind != KindSystem && msg.Kind != KindArchive {
		return fmt.Errorf("%w: system action on %s message", ErrInvalidMessage, msg.Kind)
	}

	if msg.FileID != "" && msg.Kind != KindFile {
		return fmt.Errorf("%w: file id on %s message", ErrInvalidMessage, msg.Kind)
	}

	return nil
}

// ValidateMessageKind checks that kind is a defined MessageKind value.
func ValidateMessageKind(kind MessageKind) error {
	switch kind {
	case KindMessage, KindSystem, KindArchive, KindFile, KindBot:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMessageKind, int(kind))
	}
}

// ValidateUploadStatus checks that status is a defined UploadStatus value.
func ValidateUploadStatus(status UploadStatus) error {
	switch status {
	case StatusUploaded, StatusExtracting, StatusExtracted,
		StatusImporting, StatusImported, StatusError, StatusCancelled:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidUploadStatus, int(status))
	}
}

// ValidateTransition checks that an upload job may move from one status to
// another. Both values must be defined statuses.
func ValidateTransition(from, to UploadStatus) error {
	if err := ValidateUploadStatus(from); err != nil {
		return err
	}
	if err := ValidateUploadStatus(to); err != nil {
		return err
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
