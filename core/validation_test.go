package core

import (
	"errors"
	"testing"
	"time"
)

func validMessage() *Message {
	ts := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	return &Message{
		Key:            MessageKey("C1", ts, "alice", "hello"),
		ConversationID: "C1",
		Username:       "alice",
		Text:           "hello",
		Timestamp:      ts,
		Kind:           KindMessage,
	}
}

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr error
	}{
		{
			name:   "valid message",
			mutate: func(m *Message) {},
		},
		{
			name:    "empty conversation id",
			mutate:  func(m *Message) { m.ConversationID = "" },
			wantErr: ErrEmptyConversationID,
		},
		{
			name:    "empty username",
			mutate:  func(m *Message) { m.Username = "" },
			wantErr: ErrEmptyUsername,
		},
		{
			name:    "empty text without payload",
			mutate:  func(m *Message) { m.Text = "" },
			wantErr: ErrEmptyText,
		},
		{
			name: "empty text with payload is allowed",
			mutate: func(m *Message) {
				m.Text = ""
				m.Kind = KindBot
				m.Payload = map[string]string{"type": "bot_message"}
			},
		},
		{
			name:    "zero timestamp",
			mutate:  func(m *Message) { m.Timestamp = time.Time{} },
			wantErr: ErrZeroTimestamp,
		},
		{
			name:    "unknown kind",
			mutate:  func(m *Message) { m.Kind = MessageKind(99) },
			wantErr: ErrInvalidMessageKind,
		},
		{
			name: "system action on regular message",
			mutate: func(m *Message) {
				m.SystemAction = "archived"
			},
			wantErr: ErrInvalidMessage,
		},
		{
			name: "system action on archive message",
			mutate: func(m *Message) {
				m.Kind = KindArchive
				m.SystemAction = "channel_archive"
			},
		},
		{
			name: "file id on file message",
			mutate: func(m *Message) {
				m.Kind = KindFile
				m.FileID = "report.pdf"
			},
		},
		{
			name: "file id on regular message",
			mutate: func(m *Message) {
				m.FileID = "report.pdf"
			},
			wantErr: ErrInvalidMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validMessage()
			tt.mutate(msg)

			err := ValidateMessage(msg)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateMessage() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMessage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMessage_Nil(t *testing.T) {
	if err := ValidateMessage(nil); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("ValidateMessage(nil) error = %v, want %v", err, ErrInvalidMessage)
	}
}

func TestValidateConversation(t *testing.T) {
	tests := []struct {
		name    string
		conv    *Conversation
		wantErr error
	}{
		{
			name: "valid channel",
			conv: &Conversation{ID: "C042ABCD", Name: "general"},
		},
		{
			name: "valid dm",
			conv: &Conversation{ID: "D042ABCD", IsDM: true, DMUsers: []string{"alice", "bob"}},
		},
		{
			name:    "empty id",
			conv:    &Conversation{Name: "general"},
			wantErr: ErrEmptyConversationID,
		},
		{
			name:    "dm without members",
			conv:    &Conversation{ID: "D042ABCD", IsDM: true},
			wantErr: ErrDMUsersMismatch,
		},
		{
			name:    "channel with dm members",
			conv:    &Conversation{ID: "C042ABCD", DMUsers: []string{"alice"}},
			wantErr: ErrDMUsersMismatch,
		},
		{
			name:    "nil conversation",
			conv:    nil,
			wantErr: ErrInvalidConversation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConversation(tt.conv)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateConversation() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateConversation() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTransition(t *testing.T) {
	if err := ValidateTransition(StatusUploaded, StatusExtracting); err != nil {
		t.Errorf("ValidateTransition() unexpected error: %v", err)
	}
	if err := ValidateTransition(StatusImported, StatusImporting); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ValidateTransition() error = %v, want %v", err, ErrInvalidTransition)
	}
	if err := ValidateTransition(UploadStatus(0), StatusExtracting); !errors.Is(err, ErrInvalidUploadStatus) {
		t.Errorf("ValidateTransition() error = %v, want %v", err, ErrInvalidUploadStatus)
	}
}
