package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perigee/recall/core"
)

func TestMessageRoundTrip(t *testing.T) {
	ts := time.Date(2023, 4, 1, 15, 30, 0, 0, time.UTC)
	msg := &core.Message{
		Key:            core.MessageKey("C1", ts, "alice", "hello"),
		ConversationID: "C1",
		Username:       "alice",
		Text:           "hello",
		Timestamp:      ts,
		IsEdited:       true,
		Reactions: []core.Reaction{
			{Emoji: "thumbsup", Users: []string{"bob", "carol"}},
		},
		Kind:       core.KindMessage,
		Payload:    map[string]string{"source": "export"},
		Vector:     []float32{0.25, -0.5, 0.125},
		InsertedAt: ts,
		UpdatedAt:  ts.Add(time.Minute),
	}

	got, err := UnmarshalMessage(MarshalMessage(msg))
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestConversationRoundTrip(t *testing.T) {
	conv := &core.Conversation{
		ID:              "D777",
		Name:            "alice, bob",
		CreatedAt:       time.Date(2023, 3, 1, 8, 0, 0, 0, time.UTC),
		CreatorUsername: "alice",
		IsDM:            true,
		DMUsers:         []string{"alice", "bob"},
		InsertedAt:      time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC),
	}

	got, err := UnmarshalConversation(MarshalConversation(conv))
	require.NoError(t, err)
	assert.Equal(t, conv, got)
}

func TestUploadJobRoundTrip(t *testing.T) {
	job := &core.UploadJob{
		ID:              "c4b7e6de-0000-4000-8000-000000000001",
		Filename:        "export.zip",
		Status:          core.StatusImporting,
		SizeBytes:       1 << 20,
		UploadedBytes:   1 << 20,
		CreatedAt:       time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2023, 5, 1, 10, 5, 0, 0, time.UTC),
		CurrentStage:    core.StageImport,
		StageProgress:   40,
		OverallProgress: 70,
		Message:         "importing conversation files",
		ExtractPath:     "/tmp/extract/abc",
		Conversations:   3,
		Messages:        120,
	}

	got, err := UnmarshalUploadJob(MarshalUploadJob(job))
	require.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestFailedImportRecordRoundTrip(t *testing.T) {
	record := &core.FailedImportRecord{
		Seq:          7,
		UploadID:     "c4b7e6de-0000-4000-8000-000000000001",
		FilePath:     "channels/general.txt",
		LineNumber:   42,
		RawLine:      "alice joined the channel",
		ErrorMessage: "unrecognized line format",
		CreatedAt:    time.Date(2023, 5, 1, 10, 3, 0, 0, time.UTC),
	}

	got, err := UnmarshalFailedImportRecord(MarshalFailedImportRecord(record))
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestUnmarshalMessage_Truncated(t *testing.T) {
	msg := &core.Message{
		Key:            1,
		ConversationID: "C1",
		Username:       "alice",
		Text:           "hello",
		Timestamp:      time.Date(2023, 4, 1, 15, 30, 0, 0, time.UTC),
		Kind:           core.KindMessage,
	}
	data := MarshalMessage(msg)

	_, err := UnmarshalMessage(data[:len(data)/2])
	assert.Error(t, err)
}
