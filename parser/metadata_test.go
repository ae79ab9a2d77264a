package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata_Channel(t *testing.T) {
	lines := []string{
		"Channel Name: #general",
		"Channel ID: C042ABCD",
		"Created: 2023-01-01 00:00:00 UTC by admin",
		"Type: Channel",
		"Topic: all things engineering",
		"Topic Set By: alice",
		"Topic Set At: 2023-02-01 09:00:00 UTC",
		"Purpose: keep everyone in the loop",
	}

	conv, err := ParseMetadata(lines)
	require.NoError(t, err)

	assert.Equal(t, "C042ABCD", conv.ID)
	assert.Equal(t, "general", conv.Name)
	assert.Equal(t, "admin", conv.CreatorUsername)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), conv.CreatedAt)
	assert.Equal(t, "all things engineering", conv.Topic)
	assert.Equal(t, "alice", conv.TopicSetBy)
	assert.Equal(t, time.Date(2023, 2, 1, 9, 0, 0, 0, time.UTC), conv.TopicSetAt)
	assert.Equal(t, "keep everyone in the loop", conv.Purpose)
	assert.False(t, conv.IsDM)
	assert.Empty(t, conv.DMUsers)
}

func TestParseMetadata_ArchivedChannel(t *testing.T) {
	lines := []string{
		"Channel Name: #oldproject",
		"Channel ID: C099",
		"Archived: true",
		"Archived By: admin",
		"Archived At: 2023-06-01 12:00:00 UTC",
	}

	conv, err := ParseMetadata(lines)
	require.NoError(t, err)

	assert.True(t, conv.IsArchived)
	assert.Equal(t, "admin", conv.ArchivedBy)
	assert.Equal(t, time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC), conv.ArchivedAt)
}

func TestParseMetadata_DM(t *testing.T) {
	lines := []string{
		"Private conversation between: alice, bob and carol",
		"Conversation ID: D777",
		"Created: 2023-03-01 08:00:00 UTC",
	}

	conv, err := ParseMetadata(lines)
	require.NoError(t, err)

	assert.Equal(t, "D777", conv.ID)
	assert.True(t, conv.IsDM)
	assert.Equal(t, []string{"alice", "bob", "carol"}, conv.DMUsers)
	assert.Equal(t, "alice, bob, carol", conv.Name)
	assert.Equal(t, time.Date(2023, 3, 1, 8, 0, 0, 0, time.UTC), conv.CreatedAt)
}

func TestParseMetadata_DMTwoUsers(t *testing.T) {
	lines := []string{
		"Private conversation between alice and bob",
		"ID: D100",
	}

	conv, err := ParseMetadata(lines)
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, conv.DMUsers)
}

func TestParseMetadata_MissingID(t *testing.T) {
	_, err := ParseMetadata([]string{"Channel Name: #general"})
	assert.ErrorIs(t, err, ErrMissingConversationID)

	_, err = ParseMetadata([]string{"Private conversation between alice and bob"})
	assert.ErrorIs(t, err, ErrMissingConversationID)
}

func TestParseMetadata_IgnoresUnknownKeys(t *testing.T) {
	lines := []string{
		"Channel ID: C1",
		"Export Version: 3",
		"a line with no key-value shape",
	}

	conv, err := ParseMetadata(lines)
	require.NoError(t, err)
	assert.Equal(t, "C1", conv.ID)
}
