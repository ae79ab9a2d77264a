package weaviate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate/entities/models"
)

func TestObjectID_Deterministic(t *testing.T) {
	a := objectID("12345")
	b := objectID("12345")
	c := objectID("54321")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestParseMatches(t *testing.T) {
	resp := &models.GraphQLResponse{
		Data: map[string]models.JSONObject{
			"Get": map[string]interface{}{
				className: []interface{}{
					map[string]interface{}{
						"docId":          "42",
						"content":        "deploy finished",
						"conversationId": "C1",
						"username":       "alice",
						"timestamp":      "2023-01-01T10:00:00Z",
						"_additional": map[string]interface{}{
							"distance": 0.25,
						},
					},
				},
			},
		},
	}

	matches, err := parseMatches(resp)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, "42", matches[0].ID)
	assert.Equal(t, "deploy finished", matches[0].Document)
	assert.Equal(t, "C1", matches[0].Metadata["conversation_id"])
	assert.InDelta(t, 0.25, matches[0].Distance, 1e-6)
}

func TestParseMatches_EmptyResponse(t *testing.T) {
	matches, err := parseMatches(&models.GraphQLResponse{Data: map[string]models.JSONObject{}})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestNewStore_RequiresHost(t *testing.T) {
	_, err := NewStore("http", "", "")
	assert.Error(t, err)
}
