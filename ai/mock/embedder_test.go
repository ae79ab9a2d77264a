package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()

	v1, err := m.EmbedText(context.Background(), "hello")
	require.NoError(t, err)
	v2, err := m.EmbedText(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Len(t, v1, DefaultDimensions)
	assert.Equal(t, 2, m.CallCount())
}

func TestMockEmbedder_BlankYieldsZeroVector(t *testing.T) {
	m := NewMockEmbedderWithDimensions(8)

	v, err := m.EmbedText(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, v, 8)
	for _, x := range v {
		assert.Zero(t, x)
	}
}

func TestMockEmbedder_Batch(t *testing.T) {
	m := NewMockEmbedderWithDimensions(8)

	vectors, err := m.EmbedTexts(context.Background(), []string{"a", "", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	assert.NotEqual(t, vectors[0], vectors[2])
	for _, x := range vectors[1] {
		assert.Zero(t, x)
	}
}

func TestMockEmbedder_Injection(t *testing.T) {
	m := NewMockEmbedder()
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 2, 3}, nil
	}

	v, err := m.EmbedText(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, v)

	m.Reset()
	assert.Zero(t, m.CallCount())
}
