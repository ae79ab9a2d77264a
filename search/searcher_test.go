package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perigee/recall/ai/mock"
	"github.com/perigee/recall/core"
	"github.com/perigee/recall/storage"
	"github.com/perigee/recall/vector"
)

// fakeMessages is a storage.MessageRepository serving canned keyword hits.
type fakeMessages struct {
	hits      []*core.Message
	count     int
	searchErr error
	countErr  error
}

var _ storage.MessageRepository = (*fakeMessages)(nil)

func (f *fakeMessages) UpsertMessages(ctx context.Context, messages ...*core.Message) (int, error) {
	return 0, nil
}

func (f *fakeMessages) GetMessage(ctx context.Context, key core.ID) (*core.Message, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeMessages) GetMessagesByConversation(ctx context.Context, conversationID string) ([]*core.Message, error) {
	return nil, nil
}

func (f *fakeMessages) ScanMessages(ctx context.Context, fn func(*core.Message) error) error {
	return nil
}

func (f *fakeMessages) SearchText(ctx context.Context, query string, limit int) ([]*core.Message, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

func (f *fakeMessages) UpdateVectors(ctx context.Context, vectors map[core.ID][]float32) error {
	return nil
}

func (f *fakeMessages) FindSimilar(ctx context.Context, vec []float32, limit int) ([]*storage.VectorMatch, error) {
	return nil, nil
}

func (f *fakeMessages) CountMessages(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

// fakeVectorStore is a vector.Store serving canned matches.
type fakeVectorStore struct {
	matches  []vector.Match
	queryErr error
	lastK    int
	queried  bool
}

var _ vector.Store = (*fakeVectorStore)(nil)

func (f *fakeVectorStore) Add(ctx context.Context, ids []string, vectors [][]float32, documents []string, metadata []map[string]string) error {
	return nil
}

func (f *fakeVectorStore) Query(ctx context.Context, vec []float32, k int) ([]vector.Match, error) {
	f.queried = true
	f.lastK = k
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.matches, nil
}

func keywordHit(text string) *core.Message {
	return &core.Message{
		Key:            core.MessageKey("C1", time.Unix(1700000000, 0), "alice", text),
		ConversationID: "C1",
		Username:       "alice",
		Text:           text,
		Timestamp:      time.Unix(1700000000, 0).UTC(),
		Kind:           core.KindMessage,
	}
}

func semanticHit(text string, similarity float32) vector.Match {
	return vector.Match{
		ID:       text,
		Distance: 1 - similarity,
		Document: text,
		Metadata: map[string]string{
			"conversation_id": "C1",
			"username":        "bob",
			"timestamp":       "2023-01-01T10:00:00Z",
		},
	}
}

func newTestSearcher(t *testing.T, messages *fakeMessages, store *fakeVectorStore) *Searcher {
	t.Helper()
	s, err := NewSearcher(messages, store, mock.NewMockEmbedder())
	require.NoError(t, err)
	return s
}

func TestNewSearcher_RequiresDependencies(t *testing.T) {
	messages := &fakeMessages{}
	store := &fakeVectorStore{}
	embedder := mock.NewMockEmbedder()

	_, err := NewSearcher(nil, store, embedder)
	assert.ErrorIs(t, err, ErrMessageRepositoryRequired)

	_, err = NewSearcher(messages, nil, embedder)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)

	_, err = NewSearcher(messages, store, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestSearch_MergesSemanticAndKeyword(t *testing.T) {
	messages := &fakeMessages{
		count: 100,
		hits:  []*core.Message{keywordHit("B"), keywordHit("C")},
	}
	store := &fakeVectorStore{
		matches: []vector.Match{
			semanticHit("A", 0.9),
			semanticHit("B", 0.4),
		},
	}
	s := newTestSearcher(t, messages, store)

	results, err := s.Search(context.Background(), "anything", 10, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "C", results[0].Text)
	assert.InDelta(t, 0.5, results[0].Score, 1e-6)
	assert.True(t, results[0].KeywordMatch)

	assert.Equal(t, "A", results[1].Text)
	assert.InDelta(t, 0.45, results[1].Score, 1e-6)
	assert.False(t, results[1].KeywordMatch)

	// B appears in both sets; the semantic score wins.
	assert.Equal(t, "B", results[2].Text)
	assert.InDelta(t, 0.2, results[2].Score, 1e-6)
	assert.False(t, results[2].KeywordMatch)
}

func TestSearch_PureKeywordSkipsVectorStore(t *testing.T) {
	messages := &fakeMessages{
		count: 10,
		hits:  []*core.Message{keywordHit("deploy notes")},
	}
	store := &fakeVectorStore{}
	s := newTestSearcher(t, messages, store)

	results, err := s.Search(context.Background(), "deploy", 5, 0)
	require.NoError(t, err)
	assert.False(t, store.queried)

	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.True(t, results[0].KeywordMatch)
}

func TestSearch_PureSemanticFailureIsFatal(t *testing.T) {
	messages := &fakeMessages{count: 10}
	store := &fakeVectorStore{queryErr: errors.New("connection refused")}
	s := newTestSearcher(t, messages, store)

	_, err := s.Search(context.Background(), "anything", 5, 1)
	require.Error(t, err)
}

func TestSearch_DegradesToKeywordOnVectorFailure(t *testing.T) {
	messages := &fakeMessages{
		count: 10,
		hits:  []*core.Message{keywordHit("still here")},
	}
	store := &fakeVectorStore{queryErr: errors.New("connection refused")}
	s := newTestSearcher(t, messages, store)

	results, err := s.Search(context.Background(), "here", 5, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "still here", results[0].Text)
	assert.True(t, results[0].KeywordMatch)
}

func TestSearch_SkipsSentinelDocument(t *testing.T) {
	messages := &fakeMessages{
		count: 10,
		hits:  []*core.Message{keywordHit("test message"), keywordHit("real message")},
	}
	store := &fakeVectorStore{
		matches: []vector.Match{semanticHit("test message", 0.99)},
	}
	s := newTestSearcher(t, messages, store)

	results, err := s.Search(context.Background(), "message", 10, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "real message", results[0].Text)
}

func TestSearch_NeighborCountCappedByCorpusSize(t *testing.T) {
	messages := &fakeMessages{count: 3}
	store := &fakeVectorStore{}
	s := newTestSearcher(t, messages, store)

	_, err := s.Search(context.Background(), "anything", 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, store.lastK)

	messages.count = 100
	_, err = s.Search(context.Background(), "anything", 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, store.lastK)
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	messages := &fakeMessages{
		count: 10,
		hits: []*core.Message{
			keywordHit("one"), keywordHit("two"), keywordHit("three"),
		},
	}
	store := &fakeVectorStore{}
	s := newTestSearcher(t, messages, store)

	results, err := s.Search(context.Background(), "t", 2, 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_ValidatesArguments(t *testing.T) {
	s := newTestSearcher(t, &fakeMessages{}, &fakeVectorStore{})

	_, err := s.Search(context.Background(), "q", 5, -0.1)
	assert.ErrorIs(t, err, ErrInvalidAlpha)

	_, err = s.Search(context.Background(), "q", 5, 1.1)
	assert.ErrorIs(t, err, ErrInvalidAlpha)

	_, err = s.Search(context.Background(), "q", 0, 0.5)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestSearch_MonitorReceivesPhases(t *testing.T) {
	messages := &fakeMessages{
		count: 10,
		hits:  []*core.Message{keywordHit("hello")},
	}
	store := &fakeVectorStore{
		matches: []vector.Match{semanticHit("hola", 0.8)},
	}
	s := newTestSearcher(t, messages, store)

	monitor := &recordingMonitor{}
	results, err := s.SearchWithMonitor(context.Background(), "greeting", 5, 0.5, monitor)
	require.NoError(t, err)

	assert.Equal(t, "greeting", monitor.query)
	assert.Len(t, monitor.semantic, 1)
	assert.Len(t, monitor.keyword, 1)
	assert.Equal(t, results, monitor.final)
}

type recordingMonitor struct {
	query    string
	semantic []vector.Match
	keyword  []*core.Message
	final    []*core.SearchResult
}

var _ SearchMonitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(query string)                       { m.query = query }
func (m *recordingMonitor) AfterSemanticSearch(hits []vector.Match)  { m.semantic = hits }
func (m *recordingMonitor) AfterKeywordSearch(hits []*core.Message)  { m.keyword = hits }
func (m *recordingMonitor) Finish(results []*core.SearchResult)      { m.final = results }
