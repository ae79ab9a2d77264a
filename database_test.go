package recall

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perigee/recall/ai/mock"
	"github.com/perigee/recall/core"
	"github.com/perigee/recall/ingest"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase("", WithInMemory(), WithEmbedder(mock.NewMockEmbedder()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func writeExportZip(t *testing.T) string {
	t.Helper()
	content := strings.Join([]string{
		"Channel Name: #general",
		"Channel ID: C1",
		"Created: 2023-01-01 00:00:00 UTC by admin",
		"Type: Channel",
		strings.Repeat("#", 65),
		"",
		"Messages:",
		"[2023-01-01 10:00:00 UTC] <alice> the deploy finished cleanly",
		"[2023-01-01 10:05:00 UTC] <bob> thanks for the update",
	}, "\n")

	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	entry, err := w.Create("channels/general.txt")
	require.NoError(t, err)
	_, err = entry.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestDatabase_ImportThenSearch(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	pipeline, err := db.NewPipeline(ingest.WithWorkDir(t.TempDir()))
	require.NoError(t, err)
	defer pipeline.Release()

	job, err := pipeline.CreateUpload(ctx, writeExportZip(t))
	require.NoError(t, err)
	require.NoError(t, pipeline.Run(ctx, job.ID))

	final, err := db.Uploads().GetUpload(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, core.StatusImported, final.Status)

	searcher, err := db.NewSearcher()
	require.NoError(t, err)

	// The mock embedder is deterministic, so an exact-text query is its own
	// nearest neighbor.
	results, err := searcher.Search(ctx, "the deploy finished cleanly", 5, 1)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "the deploy finished cleanly", results[0].Text)
	assert.Equal(t, "C1", results[0].ConversationID)
	assert.InDelta(t, 1.0, results[0].Score, 0.01)

	keyword, err := searcher.Search(ctx, "thanks", 5, 0)
	require.NoError(t, err)
	require.Len(t, keyword, 1)
	assert.Equal(t, "bob", keyword[0].User)
	assert.True(t, keyword[0].KeywordMatch)
}

func TestDatabase_NewReindexer(t *testing.T) {
	db := newTestDatabase(t)
	r := db.NewReindexer(nil, nil)
	require.NotNil(t, r)
	require.NoError(t, r.Run(context.Background()))
}

func TestDatabase_OpensOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	db, err := NewDatabase(dir, WithEmbedder(mock.NewMockEmbedder()))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopen over the same files.
	db, err = NewDatabase(dir, WithEmbedder(mock.NewMockEmbedder()))
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
