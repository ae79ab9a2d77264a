package ingest

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perigee/recall/ai"
	"github.com/perigee/recall/ai/mock"
	"github.com/perigee/recall/core"
	badgerstore "github.com/perigee/recall/storage/badger"
)

var channelExport = strings.Join([]string{
	"Channel Name: #general",
	"Channel ID: C1",
	"Created: 2023-01-01 00:00:00 UTC by admin",
	"Type: Channel",
	strings.Repeat("#", 65),
	"",
	"Messages:",
	"[2023-01-01 10:00:00 UTC] <alice> hi",
	"alice joined the channel",
}, "\n")

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

type captureReporter struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (r *captureReporter) Progress(_ string, snap Snapshot) {
	r.mu.Lock()
	r.snapshots = append(r.snapshots, snap)
	r.mu.Unlock()
}

func (r *captureReporter) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snapshots...)
}

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *badgerstore.Store, *mock.MockEmbedder) {
	t.Helper()
	store, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	embedder := mock.NewMockEmbedder()
	index := badgerstore.NewVectorIndex(store.Messages)

	base := []Option{
		WithWorkDir(t.TempDir()),
		WithRetryPolicy(ai.RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}),
	}
	p, err := NewPipeline(store.Uploads, store.Conversations, store.Messages, store.Failures, index, embedder, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p, store, embedder
}

func TestPipeline_EndToEnd(t *testing.T) {
	ctx := context.Background()
	p, store, _ := newTestPipeline(t)

	archive := writeZip(t, map[string]string{"channels/general.txt": channelExport})
	job, err := p.CreateUpload(ctx, archive)
	require.NoError(t, err)
	require.Equal(t, core.StatusUploaded, job.Status)

	require.NoError(t, p.Run(ctx, job.ID))

	final, err := store.Uploads.GetUpload(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusImported, final.Status)
	assert.Equal(t, 100, final.OverallProgress)
	assert.Equal(t, 1, final.Conversations)
	assert.Equal(t, 1, final.Messages)

	conv, err := store.Conversations.GetConversation(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "general", conv.Name)

	count, err := store.Messages.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	failures, err := p.Failures(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "alice joined the channel", failures[0].RawLine)
	assert.Equal(t, 9, failures[0].LineNumber)

	msgs, err := store.Messages.GetMessagesByConversation(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Text)
	assert.NotEmpty(t, msgs[0].Vector)
}

func TestPipeline_ReimportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	p, store, _ := newTestPipeline(t)
	archive := writeZip(t, map[string]string{"channels/general.txt": channelExport})

	for i := 0; i < 2; i++ {
		job, err := p.CreateUpload(ctx, archive)
		require.NoError(t, err)
		require.NoError(t, p.Run(ctx, job.ID))
	}

	count, err := store.Messages.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	convs, err := store.Conversations.ListConversations(ctx)
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}

func TestPipeline_CorruptArchive(t *testing.T) {
	ctx := context.Background()
	p, store, _ := newTestPipeline(t)

	path := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

	job, err := p.CreateUpload(ctx, path)
	require.NoError(t, err)

	err = p.Run(ctx, job.ID)
	assert.ErrorIs(t, err, ErrArchiveCorrupt)

	final, err := store.Uploads.GetUpload(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusError, final.Status)
	assert.Contains(t, final.Error, "archive corrupt")
}

func TestPipeline_CancelThenRestart(t *testing.T) {
	ctx := context.Background()
	p, store, _ := newTestPipeline(t)
	archive := writeZip(t, map[string]string{"channels/general.txt": channelExport})

	job, err := p.CreateUpload(ctx, archive)
	require.NoError(t, err)

	// Cancel before the first file boundary; the run observes it
	// cooperatively and stops.
	handle, err := p.acquire(job.ID)
	require.NoError(t, err)
	handle.requestCancel()
	err = p.run(ctx, job.ID, handle)
	p.release(job.ID)
	assert.ErrorIs(t, err, ErrCancelled)

	cancelled, err := store.Uploads.GetUpload(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCancelled, cancelled.Status)

	// A fresh run resumes from the archive.
	require.NoError(t, p.Run(ctx, job.ID))
	final, err := store.Uploads.GetUpload(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusImported, final.Status)
}

func TestPipeline_RestartResumesAtImportWhenExtracted(t *testing.T) {
	ctx := context.Background()
	p, store, _ := newTestPipeline(t)
	archive := writeZip(t, map[string]string{"channels/general.txt": channelExport})

	job, err := p.CreateUpload(ctx, archive)
	require.NoError(t, err)

	// Extract, then simulate a cancellation that happened afterwards.
	handle, err := p.acquire(job.ID)
	require.NoError(t, err)
	stored, err := store.Uploads.GetUpload(ctx, job.ID)
	require.NoError(t, err)
	require.NoError(t, p.runExtract(ctx, stored, handle))
	p.release(job.ID)

	stored.Status = core.StatusCancelled
	_, err = store.Uploads.UpdateUpload(ctx, stored)
	require.NoError(t, err)

	// Remove the archive; restart must still succeed via the extract dir.
	require.NoError(t, os.Remove(archive))
	require.NoError(t, p.Run(ctx, job.ID))

	final, err := store.Uploads.GetUpload(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusImported, final.Status)
}

func TestPipeline_RestartRejectsTerminalSuccess(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newTestPipeline(t)
	archive := writeZip(t, map[string]string{"channels/general.txt": channelExport})

	job, err := p.CreateUpload(ctx, archive)
	require.NoError(t, err)
	require.NoError(t, p.Run(ctx, job.ID))

	err = p.Restart(ctx, job.ID)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
}

func TestPipeline_CancelRejectsNonCancellable(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newTestPipeline(t)
	archive := writeZip(t, map[string]string{"channels/general.txt": channelExport})

	job, err := p.CreateUpload(ctx, archive)
	require.NoError(t, err)

	err = p.Cancel(ctx, job.ID)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
}

func TestPipeline_SkipEmbeddings(t *testing.T) {
	ctx := context.Background()
	p, store, embedder := newTestPipeline(t, WithSkipEmbeddings(true))
	archive := writeZip(t, map[string]string{"channels/general.txt": channelExport})

	job, err := p.CreateUpload(ctx, archive)
	require.NoError(t, err)
	require.NoError(t, p.Run(ctx, job.ID))

	assert.Equal(t, 0, embedder.CallCount())

	msgs, err := store.Messages.GetMessagesByConversation(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Empty(t, msgs[0].Vector)
}

func TestPipeline_ProgressSnapshotsMonotonic(t *testing.T) {
	ctx := context.Background()
	reporter := &captureReporter{}
	p, _, _ := newTestPipeline(t, WithReporter(reporter))

	entries := map[string]string{"channels/general.txt": channelExport}
	for i := 0; i < 25; i++ {
		entries["channels/room"+string(rune('a'+i))+".txt"] = strings.ReplaceAll(channelExport, "C1", "C"+string(rune('a'+i)))
	}
	archive := writeZip(t, entries)

	job, err := p.CreateUpload(ctx, archive)
	require.NoError(t, err)
	require.NoError(t, p.Run(ctx, job.ID))

	snaps := reporter.all()
	require.NotEmpty(t, snaps)

	lastOverall := 0
	stageHigh := map[core.Stage]int{}
	for _, snap := range snaps {
		assert.GreaterOrEqual(t, snap.OverallProgress, lastOverall)
		lastOverall = snap.OverallProgress
		assert.GreaterOrEqual(t, snap.StageProgress, stageHigh[snap.Stage])
		stageHigh[snap.Stage] = snap.StageProgress
	}
	assert.Equal(t, core.StatusImported, snaps[len(snaps)-1].Status)
	assert.Equal(t, 100, snaps[len(snaps)-1].OverallProgress)
}

func TestPipeline_ExcludesNonTranscriptFiles(t *testing.T) {
	ctx := context.Background()
	p, store, _ := newTestPipeline(t)

	archive := writeZip(t, map[string]string{
		"channels/general.txt":      channelExport,
		"channels/title.txt":        "General discussion",
		"channels/metadata.txt":     "internal",
		"channels/shares/doc.txt":   "attachment",
		"channels/files/img.txt":    "attachment",
		"channels/canvases/c.txt":   "attachment",
		"dms/alice-bob/shares/x.md": "attachment",
	})

	job, err := p.CreateUpload(ctx, archive)
	require.NoError(t, err)
	require.NoError(t, p.Run(ctx, job.ID))

	failures, err := p.Failures(ctx, job.ID)
	require.NoError(t, err)
	for _, f := range failures {
		assert.NotContains(t, f.FilePath, "title.txt")
		assert.NotContains(t, f.FilePath, "shares")
	}

	convs, err := store.Conversations.ListConversations(ctx)
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}

func TestPipeline_UnparseableFileRecordedNotFatal(t *testing.T) {
	ctx := context.Background()
	p, store, _ := newTestPipeline(t)

	archive := writeZip(t, map[string]string{
		"channels/general.txt": channelExport,
		"channels/broken.txt":  "no separator in this file at all",
	})

	job, err := p.CreateUpload(ctx, archive)
	require.NoError(t, err)
	require.NoError(t, p.Run(ctx, job.ID))

	final, err := store.Uploads.GetUpload(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusImported, final.Status)

	failures, err := p.Failures(ctx, job.ID)
	require.NoError(t, err)

	var fileLevel bool
	for _, f := range failures {
		if f.FilePath == filepath.Join("channels", "broken.txt") && f.LineNumber == 0 {
			fileLevel = true
		}
	}
	assert.True(t, fileLevel)
}

func TestPipeline_StartRejectsSecondRun(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	_, err := p.acquire("job-1")
	require.NoError(t, err)
	defer p.release("job-1")

	err = p.Start(context.Background(), "job-1")
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestPipeline_ZipSlipEntryRejected(t *testing.T) {
	ctx := context.Background()
	p, store, _ := newTestPipeline(t)

	// Build a zip whose entry path climbs out of the extract directory.
	path := filepath.Join(t.TempDir(), "evil.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	entry, err := w.CreateHeader(&zip.FileHeader{Name: "../escape.txt"})
	require.NoError(t, err)
	_, err = entry.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	job, err := p.CreateUpload(ctx, path)
	require.NoError(t, err)

	err = p.Run(ctx, job.ID)
	assert.ErrorIs(t, err, ErrArchiveCorrupt)

	final, err := store.Uploads.GetUpload(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusError, final.Status)
}

func TestCreateUpload_MissingArchive(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	_, err := p.CreateUpload(context.Background(), filepath.Join(t.TempDir(), "missing.zip"))
	assert.Error(t, err)
}
