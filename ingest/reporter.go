package ingest

import "github.com/perigee/recall/core"

// Snapshot is one point-in-time view of a job's progress.
type Snapshot struct {
	Status          core.UploadStatus
	Stage           core.Stage
	StageProgress   int
	OverallProgress int
	Message         string
	Error           string
}

// ProgressReporter receives progress snapshots as a job advances. Snapshots
// are delivered after each persisted update, from the job's own goroutine.
type ProgressReporter interface {
	Progress(uploadID string, snapshot Snapshot)
}

// noopReporter discards all snapshots.
type noopReporter struct{}

var _ ProgressReporter = (*noopReporter)(nil)

func (noopReporter) Progress(string, Snapshot) {}
