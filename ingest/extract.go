package ingest

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/perigee/recall/core"
)

// runExtract unpacks the job's archive into the work directory, tracking
// progress by uncompressed bytes. Progress is persisted at five-point
// increments to bound write volume.
func (p *Pipeline) runExtract(ctx context.Context, job *core.UploadJob, handle *jobHandle) error {
	job.CurrentStage = core.StageExtract
	job.StageProgress = 0
	job.OverallProgress = 0
	if err := p.transition(ctx, job, core.StatusExtracting, "extracting archive"); err != nil {
		return err
	}

	reader, err := zip.OpenReader(job.Filename)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveCorrupt, err)
	}
	defer reader.Close()

	dest := extractDir(p.workDir, job.ID)
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}

	var totalBytes uint64
	for _, entry := range reader.File {
		totalBytes += entry.UncompressedSize64
	}

	var extractedBytes uint64
	lastPersisted := 0
	for _, entry := range reader.File {
		if cancelRequested(handle) {
			return p.cancelled(ctx, job)
		}

		if err := extractEntry(dest, entry); err != nil {
			return fmt.Errorf("%w: %v", ErrArchiveCorrupt, err)
		}
		extractedBytes += entry.UncompressedSize64

		pct := 100
		if totalBytes > 0 {
			pct = int(extractedBytes * 100 / totalBytes)
		}
		if pct >= lastPersisted+5 && pct < 100 {
			lastPersisted = pct
			job.StageProgress = pct
			job.OverallProgress = pct / 2
			job.Message = fmt.Sprintf("extracting: %d%%", pct)
			if err := p.persist(ctx, job); err != nil {
				return err
			}
		}
	}

	job.ExtractPath = dest
	job.StageProgress = 100
	job.OverallProgress = 50
	return p.transition(ctx, job, core.StatusExtracted, "archive extracted")
}

// extractEntry writes one archive entry under dest, rejecting entries whose
// cleaned path would escape it.
func extractEntry(dest string, entry *zip.File) error {
	target := filepath.Join(dest, filepath.FromSlash(entry.Name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return fmt.Errorf("entry %q escapes extract directory", entry.Name)
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
