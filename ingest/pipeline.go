package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/perigee/recall/ai"
	"github.com/perigee/recall/core"
	"github.com/perigee/recall/storage"
	"github.com/perigee/recall/vector"
)

const (
	defaultJobPoolSize   = 4
	defaultEmbedPoolSize = 5
)

// Pipeline orchestrates upload jobs from archive to searchable messages.
type Pipeline struct {
	uploads       storage.UploadRepository
	conversations storage.ConversationRepository
	messages      storage.MessageRepository
	failures      storage.FailureRepository
	index         vector.Store
	embedder      ai.Embedder

	jobPool    *ants.Pool
	embedPool  *ants.Pool
	retry      ai.RetryPolicy
	dimensions int
	workDir    string
	reporter   ProgressReporter
	logger     *slog.Logger

	skipEmbeddings bool

	mu      sync.Mutex
	running map[string]*jobHandle
}

// jobHandle tracks one in-flight run; closing cancel requests cooperative
// cancellation at the next file boundary.
type jobHandle struct {
	cancel   chan struct{}
	stopOnce sync.Once
}

func (h *jobHandle) requestCancel() {
	h.stopOnce.Do(func() { close(h.cancel) })
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithJobPoolSize sets the number of upload jobs that may run concurrently.
func WithJobPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.jobPool != nil {
			p.jobPool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.jobPool = pool
		return nil
	}
}

// WithEmbedConcurrency bounds the number of simultaneous embedding requests.
// Default is 5.
func WithEmbedConcurrency(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.embedPool != nil {
			p.embedPool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embedPool = pool
		return nil
	}
}

// WithRetryPolicy sets the retry policy for embedding calls.
func WithRetryPolicy(policy ai.RetryPolicy) Option {
	return func(p *Pipeline) error {
		p.retry = policy
		return nil
	}
}

// WithDimensions sets the embedding dimensionality used for zero-vector
// fallbacks. Default is 768.
func WithDimensions(dim int) Option {
	return func(p *Pipeline) error {
		if dim < 1 {
			return fmt.Errorf("dimensions must be positive, got %d", dim)
		}
		p.dimensions = dim
		return nil
	}
}

// WithWorkDir sets the directory archives are extracted into.
// Default is the system temp directory.
func WithWorkDir(dir string) Option {
	return func(p *Pipeline) error {
		p.workDir = dir
		return nil
	}
}

// WithReporter sets a progress reporter invoked after each persisted update.
func WithReporter(reporter ProgressReporter) Option {
	return func(p *Pipeline) error {
		if reporter == nil {
			reporter = noopReporter{}
		}
		p.reporter = reporter
		return nil
	}
}

// WithSkipEmbeddings disables embedding generation during import. Messages
// are stored and keyword-searchable; semantic search needs a later reindex.
func WithSkipEmbeddings(skip bool) Option {
	return func(p *Pipeline) error {
		p.skipEmbeddings = skip
		return nil
	}
}

// NewPipeline creates a new import pipeline.
func NewPipeline(
	uploads storage.UploadRepository,
	conversations storage.ConversationRepository,
	messages storage.MessageRepository,
	failures storage.FailureRepository,
	index vector.Store,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if uploads == nil {
		return nil, ErrUploadRepositoryRequired
	}
	if conversations == nil {
		return nil, ErrConversationRepositoryRequired
	}
	if messages == nil {
		return nil, ErrMessageRepositoryRequired
	}
	if failures == nil {
		return nil, ErrFailureRepositoryRequired
	}
	if index == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	jobPool, err := ants.NewPool(defaultJobPoolSize)
	if err != nil {
		return nil, err
	}
	embedPool, err := ants.NewPool(defaultEmbedPoolSize)
	if err != nil {
		jobPool.Release()
		return nil, err
	}

	p := &Pipeline{
		uploads:       uploads,
		conversations: conversations,
		messages:      messages,
		failures:      failures,
		index:         index,
		embedder:      embedder,
		jobPool:       jobPool,
		embedPool:     embedPool,
		retry:         ai.DefaultRetryPolicy(),
		dimensions:    768,
		workDir:       os.TempDir(),
		reporter:      noopReporter{},
		logger:        slog.Default(),
		running:       make(map[string]*jobHandle),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// CreateUpload registers an uploaded archive and returns its job record.
func (p *Pipeline) CreateUpload(ctx context.Context, archivePath string) (*core.UploadJob, error) {
	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	job := &core.UploadJob{
		ID:            uuid.NewString(),
		Filename:      archivePath,
		Status:        core.StatusUploaded,
		SizeBytes:     info.Size(),
		UploadedBytes: info.Size(),
		Message:       "upload received",
	}
	if err := p.uploads.CreateUpload(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Start runs the job in the background. Only one run per job ID may be in
// flight at a time.
func (p *Pipeline) Start(ctx context.Context, uploadID string) error {
	handle, err := p.acquire(uploadID)
	if err != nil {
		return err
	}

	err = p.jobPool.Submit(func() {
		defer p.release(uploadID)
		if runErr := p.run(context.Background(), uploadID, handle); runErr != nil {
			p.logger.Error("upload job failed", "upload", uploadID, "err", runErr)
		}
	})
	if err != nil {
		p.release(uploadID)
		return err
	}
	return nil
}

// Run drives the job synchronously through its remaining stages.
func (p *Pipeline) Run(ctx context.Context, uploadID string) error {
	handle, err := p.acquire(uploadID)
	if err != nil {
		return err
	}
	defer p.release(uploadID)
	return p.run(ctx, uploadID, handle)
}

// Cancel requests cancellation of a running job. For a job with no in-flight
// run the status is updated directly, provided it is in a cancellable state.
func (p *Pipeline) Cancel(ctx context.Context, uploadID string) error {
	job, err := p.uploads.GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	if !job.Status.Cancellable() {
		return fmt.Errorf("%w: cannot cancel from %s", core.ErrInvalidTransition, job.Status)
	}

	p.mu.Lock()
	handle, ok := p.running[uploadID]
	p.mu.Unlock()
	if ok {
		handle.requestCancel()
		return nil
	}

	// No live run; the process that owned it is gone.
	job.Status = core.StatusCancelled
	job.Message = "cancelled by user"
	_, err = p.uploads.UpdateUpload(ctx, job)
	return err
}

// Restart resumes a job that ended in ERROR or CANCELLED. The job re-enters
// importing when the extract directory survives, otherwise extracting when
// the archive survives.
func (p *Pipeline) Restart(ctx context.Context, uploadID string) error {
	job, err := p.uploads.GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	if !job.Status.Restartable() {
		return fmt.Errorf("%w: cannot restart from %s", core.ErrInvalidTransition, job.Status)
	}
	if !dirExists(job.ExtractPath) && !fileExists(job.Filename) {
		return ErrNothingToRestart
	}
	return p.Start(ctx, uploadID)
}

// Failures returns the import failures recorded for a job.
func (p *Pipeline) Failures(ctx context.Context, uploadID string) ([]*core.FailedImportRecord, error) {
	return p.failures.GetFailuresByUpload(ctx, uploadID)
}

// Release releases the worker pools. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.jobPool != nil {
		p.jobPool.Release()
	}
	if p.embedPool != nil {
		p.embedPool.Release()
	}
}

// run executes the state machine for one job.
func (p *Pipeline) run(ctx context.Context, uploadID string, handle *jobHandle) error {
	job, err := p.uploads.GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}

	needExtract := false
	switch job.Status {
	case core.StatusUploaded:
		needExtract = true
	case core.StatusExtracted:
	case core.StatusError, core.StatusCancelled:
		// Resume: prefer the extract directory, fall back to the archive.
		if !dirExists(job.ExtractPath) {
			if !fileExists(job.Filename) {
				return ErrNothingToRestart
			}
			needExtract = true
		}
		job.Error = ""
	default:
		return fmt.Errorf("%w: cannot run from %s", core.ErrInvalidTransition, job.Status)
	}

	if needExtract {
		if err := p.runExtract(ctx, job, handle); err != nil {
			return p.finishWith(ctx, job, err)
		}
	}
	if err := p.runImport(ctx, job, handle); err != nil {
		return p.finishWith(ctx, job, err)
	}
	return nil
}

// finishWith records a failure outcome on the job. Cancellation has already
// been persisted by the stage that observed it.
func (p *Pipeline) finishWith(ctx context.Context, job *core.UploadJob, cause error) error {
	if cause == ErrCancelled {
		return cause
	}

	job.Status = core.StatusError
	job.Error = cause.Error()
	job.Message = "import failed"
	if err := p.persist(ctx, job); err != nil {
		p.logger.Error("persisting error state", "upload", job.ID, "err", err)
	}
	return cause
}

// transition validates and applies a status change, persisting the result.
func (p *Pipeline) transition(ctx context.Context, job *core.UploadJob, to core.UploadStatus, message string) error {
	if err := core.ValidateTransition(job.Status, to); err != nil {
		return err
	}
	job.Status = to
	job.Message = message
	return p.persist(ctx, job)
}

// persist writes the job record and notifies the reporter.
func (p *Pipeline) persist(ctx context.Context, job *core.UploadJob) error {
	updated, err := p.uploads.UpdateUpload(ctx, job)
	if err != nil {
		return err
	}
	*job = *updated
	p.reporter.Progress(job.ID, Snapshot{
		Status:          job.Status,
		Stage:           job.CurrentStage,
		StageProgress:   job.StageProgress,
		OverallProgress: job.OverallProgress,
		Message:         job.Message,
		Error:           job.Error,
	})
	return nil
}

// cancelled persists the CANCELLED state and returns ErrCancelled.
func (p *Pipeline) cancelled(ctx context.Context, job *core.UploadJob) error {
	job.Status = core.StatusCancelled
	job.Message = "cancelled by user"
	if err := p.persist(ctx, job); err != nil {
		p.logger.Error("persisting cancelled state", "upload", job.ID, "err", err)
	}
	return ErrCancelled
}

func (p *Pipeline) acquire(uploadID string) (*jobHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.running[uploadID]; ok {
		return nil, ErrAlreadyRunning
	}
	handle := &jobHandle{cancel: make(chan struct{})}
	p.running[uploadID] = handle
	return handle, nil
}

func (p *Pipeline) release(uploadID string) {
	p.mu.Lock()
	delete(p.running, uploadID)
	p.mu.Unlock()
}

func cancelRequested(handle *jobHandle) bool {
	select {
	case <-handle.cancel:
		return true
	default:
		return false
	}
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func extractDir(workDir, uploadID string) string {
	return filepath.Join(workDir, "recall-extract-"+uploadID)
}
