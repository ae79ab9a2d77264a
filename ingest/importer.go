package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/perigee/recall/core"
	"github.com/perigee/recall/parser"
)

// importSink buffers everything one conversation file produces so storage
// writes happen after parsing, where their errors are distinguishable from
// parse failures.
type importSink struct {
	conv     *core.Conversation
	messages []*core.Message
	failures []parser.LineFailure
}

var _ parser.Sink = (*importSink)(nil)

func (s *importSink) OnConversation(conv *core.Conversation) error {
	s.conv = conv
	return nil
}

func (s *importSink) OnMessage(msg *core.Message) error {
	s.messages = append(s.messages, msg)
	return nil
}

func (s *importSink) OnFailure(failure parser.LineFailure) {
	s.failures = append(s.failures, failure)
}

// runImport parses every conversation file under the extract directory and
// persists the results. Parse failures are recorded per line or per file and
// never abort the job; storage failures do.
func (p *Pipeline) runImport(ctx context.Context, job *core.UploadJob, handle *jobHandle) error {
	job.CurrentStage = core.StageImport
	job.StageProgress = 0
	if job.OverallProgress < 50 {
		job.OverallProgress = 50
	}
	if err := p.transition(ctx, job, core.StatusImporting, "importing conversations"); err != nil {
		return err
	}

	root, err := exportRoot(job.ExtractPath)
	if err != nil {
		return err
	}
	files, err := listConversationFiles(root)
	if err != nil {
		return err
	}

	totalFiles := len(files)
	conversations := make(map[string]bool)
	totalMessages := 0
	totalFailures := 0

	for i, path := range files {
		if cancelRequested(handle) {
			return p.cancelled(ctx, job)
		}

		convID, messages, failures, err := p.importFile(ctx, job.ID, root, path)
		if err != nil {
			return err
		}
		if convID != "" {
			conversations[convID] = true
		}
		totalMessages += messages
		totalFailures += failures

		processed := i + 1
		if processed%10 == 0 || processed == totalFiles {
			pct := processed * 100 / totalFiles
			job.StageProgress = pct
			job.OverallProgress = 50 + pct/2
			job.Message = fmt.Sprintf("imported %d/%d files", processed, totalFiles)
			if err := p.persist(ctx, job); err != nil {
				return err
			}
		}
	}

	job.Conversations = len(conversations)
	job.Messages = totalMessages
	job.StageProgress = 100
	job.OverallProgress = 100
	summary := fmt.Sprintf("imported %d conversations, %d messages", len(conversations), totalMessages)
	if totalFailures > 0 {
		summary += fmt.Sprintf(" (%d failures recorded)", totalFailures)
	}
	return p.transition(ctx, job, core.StatusImported, summary)
}

// importFile parses and persists one conversation file. Returns the
// conversation id (empty when none was produced), the number of messages
// parsed, and the number of failures recorded. A non-nil error always means
// a storage failure.
func (p *Pipeline) importFile(ctx context.Context, uploadID, root, path string) (string, int, int, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	f, err := os.Open(path)
	if err != nil {
		return "", 0, 1, p.recordFileFailure(ctx, uploadID, rel, err)
	}
	sink := &importSink{}
	_, parseErr := parser.ParseFile(rel, f, sink)
	f.Close()

	if parseErr != nil {
		return "", 0, 1, p.recordFileFailure(ctx, uploadID, rel, parseErr)
	}

	if len(sink.failures) > 0 {
		records := make([]*core.FailedImportRecord, len(sink.failures))
		for i, failure := range sink.failures {
			records[i] = &core.FailedImportRecord{
				UploadID:     uploadID,
				FilePath:     rel,
				LineNumber:   failure.Line,
				RawLine:      failure.Raw,
				ErrorMessage: failure.Err.Error(),
			}
		}
		if err := p.failures.AddFailures(ctx, records...); err != nil {
			return "", 0, 0, err
		}
	}

	convID := ""
	if sink.conv != nil {
		if _, err := p.conversations.UpsertConversation(ctx, sink.conv); err != nil {
			return "", 0, 0, err
		}
		convID = sink.conv.ID
	}

	if len(sink.messages) > 0 {
		if _, err := p.messages.UpsertMessages(ctx, sink.messages...); err != nil {
			return "", 0, 0, err
		}
		if !p.skipEmbeddings {
			if err := p.indexMessages(ctx, sink.messages); err != nil {
				return "", 0, 0, err
			}
		}
	}

	return convID, len(sink.messages), len(sink.failures), nil
}

// recordFileFailure writes a file-level failure record. Line number zero
// marks the failure as file-level.
func (p *Pipeline) recordFileFailure(ctx context.Context, uploadID, rel string, cause error) error {
	p.logger.Warn("skipping unparseable file", "upload", uploadID, "file", rel, "err", cause)
	return p.failures.AddFailures(ctx, &core.FailedImportRecord{
		UploadID:     uploadID,
		FilePath:     rel,
		LineNumber:   0,
		ErrorMessage: cause.Error(),
	})
}

// indexMessages embeds message texts and adds them to the vector index.
func (p *Pipeline) indexMessages(ctx context.Context, messages []*core.Message) error {
	texts := make([]string, len(messages))
	for i, msg := range messages {
		texts[i] = msg.Text
	}
	vectors := p.embedBatch(ctx, texts)

	ids := make([]string, len(messages))
	metadata := make([]map[string]string, len(messages))
	for i, msg := range messages {
		ids[i] = strconv.FormatUint(uint64(msg.Key), 10)
		metadata[i] = map[string]string{
			"conversation_id": msg.ConversationID,
			"username":        msg.Username,
			"timestamp":       msg.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	return p.index.Add(ctx, ids, vectors, texts, metadata)
}

// exportRoot locates the directory holding channels/ and dms/. Archives
// often wrap their contents in a single top-level directory.
func exportRoot(extractPath string) (string, error) {
	if dirExists(filepath.Join(extractPath, "channels")) || dirExists(filepath.Join(extractPath, "dms")) {
		return extractPath, nil
	}

	entries, err := os.ReadDir(extractPath)
	if err != nil {
		return "", err
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	if len(dirs) == 1 {
		nested := filepath.Join(extractPath, dirs[0])
		if dirExists(filepath.Join(nested, "channels")) || dirExists(filepath.Join(nested, "dms")) {
			return nested, nil
		}
	}
	return extractPath, nil
}

// skipNames are per-conversation artifacts that carry no message lines.
var skipNames = map[string]bool{
	"title.txt":    true,
	"metadata.txt": true,
}

// skipDirs are subtrees holding attachments rather than transcripts.
var skipDirs = map[string]bool{
	"shares":   true,
	"canvases": true,
	"files":    true,
}

// listConversationFiles walks channels/ and dms/ under root and returns
// every transcript file, sorted by path.
func listConversationFiles(root string) ([]string, error) {
	var files []string
	for _, top := range []string{"channels", "dms"} {
		base := filepath.Join(root, top)
		if !dirExists(base) {
			continue
		}
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if skipNames[d.Name()] {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
