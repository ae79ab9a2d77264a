package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a 64-bit content-hash identifier for stored records.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces the identical ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MessageKey derives the idempotent upsert key for a message from the
// (conversation, timestamp, username, text) tuple. Re-importing the same
// export file maps every message onto the same key, so duplicates collapse.
func MessageKey(conversationID string, timestamp time.Time, username, text string) ID {
	tuple := conversationID + "|" + strconv.FormatInt(timestamp.UnixMicro(), 10) + "|" + username + "|" + text
	return IDFromContent(tuple)
}

// MessageKind classifies a parsed export line.
type MessageKind int

const (
	// KindMessage is a regular user message.
	KindMessage MessageKind = iota + 1
	// KindSystem is a join/leave or other freeform system notice.
	KindSystem
	// KindArchive is a channel archive/system action with an embedded payload.
	KindArchive
	// KindFile is a file-share notice.
	KindFile
	// KindBot is a bot message with an embedded payload.
	KindBot
)

// String returns the export-dialect name of the kind.
func (k MessageKind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindSystem:
		return "system"
	case KindArchive:
		return "archive"
	case KindFile:
		return "file"
	case KindBot:
		return "bot"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Conversation is a channel or direct-message thread from an export.
// The ID is the stable external identifier ("C…" for channels, "D…" for DMs)
// and is the upsert key: re-importing the same file never duplicates it.
type Conversation struct {
	ID              string
	Name            string
	CreatedAt       time.Time
	CreatorUsername string
	Topic           string
	TopicSetBy      string
	TopicSetAt      time.Time
	Purpose         string
	PurposeSetBy    string
	PurposeSetAt    time.Time
	IsArchived      bool
	ArchivedBy      string
	ArchivedAt      time.Time
	IsDM            bool
	DMUsers         []string // ordered, non-empty iff IsDM
	InsertedAt      time.Time
	UpdatedAt       time.Time
}

// Reaction is an emoji reaction with the users who added it.
type Reaction struct {
	Emoji string
	Users []string
}

// Message is a single ingested chat message.
//
// Payload holds any structured JSON embedded in the source line. Every scalar
// value is coerced to its string form on the way in; downstream consumers
// treat it as opaque display data, not typed data.
type Message struct {
	Key             ID // content hash of (conversation, timestamp, username, text)
	ConversationID  string
	Username        string
	Text            string
	Timestamp       time.Time
	ThreadTimestamp time.Time
	IsEdited        bool
	Reactions       []Reaction
	Kind            MessageKind
	SystemAction    string // set when Kind is system/archive
	FileID          string // set when Kind is file
	IsBot           bool
	Payload         map[string]string
	Vector          []float32 // embedding, populated by the pipeline
	InsertedAt      time.Time
	UpdatedAt       time.Time
}

// UploadStatus is the lifecycle state of an upload job.
type UploadStatus int

const (
	StatusUploaded UploadStatus = iota + 1
	StatusExtracting
	StatusExtracted
	StatusImporting
	StatusImported
	StatusError
	StatusCancelled
)

// String returns the canonical status name.
func (s UploadStatus) String() string {
	switch s {
	case StatusUploaded:
		return "UPLOADED"
	case StatusExtracting:
		return "EXTRACTING"
	case StatusExtracted:
		return "EXTRACTED"
	case StatusImporting:
		return "IMPORTING"
	case StatusImported:
		return "IMPORTED"
	case StatusError:
		return "ERROR"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether no further automatic transition happens from s.
func (s UploadStatus) Terminal() bool {
	return s == StatusImported || s == StatusError || s == StatusCancelled
}

// Restartable reports whether an explicit restart may re-enter the pipeline.
// Completed jobs are not restartable; errored and cancelled ones are.
func (s UploadStatus) Restartable() bool {
	return s == StatusError || s == StatusCancelled
}

// Cancellable reports whether a user cancel is legal from s.
func (s UploadStatus) Cancellable() bool {
	return s == StatusExtracting || s == StatusImporting
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s UploadStatus) CanTransitionTo(next UploadStatus) bool {
	if next == StatusError {
		return !s.Terminal()
	}
	if next == StatusCancelled {
		return s.Cancellable()
	}
	switch s {
	case StatusUploaded:
		return next == StatusExtracting
	case StatusExtracting:
		return next == StatusExtracted
	case StatusExtracted:
		return next == StatusImporting
	case StatusImporting:
		return next == StatusImported
	case StatusError, StatusCancelled:
		// Restart re-enters whichever stage still has its inputs on disk.
		return next == StatusExtracting || next == StatusImporting
	default:
		return false
	}
}

// Stage is one phase of the import pipeline.
type Stage int

const (
	StageExtract Stage = iota + 1
	StageImport
)

// String returns the canonical stage name.
func (s Stage) String() string {
	switch s {
	case StageExtract:
		return "extract"
	case StageImport:
		return "import"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// UploadJob tracks one export archive through the import pipeline.
// Jobs are created on upload and mutated only by the pipeline (or explicit
// cancel/restart); they are never deleted automatically.
type UploadJob struct {
	ID              string
	Filename        string
	Status          UploadStatus
	SizeBytes       int64
	UploadedBytes   int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CurrentStage    Stage
	StageProgress   int // percent, 0-100, non-decreasing within a stage
	OverallProgress int // percent, 0-100
	Message         string
	Error           string
	ExtractPath     string
	Conversations   int
	Messages        int
}

// FailedImportRecord is one recorded parse or file failure during import.
// Records are append-only and many-to-one with an upload job.
// LineNumber is 0 for file-level failures (e.g. a missing separator).
type FailedImportRecord struct {
	Seq          uint64 // storage-assigned, preserves append order
	UploadID     string
	FilePath     string
	LineNumber   int
	RawLine      string
	ErrorMessage string
	CreatedAt    time.Time
}

// SearchResult is one ranked hit from hybrid search. Not persisted.
type SearchResult struct {
	Text           string
	ConversationID string
	User           string
	Timestamp      time.Time
	Score          float64 // 0.0-1.0
	KeywordMatch   bool
}
