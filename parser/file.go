// Copyright 2025 The recall Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/perigee/recall/core"
)

// separatorLine divides the metadata header from the message body.
var separatorLine = strings.Repeat("#", 65)

const maxLineBytes = 1024 * 1024

// LineFailure is one recoverable parse failure inside a conversation file.
type LineFailure struct {
	Line int
	Raw  string
	Err  error
}

// FileStats summarizes a single parsed conversation file.
type FileStats struct {
	Messages int
	Failures int
}

// Sink receives the parse products of a conversation file. Errors returned
// from OnConversation/OnMessage abort the file; they are for storage-layer
// failures, not parse decisions.
type Sink interface {
	OnConversation(conv *core.Conversation) error
	OnMessage(msg *core.Message) error
	OnFailure(failure LineFailure)
}

// ParseFile parses one conversation file: header block, separator, message
// lines. The conversation, each message, and each line failure are delivered
// to the sink in file order. Line failures never abort the file; a missing
// separator or an undecodable header block does, with the error returned for
// the caller to record as a file-level failure.
//
// The parser owns the running date context: date-header lines update it, and
// it is passed into every line parse so time-only lines resolve against the
// most recent header.
func ParseFile(name string, r io.Reader, sink Sink) (*FileStats, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var header []string
	sawSeparator := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == separatorLine {
			sawSeparator = true
			break
		}
		header = append(header, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", name, err)
	}
	if !sawSeparator {
		return nil, fmt.Errorf("%s: %w", name, ErrMissingSeparator)
	}

	conv, err := ParseMetadata(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := sink.OnConversation(conv); err != nil {
		return nil, err
	}

	stats := &FileStats{}
	var dateContext *time.Time
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if d, ok := ParseDateHeader(trimmed); ok {
			dc := d
			dateContext = &dc
			continue
		}

		msg, err := ParseLine(line, lineNo, dateContext)
		if err != nil {
			stats.Failures++
			sink.OnFailure(LineFailure{Line: lineNo, Raw: line, Err: err})
			continue
		}
		if msg == nil {
			if trimmed != "" && trimmed != messagesMarker {
				stats.Failures++
				sink.OnFailure(LineFailure{
					Line: lineNo,
					Raw:  line,
					Err:  fmt.Errorf("%w: %q", ErrUnrecognizedLine, trimmed),
				})
			}
			continue
		}

		msg.ConversationID = conv.ID
		msg.Key = core.MessageKey(conv.ID, msg.Timestamp, msg.Username, msg.Text)
		if err := sink.OnMessage(msg); err != nil {
			return nil, err
		}
		stats.Messages++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: reading messages: %w", name, err)
	}

	return stats, nil
}
