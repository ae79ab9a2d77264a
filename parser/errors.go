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
	"errors"
	"fmt"
)

var (
	// ErrMalformedTimestamp indicates a token that matches none of the
	// recognized timestamp shapes.
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrMissingDateContext indicates a time-only token with no preceding
	// date header to anchor it.
	ErrMissingDateContext = errors.New("time-only timestamp without date context")

	// ErrMissingSeparator indicates a conversation file without the
	// metadata/message separator line.
	ErrMissingSeparator = errors.New("missing metadata separator")

	// ErrMissingConversationID indicates a metadata block without a
	// conversation identifier.
	ErrMissingConversationID = errors.New("metadata block has no conversation id")

	// ErrUnrecognizedLine indicates a non-blank line that matches no
	// known message dialect.
	ErrUnrecognizedLine = errors.New("unrecognized line format")
)

// ParseError is a recoverable, line-level parse failure. It carries the line
// number so failure records can point back into the source file.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
