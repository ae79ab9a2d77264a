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
	"regexp"
	"strings"
	"time"

	"github.com/perigee/recall/core"
)

const (
	editedSuffix   = "(edited)"
	messagesMarker = "Messages:"
)

var (
	bracketRe   = regexp.MustCompile(`^\[([^\]]*)\]\s*(.*)$`)
	userRe      = regexp.MustCompile(`^<([^>]+)>\s?(.*)$`)
	joinedRe    = regexp.MustCompile(`^(\S+) joined the channel$`)
	archiveRe   = regexp.MustCompile(`^\(([A-Za-z_]+)\)\s*<([^>]+)>\s*(\{.*\})\s*$`)
	botRe       = regexp.MustCompile(`^\[<?(.+?)>? bot\]\s*(\{.*\})\s*$`)
	fileShareRe = regexp.MustCompile(`^shared (?:a file: |file\(s\) )(.+)$`)
)

// ParseLine classifies and decodes a single export line.
//
// It returns (nil, nil) for lines that are structurally valid but carry no
// message: blank lines, date-header lines, the literal "Messages:" marker,
// and lines that do not open with a bracketed timestamp. A bracket whose
// timestamp does not resolve is a *ParseError carrying lineNumber.
//
// Dialects, first match wins:
//
//	[TS] <user> text                      message ("(edited)" suffix stripped)
//	[TS] <user> shared a file: X          file
//	[TS] <user> shared file(s) X          file
//	[TS] user joined the channel          system, action "joined"
//	[TS] (channel_archive) <user> {json}  archive, payload from json
//	[TS] [<Name> bot] {json}              bot, payload from json
//	[TS] freeform text                    system, first token is the username
func ParseLine(line string, lineNumber int, dateContext *time.Time) (*core.Message, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed == messagesMarker {
		return nil, nil
	}
	if _, ok := ParseDateHeader(trimmed); ok {
		return nil, nil
	}

	m := bracketRe.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, nil
	}

	ts, err := ResolveTimestamp(strings.TrimSpace(m[1]), dateContext)
	if err != nil {
		return nil, &ParseError{Line: lineNumber, Msg: "unresolvable timestamp", Err: err}
	}
	rest := m[2]

	if um := userRe.FindStringSubmatch(rest); um != nil {
		return parseUserMessage(um[1], um[2], ts), nil
	}

	if jm := joinedRe.FindStringSubmatch(rest); jm != nil {
		return &core.Message{
			Username:     jm[1],
			Text:         "joined the channel",
			Timestamp:    ts,
			Kind:         core.KindSystem,
			SystemAction: "joined",
		}, nil
	}

	if am := archiveRe.FindStringSubmatch(rest); am != nil {
		return &core.Message{
			Username:     am[2],
			Text:         am[3],
			Timestamp:    ts,
			Kind:         core.KindArchive,
			SystemAction: am[1],
			Payload:      decodePayload(am[3], true),
		}, nil
	}

	if bm := botRe.FindStringSubmatch(rest); bm != nil {
		payload := decodePayload(bm[2], false)
		text := payload["text"]
		if text == "" {
			text = bm[2]
		}
		return &core.Message{
			Username:  bm[1],
			Text:      text,
			Timestamp: ts,
			Kind:      core.KindBot,
			IsBot:     true,
			Payload:   payload,
		}, nil
	}

	// Freeform system notice: first token is the acting username.
	username, text, ok := strings.Cut(strings.TrimSpace(rest), " ")
	if !ok || username == "" {
		return nil, nil
	}
	return &core.Message{
		Username:  username,
		Text:      strings.TrimSpace(text),
		Timestamp: ts,
		Kind:      core.KindSystem,
	}, nil
}

func parseUserMessage(username, body string, ts time.Time) *core.Message {
	if fm := fileShareRe.FindStringSubmatch(body); fm != nil {
		return &core.Message{
			Username:  username,
			Text:      body,
			Timestamp: ts,
			Kind:      core.KindFile,
			FileID:    strings.TrimSpace(fm[1]),
		}
	}

	msg := &core.Message{
		Username:  username,
		Text:      body,
		Timestamp: ts,
		Kind:      core.KindMessage,
	}
	if strings.HasSuffix(msg.Text, editedSuffix) {
		msg.Text = strings.TrimSpace(strings.TrimSuffix(msg.Text, editedSuffix))
		msg.IsEdited = true
	}
	return msg
}
