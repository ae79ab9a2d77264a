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
	"fmt"
	"strings"
	"time"

	"github.com/perigee/recall/core"
)

const dmMarker = "Private conversation between"

// ParseMetadata decodes the header block of a conversation file into
// conversation metadata. Any line containing the private-conversation marker
// routes the block to the direct-message shape; otherwise it is read as a
// channel block of "Key: Value" lines. Unknown keys are ignored.
//
// A block that yields no conversation id fails with ErrMissingConversationID.
func ParseMetadata(lines []string) (*core.Conversation, error) {
	for _, line := range lines {
		if strings.Contains(line, dmMarker) {
			return parseDMMetadata(lines)
		}
	}
	return parseChannelMetadata(lines)
}

func parseChannelMetadata(lines []string) (*core.Conversation, error) {
	conv := &core.Conversation{}

	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Channel Name", "Name":
			conv.Name = strings.TrimPrefix(value, "#")
		case "Channel ID", "ID":
			conv.ID = value
		case "Created":
			conv.CreatedAt, conv.CreatorUsername = parseCreated(value)
		case "Type":
			// Informational; channel vs. DM is routed on the DM marker.
		case "Topic":
			conv.Topic = value
		case "Topic Set By":
			conv.TopicSetBy = value
		case "Topic Set At":
			conv.TopicSetAt = parseMetadataTime(value)
		case "Purpose":
			conv.Purpose = value
		case "Purpose Set By":
			conv.PurposeSetBy = value
		case "Purpose Set At":
			conv.PurposeSetAt = parseMetadataTime(value)
		case "Archived":
			conv.IsArchived = value == "true" || value == "yes"
		case "Archived By":
			conv.ArchivedBy = value
		case "Archived At":
			conv.ArchivedAt = parseMetadataTime(value)
		}
	}

	if conv.ID == "" {
		return nil, fmt.Errorf("%w: channel block", ErrMissingConversationID)
	}
	return conv, nil
}

func parseDMMetadata(lines []string) (*core.Conversation, error) {
	conv := &core.Conversation{IsDM: true}

	for _, line := range lines {
		if idx := strings.Index(line, dmMarker); idx >= 0 {
			conv.DMUsers = parseUserList(line[idx+len(dmMarker):])
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Conversation ID", "ID":
			conv.ID = value
		case "Created":
			conv.CreatedAt, conv.CreatorUsername = parseCreated(value)
		}
	}

	if conv.ID == "" {
		return nil, fmt.Errorf("%w: dm block", ErrMissingConversationID)
	}
	if conv.Name == "" {
		conv.Name = strings.Join(conv.DMUsers, ", ")
	}
	return conv, nil
}

// parseCreated splits "2023-01-01 00:00:00 UTC by admin" into its timestamp
// and creator parts. Either part may be absent.
func parseCreated(value string) (time.Time, string) {
	tsPart, creator, found := strings.Cut(value, " by ")
	if !found {
		return parseMetadataTime(value), ""
	}
	return parseMetadataTime(tsPart), strings.TrimSpace(creator)
}

func parseMetadataTime(value string) time.Time {
	ts, err := ResolveTimestamp(strings.TrimSpace(value), nil)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// parseUserList splits "alice, bob and carol" into its member usernames,
// preserving order.
func parseUserList(value string) []string {
	value = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(value), ":"))
	var users []string
	for _, part := range strings.Split(value, ",") {
		for _, name := range strings.Split(part, " and ") {
			name = strings.TrimSpace(name)
			if name != "" {
				users = append(users, name)
			}
		}
	}
	return users
}
