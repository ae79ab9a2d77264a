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
	"regexp"
	"strconv"
	"time"
)

const fullTimestampLayout = "2006-01-02 15:04:05"

var (
	fullTimestampRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})(?: UTC)?$`)
	twelveHourRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2}) (AM|PM)$`)
	twentyFourRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	dateHeaderRe    = regexp.MustCompile(`^-{4}\s*(\d{4}-\d{2}-\d{2})\s*-{4}$`)
)

// ResolveTimestamp parses a timestamp token into an absolute point in time.
//
// Recognized shapes, in priority order:
//  1. Full "YYYY-MM-DD HH:MM:SS", optionally suffixed " UTC". Self-contained,
//     dateContext is ignored.
//  2. 12-hour "H:MM AM|PM". Requires dateContext.
//  3. 24-hour "HH:MM". Requires dateContext.
//
// A token matching none of the shapes fails with ErrMalformedTimestamp; a
// time-only token with a nil dateContext fails with ErrMissingDateContext.
func ResolveTimestamp(token string, dateContext *time.Time) (time.Time, error) {
	if m := fullTimestampRe.FindStringSubmatch(token); m != nil {
		ts, err := time.ParseInLocation(fullTimestampLayout, m[1], time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, token)
		}
		return ts, nil
	}

	if m := twelveHourRe.FindStringSubmatch(token); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 1 || hour > 12 || minute > 59 {
			return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, token)
		}
		if m[3] == "AM" {
			if hour == 12 {
				hour = 0
			}
		} else if hour != 12 {
			hour += 12
		}
		return atTime(dateContext, hour, minute)
	}

	if m := twentyFourRe.FindStringSubmatch(token); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, token)
		}
		return atTime(dateContext, hour, minute)
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, token)
}

func atTime(dateContext *time.Time, hour, minute int) (time.Time, error) {
	if dateContext == nil {
		return time.Time{}, ErrMissingDateContext
	}
	d := dateContext.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC), nil
}

// ParseDateHeader recognizes date-header lines of the form
// "---- YYYY-MM-DD ----" that establish the date context for runs of
// time-only message lines. The second return is false for any other line.
func ParseDateHeader(line string) (time.Time, bool) {
	m := dateHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", m[1], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
