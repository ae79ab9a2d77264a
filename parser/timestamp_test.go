package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateCtx(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestResolveTimestamp_Full(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  time.Time
	}{
		{
			name:  "full with UTC suffix",
			token: "2023-01-01 10:00:00 UTC",
			want:  time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "full without suffix",
			token: "2024-06-15 23:59:59",
			want:  time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTimestamp(tt.token, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTimestamp_FullIgnoresDateContext(t *testing.T) {
	got, err := ResolveTimestamp("2023-01-01 10:00:00 UTC", dateCtx(1999, 12, 31))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC), got)
}

func TestResolveTimestamp_TwelveHour(t *testing.T) {
	ctx := dateCtx(2023, 3, 14)

	tests := []struct {
		token string
		hour  int
	}{
		{"9:05 AM", 9},
		{"12:00 AM", 0},
		{"12:30 PM", 12},
		{"1:00 PM", 13},
		{"11:59 PM", 23},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ResolveTimestamp(tt.token, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.hour, got.Hour())
			assert.Equal(t, 2023, got.Year())
			assert.Equal(t, time.March, got.Month())
			assert.Equal(t, 14, got.Day())
		})
	}
}

func TestResolveTimestamp_TwentyFourHour(t *testing.T) {
	got, err := ResolveTimestamp("14:30", dateCtx(2023, 3, 14))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 3, 14, 14, 30, 0, 0, time.UTC), got)
}

func TestResolveTimestamp_MissingDateContext(t *testing.T) {
	for _, token := range []string{"9:05 AM", "14:30"} {
		t.Run(token, func(t *testing.T) {
			_, err := ResolveTimestamp(token, nil)
			assert.ErrorIs(t, err, ErrMissingDateContext)
		})
	}
}

func TestResolveTimestamp_Malformed(t *testing.T) {
	tokens := []string{
		"",
		"not a timestamp",
		"25:00",
		"14:75",
		"13:00 PM",
		"0:30 AM",
		"2023-1-1 10:00:00",
	}

	ctx := dateCtx(2023, 3, 14)
	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			_, err := ResolveTimestamp(token, ctx)
			assert.ErrorIs(t, err, ErrMalformedTimestamp)
		})
	}
}

func TestParseDateHeader(t *testing.T) {
	d, ok := ParseDateHeader("---- 2023-05-20 ----")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 5, 20, 0, 0, 0, 0, time.UTC), d)

	_, ok = ParseDateHeader("[2023-01-01 10:00:00 UTC] <alice> hi")
	assert.False(t, ok)

	_, ok = ParseDateHeader("---- not a date ----")
	assert.False(t, ok)
}
