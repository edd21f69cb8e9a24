package pool

import (
	"errors"
	"time"
)

// ErrInvalidTimestamp is returned when no known layout matches.
var ErrInvalidTimestamp = errors.New("pool: invalid timestamp")

// Common timestamp layouts ordered by likelihood in event logs.
var commonLayouts = []string{
	"2006-01-02 15:04:05.000000",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"2006/01/02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseTimestampNanos parses a timestamp byte slice to nanoseconds since
// the Unix epoch. Dash-separated dates fast-path the layout list; all-digit
// values are treated as epoch seconds, millis, or nanos by magnitude.
func ParseTimestampNanos(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, ErrInvalidTimestamp
	}

	if isNumeric(b) {
		return parseEpoch(b)
	}

	s := string(b)
	for _, layout := range commonLayouts {
		if len(layout) > len(s)+6 || len(layout)+10 < len(s) {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixNano(), nil
		}
	}
	return 0, ErrInvalidTimestamp
}

func isNumeric(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseEpoch interprets an all-digit value as a Unix timestamp.
// 10 digits: seconds, 13: milliseconds, 19: nanoseconds.
func parseEpoch(b []byte) (int64, error) {
	var v int64
	for _, c := range b {
		v = v*10 + int64(c-'0')
	}
	switch {
	case len(b) <= 10:
		return v * int64(time.Second), nil
	case len(b) <= 13:
		return v * int64(time.Millisecond), nil
	case len(b) <= 19:
		return v, nil
	}
	return 0, ErrInvalidTimestamp
}
