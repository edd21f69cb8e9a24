package pool

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimestampLayouts(t *testing.T) {
	ref := time.Date(2023, 6, 15, 14, 30, 45, 0, time.UTC).UnixNano()
	cases := []string{
		"2023-06-15 14:30:45.000000",
		"2023-06-15 14:30:45",
		"2023-06-15T14:30:45Z",
		"2023-06-15T14:30:45",
	}
	for _, in := range cases {
		got, err := ParseTimestampNanos([]byte(in))
		if err != nil {
			t.Errorf("ParseTimestampNanos(%q) failed: %v", in, err)
			continue
		}
		if got != ref {
			t.Errorf("ParseTimestampNanos(%q) = %d, want %d", in, got, ref)
		}
	}
}

func TestParseTimestampDateOnly(t *testing.T) {
	want := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC).UnixNano()
	got, err := ParseTimestampNanos([]byte("2023-06-15"))
	if err != nil {
		t.Fatalf("ParseTimestampNanos failed: %v", err)
	}
	if got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestParseTimestampEpoch(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1686839445", 1686839445 * int64(time.Second)},
		{"1686839445123", 1686839445123 * int64(time.Millisecond)},
		{"1686839445123456789", 1686839445123456789},
	}
	for _, c := range cases {
		got, err := ParseTimestampNanos([]byte(c.in))
		if err != nil {
			t.Errorf("ParseTimestampNanos(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseTimestampNanos(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "12345678901234567890123"} {
		if _, err := ParseTimestampNanos([]byte(in)); !errors.Is(err, ErrInvalidTimestamp) {
			t.Errorf("ParseTimestampNanos(%q): expected ErrInvalidTimestamp, got %v", in, err)
		}
	}
}
