package sys

import (
	"testing"
	"time"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "hello", max: 10, want: "hello"},
		{in: "hello", max: 3, want: "hel"},
		{in: "héllo", max: 2, want: "hé"},
		{in: "hello", max: 0, want: ""},
	}
	for _, tt := range tests {
		if got := TruncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "0:00"},
		{in: 59 * time.Second, want: "0:59"},
		{in: 3*time.Minute + 5*time.Second, want: "3:05"},
		{in: time.Hour + 2*time.Minute + 3*time.Second, want: "1:02:03"},
		{in: 1500 * time.Millisecond, want: "0:02"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseColonDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{in: "3:20", want: 200 * time.Second},
		{in: "1:02:03", want: time.Hour + 2*time.Minute + 3*time.Second},
		{in: "45", want: 45 * time.Second},
		{in: "", want: 0},
		{in: "a:b", want: 0},
	}
	for _, tt := range tests {
		if got := ParseColonDuration(tt.in); got != tt.want {
			t.Errorf("ParseColonDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		123456:   "123,456",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		if got := FormatCount(in); got != want {
			t.Errorf("FormatCount(%d) = %q, want %q", in, got, want)
		}
	}
}
