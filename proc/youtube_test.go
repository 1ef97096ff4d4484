package proc

import (
	"errors"
	"testing"
	"time"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url, want string
	}{
		{url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=RD", want: "dQw4w9WgXcQ"},
		{url: "https://youtu.be/dQw4w9WgXcQ?si=abc", want: "dQw4w9WgXcQ"},
		{url: "https://youtube.com/shorts/abc123/", want: "abc123"},
		{url: "https://example.com/song.mp3", want: ""},
	}
	for _, tt := range tests {
		if got := extractVideoID(tt.url); got != tt.want {
			t.Errorf("extractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestParseLookupOutput(t *testing.T) {
	out := "abc\tSong Title\tUploader\t215\t12345\tFalse\thttps://www.youtube.com/watch?v=abc\n"
	got, ok := parseLookupOutput(out)
	if !ok {
		t.Fatal("expected a track")
	}
	if got.Title != "Song Title" || got.Author != "Uploader" {
		t.Errorf("unexpected track %+v", got)
	}
	if got.Duration != 215*time.Second {
		t.Errorf("unexpected duration %v", got.Duration)
	}
	if got.Views != 12345 || got.Live {
		t.Errorf("unexpected views/live %d/%v", got.Views, got.Live)
	}
	if got.URL != "https://youtu.be/abc" || got.Thumbnail == "" {
		t.Errorf("expected canonical url and thumbnail, got %q %q", got.URL, got.Thumbnail)
	}
}

func TestParseLookupOutputLiveAndNA(t *testing.T) {
	out := "xyz\tRadio\tNA\tNA\tNA\tTrue\thttps://youtu.be/xyz\n"
	got, ok := parseLookupOutput(out)
	if !ok {
		t.Fatal("expected a track")
	}
	if !got.Live || got.Duration != 0 || got.Author != "" || got.Views != 0 {
		t.Errorf("unexpected track %+v", got)
	}
	if got.DisplayDuration() != "Live" {
		t.Errorf("expected Live, got %q", got.DisplayDuration())
	}
}

func TestParseLookupOutputRejectsGarbage(t *testing.T) {
	for _, out := range []string{"", "only\ttwo", "id\tNA\ta\t1\t1\tFalse\thttps://x"} {
		if _, ok := parseLookupOutput(out); ok {
			t.Errorf("expected no track for %q", out)
		}
	}
}

func TestParseFlatEntries(t *testing.T) {
	out := "a1\tFirst\tArtist\t180\nNA\tBroken\tX\t1\nb2\tSecond\tNA\tNA\n"
	got := parseFlatEntries(out)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].URL != "https://youtu.be/a1" || got[0].Duration != 3*time.Minute {
		t.Errorf("unexpected first entry %+v", got[0])
	}
	if got[1].Author != "" {
		t.Errorf("NA author should be empty, got %q", got[1].Author)
	}
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{in: "90", want: 90 * time.Second},
		{in: "1.5", want: 1500 * time.Millisecond},
		{in: "3:20", want: 200 * time.Second},
		{in: "NA", want: 0},
		{in: "-3", want: 0},
	}
	for _, tt := range tests {
		if got := parseSeconds(tt.in); got != tt.want {
			t.Errorf("parseSeconds(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPickRelated(t *testing.T) {
	candidates := []Track{track("seed"), track("played"), track("fresh"), track("other")}

	got, err := pickRelated(candidates, "seed", []string{"https://youtu.be/played"})
	if err != nil || got.Title != "fresh" {
		t.Errorf("expected fresh, got %+v, %v", got, err)
	}

	_, err = pickRelated(candidates[:2], "seed", []string{"https://youtu.be/played"})
	if !errors.Is(err, ErrNoTracksFound) {
		t.Errorf("expected ErrNoTracksFound, got %v", err)
	}
}
