package home

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leeineian/maronn/proc"
)

func TestBuildEmbed(t *testing.T) {
	resp := proc.Response{
		Title:       "Now playing: Song",
		Description: "There are still 0 songs in queue",
		URL:         "https://youtu.be/song",
		Thumbnail:   "https://i.ytimg.com/vi/song/hqdefault.jpg",
		Color:       proc.ColorNowPlaying,
		Fields: []proc.Field{
			{Name: "Duration", Value: "3:05", Inline: true},
			{Name: "Views", Value: ""},
			{Name: "Author", Value: "Band", Inline: true},
		},
	}
	e := buildEmbed(resp, "footer", "https://icon")

	if e.Title != resp.Title || e.Description != resp.Description || e.URL != resp.URL {
		t.Errorf("unexpected embed %+v", e)
	}
	if e.Color != proc.ColorNowPlaying {
		t.Errorf("unexpected color %#x", e.Color)
	}
	if e.Thumbnail == nil || e.Thumbnail.URL != resp.Thumbnail {
		t.Error("expected thumbnail")
	}
	if e.Footer == nil || e.Footer.Text != "footer" || e.Footer.IconURL != "https://icon" {
		t.Error("expected footer")
	}
	if e.Timestamp == nil {
		t.Error("expected timestamp")
	}
	if len(e.Fields) != 2 {
		t.Fatalf("empty fields should be dropped, got %d", len(e.Fields))
	}
	if e.Fields[0].Inline == nil || !*e.Fields[0].Inline {
		t.Error("expected inline field")
	}
}

func TestBuildEmbedTruncates(t *testing.T) {
	resp := proc.Response{
		Title:       strings.Repeat("t", 300),
		Description: strings.Repeat("d", 5000),
		Fields:      []proc.Field{{Name: "Long", Value: strings.Repeat("v", 2000)}},
	}
	e := buildEmbed(resp, "", "")

	if n := utf8.RuneCountInString(e.Title); n != maxEmbedTitle {
		t.Errorf("title has %d runes", n)
	}
	if n := utf8.RuneCountInString(e.Description); n != maxEmbedDescription {
		t.Errorf("description has %d runes", n)
	}
	if n := utf8.RuneCountInString(e.Fields[0].Value); n != maxEmbedFieldValue {
		t.Errorf("field has %d runes", n)
	}
	if e.Footer != nil || e.Thumbnail != nil {
		t.Error("empty footer and thumbnail should be omitted")
	}
}
