package proc

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/maronn/sys"
)

// RepeatMode controls what happens when the current track finishes.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatTrack
	RepeatQueue
	RepeatAutoplay
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatTrack:
		return "Track"
	case RepeatQueue:
		return "Queue"
	case RepeatAutoplay:
		return "Autoplay"
	default:
		return "Unknown"
	}
}

// ParseRepeatMode maps the slash-command integer choice to a mode.
func ParseRepeatMode(v int) (RepeatMode, bool) {
	m := RepeatMode(v)
	if m < RepeatOff || m > RepeatAutoplay {
		return RepeatOff, false
	}
	return m, true
}

// Track is a resolved, playable item. It is never mutated after resolution.
type Track struct {
	Title       string
	Author      string
	URL         string
	Duration    time.Duration
	Views       int64
	Live        bool
	Thumbnail   string
	RequestedBy string
}

// DisplayDuration renders the duration, or "Live" for streams.
func (t Track) DisplayDuration() string {
	if t.Live {
		return "Live"
	}
	return sys.FormatDuration(t.Duration)
}

// Metadata is the bookkeeping attached to a Session at creation.
type Metadata struct {
	OriginChannel snowflake.ID
	VoiceChannel  snowflake.ID
	RequestedByID snowflake.ID
	RequestedBy   string
	IsFirstTrack  bool
}
