package proc

import (
	"github.com/disgoorg/snowflake/v2"
)

// Session is the playback state of one guild. Every method expects the
// caller to hold the guild lock from Controller.Lock.
type Session struct {
	ID         string
	Generation uint64
	GuildID    snowflake.ID

	current    *Track
	tracks     []Track
	repeatMode RepeatMode
	filters    []string
	metadata   Metadata
	timeline   *Timeline
	history    []string

	// finishPending is set when a track starts and cleared once its finish
	// has been published, so each start yields at most one finish.
	finishPending   bool
	autoplayPending bool
}

// Size is the number of upcoming tracks, excluding the current one.
func (s *Session) Size() int {
	return len(s.tracks)
}

func (s *Session) IsPlaying() bool {
	return s.current != nil
}

func (s *Session) CurrentTrack() (Track, bool) {
	if s.current == nil {
		return Track{}, false
	}
	return *s.current, true
}

// SkipTarget returns the track that a skip of n lands on (1-based).
func (s *Session) SkipTarget(n int) (Track, bool) {
	if n < 1 || n > len(s.tracks) {
		return Track{}, false
	}
	return s.tracks[n-1], true
}

func (s *Session) RepeatMode() RepeatMode {
	return s.repeatMode
}

func (s *Session) SetRepeatMode(m RepeatMode) {
	s.repeatMode = m
}

// EnabledFilters returns the enabled filter names in catalog order.
func (s *Session) EnabledFilters() []string {
	return append([]string(nil), s.filters...)
}

// ToggleFilters applies a toggle request and returns the new enabled set.
func (s *Session) ToggleFilters(names ...string) []string {
	s.filters = ToggleFilters(s.filters, names...)
	return s.EnabledFilters()
}

func (s *Session) Paused() bool {
	return s.timeline.Paused()
}

// History lists URLs played in this session, oldest first.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}
