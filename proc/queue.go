package proc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/leeineian/maronn/sys"
)

const (
	historyLookback = 50
	voiceOpTimeout  = 10 * time.Second
)

// VoiceConnector binds the bot to a guild voice channel.
type VoiceConnector interface {
	Join(ctx context.Context, guildID, channelID snowflake.ID) error
	Leave(ctx context.Context, guildID snowflake.ID)
}

type ControllerOptions struct {
	Bus      *Bus
	Voice    VoiceConnector
	Resolver *Resolver
	// History is optional; without it autoplay only avoids this session's tracks.
	History HistoryStore
	// Context bounds background work such as autoplay lookups.
	Context context.Context
}

// Controller owns every Session. Callers take the guild lock with Lock
// before reading or mutating a guild's Session.
type Controller struct {
	mu       sync.Mutex
	sessions map[snowflake.ID]*Session
	locks    map[snowflake.ID]*sync.Mutex
	nextGen  uint64

	bus      *Bus
	voice    VoiceConnector
	resolver *Resolver
	history  HistoryStore
	ctx      context.Context
	wg       sync.WaitGroup
}

func NewController(opts ControllerOptions) *Controller {
	if opts.Bus == nil {
		opts.Bus = NewBus()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return &Controller{
		sessions: make(map[snowflake.ID]*Session),
		locks:    make(map[snowflake.ID]*sync.Mutex),
		bus:      opts.Bus,
		voice:    opts.Voice,
		resolver: opts.Resolver,
		history:  opts.History,
		ctx:      opts.Context,
	}
}

func (c *Controller) Bus() *Bus { return c.bus }

// Lock acquires the guild's mutex and returns its release func.
func (c *Controller) Lock(guildID snowflake.ID) func() {
	c.mu.Lock()
	l, ok := c.locks[guildID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[guildID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Get returns the guild's live Session or nil.
func (c *Controller) Get(guildID snowflake.ID) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[guildID]
}

// PlayingCount is the number of sessions with a current track. It takes each
// guild lock briefly, so it must not be called while holding one.
func (c *Controller) PlayingCount() int {
	n := 0
	for _, id := range c.guildIDs() {
		unlock := c.Lock(id)
		if s := c.Get(id); s != nil && s.IsPlaying() {
			n++
		}
		unlock()
	}
	return n
}

func (c *Controller) guildIDs() []snowflake.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]snowflake.ID, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Create joins the voice channel named in meta and registers a new Session.
func (c *Controller) Create(ctx context.Context, guildID snowflake.ID, meta Metadata) (*Session, error) {
	if c.Get(guildID) != nil {
		return nil, ErrSessionAlreadyExists
	}

	if c.voice != nil {
		sys.LogVoice(sys.MsgVoiceJoining, meta.VoiceChannel, guildID)
		joinCtx, cancel := context.WithTimeout(ctx, voiceOpTimeout)
		err := c.voice.Join(joinCtx, guildID, meta.VoiceChannel)
		cancel()
		if err != nil {
			sys.LogVoice(sys.MsgVoiceJoinFail, guildID, err)
			return nil, fmt.Errorf("join voice channel: %w", err)
		}
	}

	meta.IsFirstTrack = true
	c.mu.Lock()
	c.nextGen++
	s := &Session{
		ID:         uuid.NewString(),
		Generation: c.nextGen,
		GuildID:    guildID,
		metadata:   meta,
		timeline:   NewTimeline(),
	}
	c.sessions[guildID] = s
	c.mu.Unlock()

	sys.LogVoice(sys.MsgVoiceSessionCreated, s.ID, guildID, s.Generation)
	c.publish(s, EventSessionStarted, Track{}, "")
	return s, nil
}

// Enqueue appends t and starts it when nothing is playing. It returns how
// many tracks are ahead of t.
func (c *Controller) Enqueue(s *Session, t Track) int {
	if s.current == nil {
		s.tracks = append([]Track{t}, s.tracks...)
		c.startNextLocked(s)
		return 0
	}
	ahead := 1 + len(s.tracks)
	s.tracks = append(s.tracks, t)
	sys.LogVoice(sys.MsgVoiceTrackQueued, t.Title, s.GuildID, len(s.tracks))
	return ahead
}

// SkipTo finishes the current track and plays the n-th upcoming one,
// dropping the tracks in between.
func (c *Controller) SkipTo(s *Session, n int) (Track, error) {
	target, ok := s.SkipTarget(n)
	if !ok {
		return Track{}, fmt.Errorf("skip %d of %d: %w", n, len(s.tracks), ErrNoTracksFound)
	}
	c.finishLocked(s, "skipped")
	s.tracks = s.tracks[n-1:]
	c.startNextLocked(s)
	return target, nil
}

// SkipToAutoplay finishes the current track, drops the queue and asks the
// provider for a follow-up. The Session stays alive meanwhile.
func (c *Controller) SkipToAutoplay(s *Session) {
	seed, _ := s.CurrentTrack()
	c.finishLocked(s, "skipped")
	s.tracks = nil
	c.requestAutoplayLocked(s, seed)
}

// TogglePause flips the paused state of the current track.
func (c *Controller) TogglePause(s *Session) (paused bool, ok bool) {
	paused, ok = s.timeline.TogglePause()
	if !ok {
		return false, false
	}
	if paused {
		sys.LogVoice(sys.MsgVoicePaused, s.GuildID)
	} else {
		sys.LogVoice(sys.MsgVoiceResumed, s.GuildID)
	}
	return paused, true
}

// ToggleFilters applies the toggle and hands the resulting chain to the timeline.
func (c *Controller) ToggleFilters(s *Session, names ...string) []string {
	enabled := s.ToggleFilters(names...)
	chain := FilterChain(enabled)
	s.timeline.SetFilterChain(chain)
	if chain == "" {
		chain = FormatFilters(nil)
	}
	sys.LogVoice(sys.MsgVoiceFilterChain, s.GuildID, chain)
	return enabled
}

// Terminate publishes the pending finish for the current track and deletes
// the Session. Both steps are no-ops when already done.
func (c *Controller) Terminate(s *Session, reason string) bool {
	c.finishLocked(s, reason)
	return c.Delete(s.GuildID, s.Generation, reason)
}

// Delete tears down the guild's Session if it still has generation gen.
// A repeated or stale delete returns false and changes nothing.
func (c *Controller) Delete(guildID snowflake.ID, gen uint64, reason string) bool {
	c.mu.Lock()
	s, ok := c.sessions[guildID]
	if !ok || s.Generation != gen {
		c.mu.Unlock()
		return false
	}
	delete(c.sessions, guildID)
	c.mu.Unlock()

	s.timeline.Stop()
	s.current = nil
	s.tracks = nil
	s.autoplayPending = false
	s.finishPending = false

	if c.voice != nil {
		sys.LogVoice(sys.MsgVoiceLeaving, guildID)
		ctx, cancel := context.WithTimeout(context.Background(), voiceOpTimeout)
		c.voice.Leave(ctx, guildID)
		cancel()
	}

	sys.LogVoice(sys.MsgVoiceSessionDeleted, s.ID, guildID, reason)
	c.publish(s, EventSessionEnded, Track{}, reason)
	return true
}

// ChannelEmptied ends the guild's Session because nobody is listening.
func (c *Controller) ChannelEmptied(guildID snowflake.ID) bool {
	unlock := c.Lock(guildID)
	defer unlock()

	s := c.Get(guildID)
	if s == nil {
		return false
	}
	sys.LogVoice(sys.MsgVoiceChannelEmpty, guildID)
	cur, _ := s.CurrentTrack()
	s.finishPending = false
	c.publish(s, EventChannelEmptied, cur, "channel emptied")
	return c.Delete(guildID, s.Generation, "channel emptied")
}

// Disconnected ends the Session after the bot was removed from voice by
// someone else.
func (c *Controller) Disconnected(guildID snowflake.ID) bool {
	unlock := c.Lock(guildID)
	defer unlock()
	s := c.Get(guildID)
	if s == nil {
		return false
	}
	return c.Terminate(s, "disconnected")
}

// VoiceChannel returns the channel the guild's Session is bound to.
func (c *Controller) VoiceChannel(guildID snowflake.ID) (snowflake.ID, bool) {
	unlock := c.Lock(guildID)
	defer unlock()
	s := c.Get(guildID)
	if s == nil {
		return 0, false
	}
	return s.metadata.VoiceChannel, true
}

// Rebind records that the bot was moved to another voice channel.
func (c *Controller) Rebind(guildID, channelID snowflake.ID) {
	unlock := c.Lock(guildID)
	defer unlock()
	if s := c.Get(guildID); s != nil {
		s.metadata.VoiceChannel = channelID
	}
}

// ReportError publishes a playback error. Errors never end a Session.
func (c *Controller) ReportError(guildID snowflake.ID, err error) {
	unlock := c.Lock(guildID)
	defer unlock()
	ev := Event{Type: EventPlayerError, GuildID: guildID, Err: err}
	if s := c.Get(guildID); s != nil {
		ev = c.snapshot(s, EventPlayerError, Track{}, "")
		ev.Err = err
	}
	c.bus.Publish(ev)
}

// Shutdown deletes every Session and waits for background work.
func (c *Controller) Shutdown() {
	ids := c.guildIDs()
	sys.LogVoice(sys.MsgVoiceShutdownSessions, len(ids))
	for _, id := range ids {
		unlock := c.Lock(id)
		if s := c.Get(id); s != nil {
			c.Terminate(s, "shutdown")
		}
		unlock()
	}
	c.wg.Wait()
}

// --- transitions (guild lock held) ---

// startNextLocked pops the head of the queue onto the timeline. It reports
// false when the queue was empty.
func (c *Controller) startNextLocked(s *Session) bool {
	if len(s.tracks) == 0 {
		return false
	}
	next := s.tracks[0]
	s.tracks = s.tracks[1:]
	c.playLocked(s, next)
	return true
}

func (c *Controller) playLocked(s *Session, t Track) {
	s.current = &t
	s.finishPending = true
	s.autoplayPending = false
	s.history = append(s.history, t.URL)
	if len(s.history) > historyLookback {
		s.history = s.history[len(s.history)-historyLookback:]
	}

	gen := s.Generation
	guildID := s.GuildID
	length := t.Duration
	if t.Live {
		length = 0
	}
	s.timeline.Start(length, func() { c.onTrackEnd(guildID, gen) })

	chain := s.timeline.FilterChain()
	if chain == "" {
		chain = FormatFilters(nil)
	}
	sys.LogVoice(sys.MsgVoiceTrackStarted, t.Title, guildID, chain)
	c.publish(s, EventTrackStarted, t, "")
	s.metadata.IsFirstTrack = false

	if c.history != nil && t.URL != "" {
		c.goBackground(func(ctx context.Context) {
			if err := c.history.Record(ctx, guildID, t.URL); err != nil {
				sys.LogWarn(sys.MsgDatabaseHistoryFail, guildID, err)
			}
		})
	}
}

// finishLocked publishes the finish of the current track once.
func (c *Controller) finishLocked(s *Session, reason string) {
	played := s.timeline.Position()
	s.timeline.Stop()
	if s.current == nil {
		return
	}
	finished := *s.current
	s.current = nil
	if !s.finishPending {
		return
	}
	s.finishPending = false
	sys.LogVoice(sys.MsgVoiceTrackFinished, finished.Title, s.GuildID, sys.FormatDuration(played))
	c.publish(s, EventTrackFinished, finished, reason)
}

// onTrackEnd runs when the timeline reaches the end of a track.
func (c *Controller) onTrackEnd(guildID snowflake.ID, gen uint64) {
	unlock := c.Lock(guildID)
	defer unlock()

	s := c.Get(guildID)
	if s == nil || s.Generation != gen {
		var cur uint64
		if s != nil {
			cur = s.Generation
		}
		sys.LogDebug(sys.MsgVoiceStaleCallback, guildID, gen, cur)
		return
	}
	finished, ok := s.CurrentTrack()
	if !ok {
		return
	}
	c.finishLocked(s, "finished")

	switch s.repeatMode {
	case RepeatTrack:
		c.playLocked(s, finished)
		return
	case RepeatQueue:
		s.tracks = append(s.tracks, finished)
	}

	if c.startNextLocked(s) {
		return
	}
	if s.repeatMode == RepeatAutoplay {
		c.requestAutoplayLocked(s, finished)
		return
	}
	c.Delete(guildID, gen, "queue exhausted")
}

// requestAutoplayLocked looks up a related track in the background and plays
// it if the Session is still idle and of the same generation by then.
func (c *Controller) requestAutoplayLocked(s *Session, seed Track) {
	if c.resolver == nil {
		c.Delete(s.GuildID, s.Generation, "autoplay unavailable")
		return
	}
	s.autoplayPending = true
	guildID, gen := s.GuildID, s.Generation
	exclude := s.History()

	c.goBackground(func(ctx context.Context) {
		if c.history != nil {
			if recent, err := c.history.Recent(ctx, guildID, historyLookback); err == nil {
				exclude = append(exclude, recent...)
			}
		}
		next, err := c.resolver.Related(ctx, seed, exclude)

		unlock := c.Lock(guildID)
		defer unlock()
		cur := c.Get(guildID)
		if cur == nil || cur.Generation != gen || !cur.autoplayPending || cur.current != nil {
			return
		}
		if err != nil {
			sys.LogVoice(sys.MsgVoiceAutoplayFail, guildID, err)
			c.bus.Publish(Event{Type: EventPlayerError, GuildID: guildID, SessionID: cur.ID, Generation: gen, Err: err})
			c.Delete(guildID, gen, "autoplay found nothing")
			return
		}
		sys.LogVoice(sys.MsgVoiceAutoplayPick, next.Title, guildID)
		next.RequestedBy = "Autoplay"
		c.playLocked(cur, next)
	})
}

func (c *Controller) goBackground(fn func(ctx context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				sys.LogError(sys.MsgLoaderPanicRecovered, r)
			}
		}()
		fn(c.ctx)
	}()
}

func (c *Controller) snapshot(s *Session, typ EventType, t Track, reason string) Event {
	return Event{
		Type:       typ,
		GuildID:    s.GuildID,
		SessionID:  s.ID,
		Generation: s.Generation,
		Track:      t,
		Metadata:   s.metadata,
		RepeatMode: s.repeatMode,
		QueueSize:  len(s.tracks),
		Reason:     reason,
	}
}

func (c *Controller) publish(s *Session, typ EventType, t Track, reason string) {
	c.bus.Publish(c.snapshot(s, typ, t, reason))
}
