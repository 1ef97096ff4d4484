package proc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/maronn/sys"
)

const (
	ColorNowPlaying = 0x181818
	ColorError      = 0xED4245
)

// Request is the normalized invocation context of a player command.
type Request struct {
	GuildID        snowflake.ID
	TextChannelID  snowflake.ID
	VoiceChannelID snowflake.ID
	UserID         snowflake.ID
	UserName       string
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Target selects where a Response is delivered.
type Target int

const (
	TargetReply Target = iota
	TargetChannel
)

// Response describes one user-visible notification. Empty fields are left
// out when rendered.
type Response struct {
	Title       string
	Description string
	URL         string
	Thumbnail   string
	Color       int
	Fields      []Field

	Target    Target
	ChannelID snowflake.ID
	Ephemeral bool
	// Silent means the interaction is acknowledged without a visible message.
	Silent bool
}

func softFailure(title string) Response {
	return Response{Title: title, Ephemeral: true}
}

// Orchestrator implements the player commands on top of a Controller.
type Orchestrator struct {
	queue    *Controller
	resolver *Resolver
	sweeper  Sweeper
}

func NewOrchestrator(queue *Controller, resolver *Resolver, sweeper Sweeper) *Orchestrator {
	return &Orchestrator{queue: queue, resolver: resolver, sweeper: sweeper}
}

func (o *Orchestrator) Queue() *Controller   { return o.queue }
func (o *Orchestrator) Resolver() *Resolver { return o.resolver }

// Play resolves query and queues the result, creating the guild's Session
// when needed. ack runs before any provider work.
func (o *Orchestrator) Play(ctx context.Context, req Request, query string, ack func()) Response {
	if ack != nil {
		ack()
	}

	track, err := o.resolver.Resolve(ctx, query)
	if err != nil {
		if errors.Is(err, ErrNoTracksFound) {
			return Response{Title: sys.ErrPlayNoTrackFound, Description: query, Color: ColorError}
		}
		pe := AsProviderError(err)
		sys.LogWarn(sys.MsgVoiceProviderError, query, pe)
		return Response{Title: sys.ErrPlayFailed, Description: pe.Error(), Color: ColorError}
	}
	track.RequestedBy = req.UserName

	unlock := o.queue.Lock(req.GuildID)
	defer unlock()

	s := o.queue.Get(req.GuildID)
	wasEmpty := s == nil || (!s.IsPlaying() && s.Size() == 0)
	if s == nil {
		s, err = o.queue.Create(ctx, req.GuildID, Metadata{
			OriginChannel: req.TextChannelID,
			VoiceChannel:  req.VoiceChannelID,
			RequestedByID: req.UserID,
			RequestedBy:   req.UserName,
		})
		if err != nil {
			pe := &ProviderError{Code: "VOICE", Message: "could not join the voice channel", Err: err}
			return Response{Title: sys.ErrPlayFailed, Description: pe.Error(), Color: ColorError}
		}
	}

	ahead := o.queue.Enqueue(s, track)
	if wasEmpty {
		return Response{
			Title:     fmt.Sprintf(sys.MsgPlayStartingQueue, track.Title),
			URL:       track.URL,
			Thumbnail: track.Thumbnail,
		}
	}
	return Response{
		Title:       fmt.Sprintf(sys.MsgPlayAddingToQueue, track.Title),
		Description: fmt.Sprintf(sys.MsgPlayQueueAhead, ahead),
		URL:         track.URL,
		Thumbnail:   track.Thumbnail,
	}
}

func (o *Orchestrator) Stop(req Request) Response {
	unlock := o.queue.Lock(req.GuildID)
	defer unlock()

	s := o.queue.Get(req.GuildID)
	if s == nil {
		return Response{Title: sys.MsgStopNothing}
	}
	o.queue.Terminate(s, "stopped")
	return Response{Title: sys.MsgStopDone}
}

// Skip moves playback forward by count tracks. A nil or non-positive count
// means one.
func (o *Orchestrator) Skip(req Request, count *int) Response {
	unlock := o.queue.Lock(req.GuildID)
	defer unlock()

	s := o.queue.Get(req.GuildID)
	if s == nil {
		return softFailure(sys.ErrNoPlayerSession)
	}
	if !s.IsPlaying() {
		return softFailure(sys.ErrNothingPlaying)
	}

	n := 1
	if count != nil && *count > 1 {
		n = *count
	}

	if n > s.Size() {
		if s.RepeatMode() == RepeatAutoplay {
			o.queue.SkipToAutoplay(s)
			return Response{Title: sys.MsgSkipAutoplay}
		}
		o.queue.Terminate(s, "skipped past end")
		return Response{Title: sys.MsgSkipPastEnd}
	}

	if _, err := o.queue.SkipTo(s, n); err != nil {
		return softFailure(sys.ErrNothingPlaying)
	}
	return Response{Title: fmt.Sprintf(sys.MsgSkipDone, n)}
}

func (o *Orchestrator) Loop(req Request, mode int) Response {
	unlock := o.queue.Lock(req.GuildID)
	defer unlock()

	s := o.queue.Get(req.GuildID)
	if s == nil {
		return softFailure(sys.ErrNoPlayerSession)
	}
	m, ok := ParseRepeatMode(mode)
	if !ok {
		return softFailure(sys.ErrLoopInvalidMode)
	}
	s.SetRepeatMode(m)
	return Response{Title: fmt.Sprintf(sys.MsgLoopSet, m)}
}

// Pause toggles the paused state. It always answers silently.
func (o *Orchestrator) Pause(req Request) Response {
	unlock := o.queue.Lock(req.GuildID)
	defer unlock()

	if s := o.queue.Get(req.GuildID); s != nil {
		o.queue.TogglePause(s)
	}
	return Response{Silent: true}
}

func (o *Orchestrator) Filters(req Request, filter1, filter2 string) Response {
	unlock := o.queue.Lock(req.GuildID)
	defer unlock()

	s := o.queue.Get(req.GuildID)
	if s == nil {
		return softFailure(sys.ErrNoPlayerSession)
	}
	filter1 = strings.TrimSpace(filter1)
	filter2 = strings.TrimSpace(filter2)
	if filter1 == "" {
		return softFailure(sys.ErrFiltersMissing)
	}

	if filter1 == FilterDefault || filter2 == FilterDefault {
		o.queue.ToggleFilters(s, FilterDefault)
		return Response{Title: sys.MsgFiltersCleared}
	}

	names := []string{filter1}
	if filter2 != "" {
		names = append(names, filter2)
	}
	enabled := o.queue.ToggleFilters(s, names...)
	return Response{Title: sys.MsgFiltersEnabled, Description: FormatFilters(enabled)}
}

// DeleteMessages removes the bot's recent messages from the invoking channel.
func (o *Orchestrator) DeleteMessages(ctx context.Context, req Request) Response {
	if o.sweeper == nil {
		return Response{Title: sys.ErrHousekeepingFailed, Ephemeral: true}
	}
	n, err := o.sweeper.SweepBotMessages(ctx, req.TextChannelID)
	if err != nil {
		sys.LogHousekeeping(sys.MsgHousekeepingFail, req.TextChannelID, err)
		return Response{Title: sys.ErrHousekeepingFailed, Description: err.Error(), Ephemeral: true}
	}
	if n == 0 {
		return Response{Title: sys.MsgHousekeepingNothing, Ephemeral: true}
	}
	return Response{Title: fmt.Sprintf(sys.MsgHousekeepingDeleted, n), Ephemeral: true}
}
