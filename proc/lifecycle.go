package proc

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/maronn/sys"
)

const lifecycleTimeout = 15 * time.Second

// Presence controls the bot's visible activity.
type Presence interface {
	SetListening(ctx context.Context, title string) error
	SetIdle(ctx context.Context, status string) error
}

// Sweeper deletes the bot's own recent messages in a channel.
type Sweeper interface {
	SweepBotMessages(ctx context.Context, channelID snowflake.ID) (int, error)
}

// Renderer delivers a Response to the platform.
type Renderer interface {
	Render(ctx context.Context, resp Response) error
}

type LifecycleOptions struct {
	Presence Presence
	Sweeper  Sweeper
	Renderer Renderer
	Idle     *StatusRotator
	Context  context.Context
}

// Lifecycle reacts to playback events with presence updates, now-playing
// notifications and channel cleanup.
type Lifecycle struct {
	presence Presence
	sweeper  Sweeper
	renderer Renderer
	idle     *StatusRotator
	ctx      context.Context
}

func NewLifecycle(opts LifecycleOptions) *Lifecycle {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return &Lifecycle{
		presence: opts.Presence,
		sweeper:  opts.Sweeper,
		renderer: opts.Renderer,
		idle:     opts.Idle,
		ctx:      opts.Context,
	}
}

// Attach subscribes the handlers to bus.
func (l *Lifecycle) Attach(bus *Bus) {
	bus.Subscribe(l.onTrackStarted, EventTrackStarted)
	bus.Subscribe(l.onTrackFinished, EventTrackFinished, EventChannelEmptied)
	bus.Subscribe(l.onPlayerError, EventPlayerError)
	bus.Subscribe(l.onSessionEnded, EventSessionEnded)
}

func (l *Lifecycle) onTrackStarted(ev Event) {
	ctx, cancel := context.WithTimeout(l.ctx, lifecycleTimeout)
	defer cancel()

	if l.presence != nil {
		if err := l.presence.SetListening(ctx, ev.Track.Title); err != nil {
			sys.LogVoice(sys.MsgVoicePresenceFail, err)
		}
	}
	if l.renderer != nil && ev.Metadata.OriginChannel != 0 {
		if err := l.renderer.Render(ctx, NowPlaying(ev)); err != nil {
			sys.LogVoice(sys.MsgVoiceNotifyFail, ev.Metadata.OriginChannel, err)
		}
	}
}

func (l *Lifecycle) onTrackFinished(ev Event) {
	ctx, cancel := context.WithTimeout(l.ctx, lifecycleTimeout)
	defer cancel()

	if l.presence != nil && l.idle != nil {
		if err := l.presence.SetIdle(ctx, l.idle.Pick()); err != nil {
			sys.LogVoice(sys.MsgVoicePresenceFail, err)
		}
	}
	if l.sweeper == nil || ev.Metadata.OriginChannel == 0 {
		return
	}
	n, err := l.sweeper.SweepBotMessages(ctx, ev.Metadata.OriginChannel)
	if err != nil {
		sys.LogHousekeeping(sys.MsgHousekeepingFail, ev.Metadata.OriginChannel, err)
		return
	}
	if n > 0 {
		sys.LogHousekeeping(sys.MsgHousekeepingSwept, n, ev.Metadata.OriginChannel)
	}
}

func (l *Lifecycle) onPlayerError(ev Event) {
	sys.LogError(sys.MsgVoicePlayerError, ev.GuildID, ev.Err)
}

func (l *Lifecycle) onSessionEnded(ev Event) {
	sys.LogVoice(sys.MsgVoiceSessionEnded, ev.GuildID, ev.Reason)
}

// NowPlaying builds the notification posted when a track starts.
func NowPlaying(ev Event) Response {
	t := ev.Track
	live := "No"
	if t.Live {
		live = "Yes"
	}
	views := ""
	if t.Views > 0 {
		views = sys.FormatCount(t.Views)
	}
	requestedBy := t.RequestedBy
	if requestedBy == "" {
		requestedBy = ev.Metadata.RequestedBy
	}

	return Response{
		Title:       fmt.Sprintf(sys.MsgNowPlaying, t.Title),
		Description: fmt.Sprintf(sys.MsgNowPlayingQueue, ev.QueueSize),
		URL:         t.URL,
		Thumbnail:   t.Thumbnail,
		Color:       ColorNowPlaying,
		Fields: []Field{
			{Name: "Duration", Value: t.DisplayDuration(), Inline: true},
			{Name: "Views", Value: views, Inline: true},
			{Name: "Author", Value: t.Author, Inline: true},
			{Name: "LoopMode", Value: ev.RepeatMode.String(), Inline: true},
			{Name: "IsLive", Value: live, Inline: true},
			{Name: "RequestedBy", Value: requestedBy, Inline: true},
		},
		Target:    TargetChannel,
		ChannelID: ev.Metadata.OriginChannel,
	}
}
