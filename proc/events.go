package proc

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/maronn/sys"
)

// EventType identifies a playback lifecycle event.
type EventType int

const (
	EventSessionStarted EventType = iota
	EventTrackStarted
	EventTrackFinished
	EventChannelEmptied
	EventSessionEnded
	EventPlayerError
)

func (t EventType) String() string {
	switch t {
	case EventSessionStarted:
		return "SessionStarted"
	case EventTrackStarted:
		return "TrackStarted"
	case EventTrackFinished:
		return "TrackFinished"
	case EventChannelEmptied:
		return "ChannelEmptied"
	case EventSessionEnded:
		return "SessionEnded"
	case EventPlayerError:
		return "PlayerError"
	default:
		return "Unknown"
	}
}

// Event is a snapshot taken under the guild lock, so handlers never need to
// touch the Session itself.
type Event struct {
	Type       EventType
	GuildID    snowflake.ID
	SessionID  string
	Generation uint64
	Track      Track
	Metadata   Metadata
	RepeatMode RepeatMode
	QueueSize  int
	Reason     string
	Err        error
}

// EventHandler receives published events.
type EventHandler func(Event)

// Bus fans events out to subscribers. Events of one guild are delivered in
// publish order, one at a time; a delivery finishes every handler before the
// next event of that guild starts. Guilds are delivered independently.
type Bus struct {
	mu       sync.Mutex
	idle     *sync.Cond
	handlers map[EventType][]EventHandler
	queues   map[snowflake.ID][]Event
	pending  int
}

func NewBus() *Bus {
	b := &Bus{
		handlers: make(map[EventType][]EventHandler),
		queues:   make(map[snowflake.ID][]Event),
	}
	b.idle = sync.NewCond(&b.mu)
	return b
}

// Subscribe registers h for the listed event types.
func (b *Bus) Subscribe(h EventHandler, types ...EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range types {
		b.handlers[t] = append(b.handlers[t], h)
	}
}

// Publish queues ev behind earlier events of the same guild. It never blocks
// on handlers.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending++
	q, running := b.queues[ev.GuildID]
	b.queues[ev.GuildID] = append(q, ev)
	if !running {
		go b.drain(ev.GuildID)
	}
}

// drain delivers the guild's queue until it is empty.
func (b *Bus) drain(guildID snowflake.ID) {
	for {
		b.mu.Lock()
		q := b.queues[guildID]
		if len(q) == 0 {
			delete(b.queues, guildID)
			b.mu.Unlock()
			return
		}
		ev := q[0]
		b.queues[guildID] = q[1:]
		hs := append([]EventHandler(nil), b.handlers[ev.Type]...)
		b.mu.Unlock()

		for _, h := range hs {
			b.deliver(h, ev)
		}

		b.mu.Lock()
		b.pending--
		if b.pending == 0 {
			b.idle.Broadcast()
		}
		b.mu.Unlock()
	}
}

func (b *Bus) deliver(h EventHandler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			sys.LogError(sys.MsgLoaderPanicRecovered, r)
		}
	}()
	h(ev)
}

// Wait blocks until every event published so far has been delivered.
func (b *Bus) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.pending > 0 {
		b.idle.Wait()
	}
}
