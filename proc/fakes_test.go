package proc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const (
	testGuild   = snowflake.ID(100000000000000001)
	testText    = snowflake.ID(100000000000000002)
	testVoice   = snowflake.ID(100000000000000003)
	testUser    = snowflake.ID(100000000000000004)
	waitTimeout = 2 * time.Second
)

type fakeProvider struct {
	mu        sync.Mutex
	searchFn  func(ctx context.Context, q string, limit int) ([]Track, error)
	lookupFn  func(ctx context.Context, url string) (Track, error)
	relatedFn func(ctx context.Context, seed Track, exclude []string) (Track, error)

	searches []string
	lookups  []string
	excluded [][]string
}

func (p *fakeProvider) Search(ctx context.Context, q string, limit int) ([]Track, error) {
	p.mu.Lock()
	p.searches = append(p.searches, q)
	fn := p.searchFn
	p.mu.Unlock()
	if fn == nil {
		return []Track{{Title: q, URL: "https://youtu.be/" + q}}, nil
	}
	return fn(ctx, q, limit)
}

func (p *fakeProvider) Lookup(ctx context.Context, url string) (Track, error) {
	p.mu.Lock()
	p.lookups = append(p.lookups, url)
	fn := p.lookupFn
	p.mu.Unlock()
	if fn == nil {
		return Track{Title: "lookup", URL: url}, nil
	}
	return fn(ctx, url)
}

func (p *fakeProvider) Related(ctx context.Context, seed Track, exclude []string) (Track, error) {
	p.mu.Lock()
	p.excluded = append(p.excluded, append([]string(nil), exclude...))
	fn := p.relatedFn
	p.mu.Unlock()
	if fn == nil {
		return Track{}, ErrNoTracksFound
	}
	return fn(ctx, seed, exclude)
}

func (p *fakeProvider) searchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.searches)
}

type fakeVoice struct {
	mu      sync.Mutex
	joinErr error
	joins   []snowflake.ID
	leaves  int
}

func (v *fakeVoice) Join(_ context.Context, _, channelID snowflake.ID) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.joinErr != nil {
		return v.joinErr
	}
	v.joins = append(v.joins, channelID)
	return nil
}

func (v *fakeVoice) Leave(context.Context, snowflake.ID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.leaves++
}

func (v *fakeVoice) leaveCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.leaves
}

type fakeHistory struct {
	mu   sync.Mutex
	urls []string
}

func (h *fakeHistory) Record(_ context.Context, _ snowflake.ID, url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.urls = append(h.urls, url)
	return nil
}

func (h *fakeHistory) Recent(_ context.Context, _ snowflake.ID, limit int) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := append([]string(nil), h.urls...)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakePresence struct {
	mu        sync.Mutex
	listening []string
	idle      []string
	err       error
}

func (p *fakePresence) SetListening(_ context.Context, title string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listening = append(p.listening, title)
	return p.err
}

func (p *fakePresence) SetIdle(_ context.Context, status string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idle = append(p.idle, status)
	return p.err
}

type fakeSweeper struct {
	mu       sync.Mutex
	n        int
	err      error
	channels []snowflake.ID
}

func (s *fakeSweeper) SweepBotMessages(_ context.Context, channelID snowflake.ID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = append(s.channels, channelID)
	return s.n, s.err
}

type fakeRenderer struct {
	mu        sync.Mutex
	responses []Response
	err       error
}

func (r *fakeRenderer) Render(_ context.Context, resp Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, resp)
	return r.err
}

// eventLog collects every published event.
type eventLog struct {
	mu     sync.Mutex
	events []Event
	ch     chan Event
}

func watch(bus *Bus) *eventLog {
	l := &eventLog{ch: make(chan Event, 256)}
	bus.Subscribe(func(ev Event) {
		l.mu.Lock()
		l.events = append(l.events, ev)
		l.mu.Unlock()
		select {
		case l.ch <- ev:
		default:
		}
	}, EventSessionStarted, EventTrackStarted, EventTrackFinished, EventChannelEmptied, EventSessionEnded, EventPlayerError)
	return l
}

func (l *eventLog) count(typ EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// waitFor blocks until an event matching typ and pred arrives.
func (l *eventLog) waitFor(t *testing.T, typ EventType, pred func(Event) bool) Event {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case ev := <-l.ch:
			if ev.Type == typ && (pred == nil || pred(ev)) {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", typ)
			return Event{}
		}
	}
}

type harness struct {
	provider *fakeProvider
	voice    *fakeVoice
	history  *fakeHistory
	bus      *Bus
	log      *eventLog
	queue    *Controller
	resolver *Resolver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		provider: &fakeProvider{},
		voice:    &fakeVoice{},
		history:  &fakeHistory{},
		bus:      NewBus(),
	}
	h.log = watch(h.bus)
	h.resolver = NewResolver(h.provider, ResolverOptions{
		SearchTimeout: 200 * time.Millisecond,
		PlayTimeout:   200 * time.Millisecond,
	})
	h.queue = NewController(ControllerOptions{
		Bus:      h.bus,
		Voice:    h.voice,
		Resolver: h.resolver,
		History:  h.history,
	})
	t.Cleanup(func() {
		h.queue.Shutdown()
		h.bus.Wait()
	})
	return h
}

// session creates a Session and queues tracks, the first one playing.
func (h *harness) session(t *testing.T, tracks ...Track) *Session {
	t.Helper()
	unlock := h.queue.Lock(testGuild)
	defer unlock()
	s, err := h.queue.Create(context.Background(), testGuild, Metadata{
		OriginChannel: testText,
		VoiceChannel:  testVoice,
		RequestedByID: testUser,
		RequestedBy:   "tester",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, tr := range tracks {
		h.queue.Enqueue(s, tr)
	}
	return s
}

func track(name string) Track {
	return Track{Title: name, Author: "artist", URL: "https://youtu.be/" + name}
}

func shortTrack(name string, d time.Duration) Track {
	t := track(name)
	t.Duration = d
	return t
}

var errBoom = errors.New("boom")
