package proc

import (
	"sync"
	"testing"
	"time"
)

func TestBusDeliversToSubscribedTypes(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	var got []EventType
	bus.Subscribe(func(ev Event) {
		mu.Lock()
		got = append(got, ev.Type)
		mu.Unlock()
	}, EventTrackStarted, EventSessionEnded)

	bus.Publish(Event{Type: EventTrackStarted})
	bus.Publish(Event{Type: EventPlayerError})
	bus.Publish(Event{Type: EventSessionEnded})
	bus.Wait()

	if len(got) != 2 {
		t.Fatalf("expected 2 deliveries, got %v", got)
	}
}

func TestBusFansOut(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	calls := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(func(Event) {
			mu.Lock()
			calls++
			mu.Unlock()
		}, EventTrackFinished)
	}
	bus.Publish(Event{Type: EventTrackFinished})
	bus.Wait()
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestBusRecoversHandlerPanic(t *testing.T) {
	bus := NewBus()
	delivered := make(chan struct{}, 1)
	bus.Subscribe(func(Event) { panic("handler failure") }, EventPlayerError)
	bus.Subscribe(func(Event) { delivered <- struct{}{} }, EventPlayerError)

	bus.Publish(Event{Type: EventPlayerError, Err: errBoom})
	bus.Wait()

	select {
	case <-delivered:
	default:
		t.Error("a panicking handler must not block the others")
	}
}

func TestEventTypeString(t *testing.T) {
	tests := map[EventType]string{
		EventSessionStarted: "SessionStarted",
		EventTrackStarted:   "TrackStarted",
		EventTrackFinished:  "TrackFinished",
		EventChannelEmptied: "ChannelEmptied",
		EventSessionEnded:   "SessionEnded",
		EventPlayerError:    "PlayerError",
		EventType(99):       "Unknown",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("%d: expected %q, got %q", int(typ), want, got)
		}
	}
}

func TestBusKeepsGuildOrder(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	var got []uint64
	bus.Subscribe(func(ev Event) {
		if ev.Generation%7 == 0 {
			time.Sleep(time.Millisecond)
		}
		mu.Lock()
		got = append(got, ev.Generation)
		mu.Unlock()
	}, EventTrackFinished, EventTrackStarted)

	for i := uint64(1); i <= 50; i++ {
		typ := EventTrackFinished
		if i%2 == 0 {
			typ = EventTrackStarted
		}
		bus.Publish(Event{Type: typ, GuildID: testGuild, Generation: i})
	}
	bus.Wait()

	if len(got) != 50 {
		t.Fatalf("expected 50 deliveries, got %d", len(got))
	}
	for i, g := range got {
		if g != uint64(i+1) {
			t.Fatalf("delivery %d carried event %d", i, g)
		}
	}
}

func TestBusFinishesHandlersBeforeNextEvent(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	var calls []string
	record := func(s string) {
		mu.Lock()
		calls = append(calls, s)
		mu.Unlock()
	}
	bus.Subscribe(func(Event) {
		time.Sleep(5 * time.Millisecond)
		record("finished-slow")
	}, EventTrackFinished)
	bus.Subscribe(func(Event) { record("finished-fast") }, EventTrackFinished)
	bus.Subscribe(func(Event) { record("started") }, EventTrackStarted)

	bus.Publish(Event{Type: EventTrackFinished, GuildID: testGuild})
	bus.Publish(Event{Type: EventTrackStarted, GuildID: testGuild})
	bus.Wait()

	want := []string{"finished-slow", "finished-fast", "started"}
	if !equalStrings(calls, want) {
		t.Errorf("expected %v, got %v", want, calls)
	}
}

func TestBusGuildsAreIndependent(t *testing.T) {
	bus := NewBus()
	release := make(chan struct{})
	other := make(chan struct{}, 1)
	bus.Subscribe(func(ev Event) {
		if ev.GuildID == testGuild {
			<-release
			return
		}
		other <- struct{}{}
	}, EventTrackStarted)

	bus.Publish(Event{Type: EventTrackStarted, GuildID: testGuild})
	bus.Publish(Event{Type: EventTrackStarted, GuildID: testGuild + 1})

	select {
	case <-other:
	case <-time.After(waitTimeout):
		t.Error("a blocked guild must not hold up another guild")
	}
	close(release)
	bus.Wait()
}
