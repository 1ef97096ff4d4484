package proc

import (
	"sync"
	"time"
)

// Timeline is the playback clock of one session. It reports the end of the
// current track once the track's duration has elapsed while unpaused.
// Tracks without a known duration play until stopped.
type Timeline struct {
	mu      sync.Mutex
	timer   *time.Timer
	length  time.Duration
	elapsed time.Duration
	resumed time.Time
	active  bool
	paused  bool
	token   uint64
	onEnd   func()
	filters string
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

// Start replaces whatever is playing. onEnd runs on its own goroutine.
func (tl *Timeline) Start(length time.Duration, onEnd func()) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.stopTimerLocked()
	tl.token++
	tl.length = length
	tl.elapsed = 0
	tl.resumed = time.Now()
	tl.active = true
	tl.paused = false
	tl.onEnd = onEnd
	tl.armLocked()
}

// Stop halts playback; a pending end callback will not fire. Position keeps
// reporting how far playback got.
func (tl *Timeline) Stop() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.active && !tl.paused {
		tl.elapsed += time.Since(tl.resumed)
	}
	tl.stopTimerLocked()
	tl.token++
	tl.active = false
	tl.paused = false
	tl.onEnd = nil
}

// TogglePause flips the paused state. ok is false when nothing is playing.
func (tl *Timeline) TogglePause() (paused bool, ok bool) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if !tl.active {
		return false, false
	}
	if tl.paused {
		tl.paused = false
		tl.resumed = time.Now()
		tl.armLocked()
	} else {
		tl.elapsed += time.Since(tl.resumed)
		tl.paused = true
		tl.stopTimerLocked()
		// A timer already past Stop must not fire after a later resume.
		tl.token++
	}
	return tl.paused, true
}

// Position is the elapsed play time of the current or last track.
func (tl *Timeline) Position() time.Duration {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if !tl.active || tl.paused {
		return tl.elapsed
	}
	return tl.elapsed + time.Since(tl.resumed)
}

func (tl *Timeline) Paused() bool {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.paused
}

// SetFilterChain stores the ffmpeg chain applied to upcoming audio.
func (tl *Timeline) SetFilterChain(chain string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.filters = chain
}

func (tl *Timeline) FilterChain() string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.filters
}

func (tl *Timeline) armLocked() {
	if tl.length <= 0 {
		return
	}
	remaining := tl.length - tl.elapsed
	if remaining < 0 {
		remaining = 0
	}
	token := tl.token
	tl.timer = time.AfterFunc(remaining, func() { tl.fire(token) })
}

func (tl *Timeline) stopTimerLocked() {
	if tl.timer != nil {
		tl.timer.Stop()
		tl.timer = nil
	}
}

func (tl *Timeline) fire(token uint64) {
	tl.mu.Lock()
	if token != tl.token || !tl.active || tl.paused {
		tl.mu.Unlock()
		return
	}
	tl.active = false
	tl.elapsed = tl.length
	tl.timer = nil
	cb := tl.onEnd
	tl.onEnd = nil
	tl.mu.Unlock()

	if cb != nil {
		cb()
	}
}
