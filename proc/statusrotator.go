package proc

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/leeineian/maronn/sys"
)

func GetRotationInterval() time.Duration {
	return time.Duration(15+rand.Intn(46)) * time.Second
}

// StatusRotator cycles idle statuses while no guild is playing.
type StatusRotator struct {
	presence Presence
	statuses []string
	busy     func() int

	mu   sync.Mutex
	last string
}

// NewStatusRotator returns a rotator over statuses. busy reports how many
// guilds are currently playing; it may be nil.
func NewStatusRotator(presence Presence, statuses []string, busy func() int) *StatusRotator {
	if len(statuses) == 0 {
		statuses = sys.DefaultIdleStatuses
	}
	return &StatusRotator{
		presence: presence,
		statuses: append([]string(nil), statuses...),
		busy:     busy,
	}
}

// Pick returns a random status, avoiding the previous pick when possible.
func (r *StatusRotator) Pick() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var choices []string
	for _, s := range r.statuses {
		if s != r.last {
			choices = append(choices, s)
		}
	}
	selected := r.statuses[0]
	if len(choices) > 0 {
		selected = choices[rand.Intn(len(choices))]
	}
	r.last = selected
	return selected
}

// Rotate sets a new idle status unless a guild is playing.
func (r *StatusRotator) Rotate(ctx context.Context, next time.Duration) bool {
	if r.busy != nil {
		if n := r.busy(); n > 0 {
			sys.LogDebug(sys.MsgStatusSkippedPlaying, n)
			return false
		}
	}
	status := r.Pick()
	if err := r.presence.SetIdle(ctx, status); err != nil {
		sys.LogStatusRotator(sys.MsgStatusUpdateFail, err)
		return false
	}
	if next > 0 {
		sys.LogStatusRotator(sys.MsgStatusRotated, status, next)
	} else {
		sys.LogStatusRotator(sys.MsgStatusRotatedNoInterval, status)
	}
	return true
}

// Run rotates until ctx is done.
func (r *StatusRotator) Run(ctx context.Context) {
	for {
		next := GetRotationInterval()
		r.Rotate(ctx, next)
		select {
		case <-time.After(next):
		case <-ctx.Done():
			return
		}
	}
}
