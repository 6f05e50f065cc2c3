// Package countdown derives the remaining time of a fixed-duration attempt
// from a Clock and reports expiry exactly once.
//
// A Timer does not run anything on its own. The owner polls it at a fixed
// cadence (one second is enough) and reacts when Poll reports expiry. A Timer
// is not safe for concurrent use; the owner serializes access.
package countdown

import (
	"time"

	"github.com/abhisek/examiner/internal/clock"
)

// DefaultCadence is the polling interval used by session watchers.
const DefaultCadence = time.Second

// Timer is a one-shot countdown.
type Timer struct {
	clock    clock.Clock
	duration time.Duration

	startedAt time.Time
	stoppedAt time.Time
	started   bool
	stopped   bool
	fired     bool
}

// New creates an unarmed timer for duration d.
func New(d time.Duration, clk clock.Clock) *Timer {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Timer{clock: clk, duration: d}
}

// Start arms the timer and returns the start time. Calling Start on an armed
// or stopped timer returns the original start time and changes nothing.
func (t *Timer) Start() time.Time {
	if !t.started && !t.stopped {
		t.startedAt = t.clock.Now()
		t.started = true
	}
	return t.startedAt
}

// Duration returns the configured duration.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Deadline returns the instant the timer expires. Zero before Start.
func (t *Timer) Deadline() time.Time {
	if !t.started {
		return time.Time{}
	}
	return t.startedAt.Add(t.duration)
}

// Remaining returns duration minus elapsed time, floored at zero. Before
// Start it is the full duration; after Stop it stays frozen at the value
// observed when the timer was stopped.
func (t *Timer) Remaining() time.Duration {
	if !t.started {
		return t.duration
	}
	now := t.clock.Now()
	if t.stopped {
		now = t.stoppedAt
	}
	rem := t.duration - now.Sub(t.startedAt)
	if rem < 0 {
		return 0
	}
	return rem
}

// RemainingSeconds returns Remaining rounded up to whole seconds, so it is 0
// only once the deadline has actually passed.
func (t *Timer) RemainingSeconds() int {
	rem := t.Remaining()
	secs := rem / time.Second
	if rem%time.Second != 0 {
		secs++
	}
	return int(secs)
}

// Poll reports true exactly once: the first call that observes Remaining at
// zero while the timer is armed. It never reports after Stop.
func (t *Timer) Poll() bool {
	if !t.started || t.stopped || t.fired {
		return false
	}
	if t.Remaining() > 0 {
		return false
	}
	t.fired = true
	return true
}

// Stop disarms the timer. Later Polls return false. Stop is idempotent and
// may be called before Start, in which case the timer can never be armed.
func (t *Timer) Stop() {
	if t.stopped {
		return
	}
	t.stopped = true
	if t.started {
		t.stoppedAt = t.clock.Now()
	}
}

// Fired reports whether Poll has already reported expiry.
func (t *Timer) Fired() bool {
	return t.fired
}

// Stopped reports whether Stop has been called.
func (t *Timer) Stopped() bool {
	return t.stopped
}
