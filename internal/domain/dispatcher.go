package domain

import (
	"context"
	"sync"
	"time"

	"luxdeck/internal/adapter"
	"luxdeck/internal/model"
)

// DefaultQuiescence is how long the dispatcher waits for a burst of edits
// to settle before pushing. A tuning parameter, not a correctness one.
const DefaultQuiescence = 70 * time.Millisecond

// CancelFunc cancels a scheduled callback. It reports whether the callback
// was cancelled before running.
type CancelFunc func() bool

// ScheduleFunc runs fn once after d. The default is time.AfterFunc; tests
// substitute a manual trigger.
type ScheduleFunc func(d time.Duration, fn func()) CancelFunc

func afterFunc(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)

	return t.Stop
}

// Dispatcher coalesces rapid channel mutations into a bounded-rate stream
// of full-snapshot pushes to the live session.
//
// Every offer overwrites a single latest-intent cell; at most one push is
// pending at a time, and when it fires it reads the cell, not a value
// captured at schedule time. Intermediate values inside a quiescence window
// are never transmitted.
//
// At most one push is on the wire at a time. An offer arriving while a push
// is in flight only updates the cell and marks it pending; a fresh timer is
// armed once the in-flight push returns, so pushes are strictly ordered.
type Dispatcher struct {
	session    adapter.LiveSession
	quiescence time.Duration
	schedule   ScheduleFunc

	onConflict func()
	onError    func(error)

	mu        sync.Mutex
	latest    model.Universes
	live      bool
	scheduled bool
	inFlight  bool
	pending   bool
	closed    bool
	cancel    CancelFunc
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithQuiescence overrides the debounce delay.
func WithQuiescence(d time.Duration) DispatcherOption {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.quiescence = d
		}
	}
}

// WithScheduler overrides the timer implementation.
func WithScheduler(s ScheduleFunc) DispatcherOption {
	return func(dp *Dispatcher) { dp.schedule = s }
}

// NewDispatcher wires a dispatcher to the live session. onConflict fires
// when a push is rejected because the session is gone or taken; onError
// reports any other push failure. Both may be nil.
func NewDispatcher(session adapter.LiveSession, onConflict func(), onError func(error), opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		session:    session,
		quiescence: DefaultQuiescence,
		schedule:   afterFunc,
		onConflict: onConflict,
		onError:    onError,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SetLive switches streaming on or off. Turning live off leaves a pending
// timer in place; when it fires it sees live=false and does nothing.
func (d *Dispatcher) SetLive(live bool) {
	d.mu.Lock()
	d.live = live
	d.mu.Unlock()
}

// Offer records the newest draft snapshot as the operator's latest intent.
// If live and no push is pending, one is scheduled after the quiescence
// delay.
func (d *Dispatcher) Offer(snapshot model.Universes) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.latest = snapshot

	if d.closed || !d.live || d.scheduled {
		return
	}

	if d.inFlight {
		d.pending = true

		return
	}

	d.scheduled = true
	d.cancel = d.schedule(d.quiescence, d.fire)
}

// Close cancels any pending push. No push fires after Close returns.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	d.scheduled = false
	d.pending = false

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Dispatcher) fire() {
	d.mu.Lock()
	d.scheduled = false
	d.cancel = nil

	if d.closed || !d.live {
		d.mu.Unlock()

		return
	}

	d.inFlight = true
	snapshot := d.latest
	d.mu.Unlock()

	err := d.session.PushLiveUpdate(context.Background(), snapshot)

	if err != nil && adapter.IsConflict(err) {
		// The session is lost. Stop streaming; do not retry.
		d.SetLive(false)

		d.mu.Lock()
		d.inFlight = false
		d.pending = false
		d.mu.Unlock()

		if d.onConflict != nil {
			d.onConflict()
		}

		return
	}

	d.mu.Lock()
	d.inFlight = false

	// Edits that landed while the push was on the wire arm a fresh timer
	// now; they never raced a second push.
	if d.pending && !d.closed && d.live {
		d.scheduled = true
		d.cancel = d.schedule(d.quiescence, d.fire)
	}

	d.pending = false
	d.mu.Unlock()

	if err == nil {
		return
	}

	// Transient push failure: the draft keeps accepting edits and the next
	// scheduled push carries the cumulative state forward.
	if d.onError != nil {
		d.onError(err)
	}
}
