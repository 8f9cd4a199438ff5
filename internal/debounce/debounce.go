// Package debounce coalesces bursts of triggers into a single callback.
//
// Triggers are grouped by key. Scheduling a key that already has a pending
// timer replaces that timer, so only the most recent callback for a key ever
// runs, and only once no new trigger has arrived for the full delay.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used when no delay is given.
const DefaultDelay = 300 * time.Millisecond

// Timer is a cancellable pending call.
type Timer interface {
	Stop() bool
}

// Clock schedules functions after a delay.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(d *Debouncer) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithDispatch routes expired callbacks through fn, typically onto the
// host's event loop. By default callbacks run on the timer goroutine.
func WithDispatch(fn func(func())) Option {
	return func(d *Debouncer) {
		if fn != nil {
			d.dispatch = fn
		}
	}
}

type pending struct {
	timer Timer
	gen   uint64
}

// Debouncer holds one pending timer per key.
type Debouncer struct {
	clock    Clock
	dispatch func(func())

	mu      sync.Mutex
	gens    Tracker
	timers  map[any]pending
	stopped bool
}

// New returns a ready Debouncer.
func New(opts ...Option) *Debouncer {
	d := &Debouncer{
		clock:    realClock{},
		dispatch: func(f func()) { f() },
		timers:   make(map[any]pending),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Schedule arms fn to run once delay has passed without another Schedule for
// the same key. A pending timer for key is cancelled and replaced. key must
// be comparable. A nil key is never coalesced with any other call. A
// non-positive delay means DefaultDelay.
func (d *Debouncer) Schedule(key any, fn func(), delay time.Duration) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if key == nil {
		key = &anonKey{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if p, ok := d.timers[key]; ok {
		p.timer.Stop()
	}
	gen := d.gens.Bump(key)
	t := d.clock.AfterFunc(delay, func() { d.expire(key, gen, fn) })
	d.timers[key] = pending{timer: t, gen: gen}
}

// Call schedules fn on behalf of owner with DefaultDelay. Repeated calls for
// the same owner coalesce; different owners never cancel each other, even
// when fn is the same method on each.
func (d *Debouncer) Call(owner any, fn func()) {
	d.Schedule(owner, fn, DefaultDelay)
}

// Pending reports how many keys have an armed timer.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels every pending timer. Schedule is a no-op afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, p := range d.timers {
		p.timer.Stop()
		delete(d.timers, key)
	}
}

func (d *Debouncer) expire(key any, gen uint64, fn func()) {
	d.mu.Lock()
	p, ok := d.timers[key]
	if !ok || p.gen != gen || d.stopped {
		d.mu.Unlock()
		return
	}
	delete(d.timers, key)
	d.mu.Unlock()

	d.dispatch(func() {
		// The dispatch hop may be queued behind a newer Schedule or a Stop.
		if !d.live(key, gen) {
			return
		}
		if _, anon := key.(*anonKey); anon {
			d.gens.forget(key)
		}
		fn()
	})
}

func (d *Debouncer) live(key any, gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.stopped && d.gens.Latest(key, gen)
}

// anonKey stands in for a nil key. It is not zero-sized, so every
// allocation is a distinct map key.
type anonKey struct{ _ byte }
