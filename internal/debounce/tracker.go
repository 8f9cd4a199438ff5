package debounce

import "sync"

// Tracker counts generations per key for hosts that run their own timers,
// such as a Bubble Tea program using tea.Tick. Each trigger bumps the
// generation; when a timer expires the host asks whether its generation is
// still the latest and drops it otherwise.
//
// The zero value is ready to use.
type Tracker struct {
	mu   sync.Mutex
	gens map[any]uint64
}

// Bump starts a new generation for key and returns it.
func (t *Tracker) Bump(key any) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gens == nil {
		t.gens = make(map[any]uint64)
	}
	t.gens[key]++
	return t.gens[key]
}

// Latest reports whether gen is the most recent generation for key.
func (t *Tracker) Latest(key any, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gen != 0 && t.gens[key] == gen
}

func (t *Tracker) forget(key any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.gens, key)
}
