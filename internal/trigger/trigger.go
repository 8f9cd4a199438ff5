// Package trigger provides host event sources that request a gauge redraw:
// terminal resizes, file changes, and manual triggers.
package trigger

import "sync"

// fanout delivers a notification to every current subscriber.
type fanout struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

// add registers fn and reports whether it is the first subscriber.
func (f *fanout) add(fn func()) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs == nil {
		f.subs = make(map[int]func())
	}
	f.nextID++
	f.subs[f.nextID] = fn
	return f.nextID, len(f.subs) == 1
}

// remove drops a subscriber and reports whether none remain. Removing an
// unknown id is a no-op that reports false.
func (f *fanout) remove(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[id]; !ok {
		return false
	}
	delete(f.subs, id)
	return len(f.subs) == 0
}

func (f *fanout) notify() {
	f.mu.Lock()
	fns := make([]func(), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (f *fanout) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Manual is a source fired explicitly by the program.
type Manual struct {
	fanout
}

// Subscribe registers fn and returns its unsubscribe function.
func (m *Manual) Subscribe(fn func()) func() {
	id, _ := m.add(fn)
	var once sync.Once
	return func() { once.Do(func() { m.remove(id) }) }
}

// Fire notifies every subscriber.
func (m *Manual) Fire() {
	m.notify()
}

// Subscribers returns the number of live subscriptions.
func (m *Manual) Subscribers() int {
	return m.count()
}
