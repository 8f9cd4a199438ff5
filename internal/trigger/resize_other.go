//go:build windows

package trigger

import "sync"

// Resize is inert on platforms without SIGWINCH; the watch loop re-reads the
// terminal size on every other trigger instead.
type Resize struct {
	fanout
}

// NewResize returns a terminal resize source.
func NewResize() *Resize {
	return &Resize{}
}

// Subscribe registers fn and returns its unsubscribe function.
func (r *Resize) Subscribe(fn func()) func() {
	id, _ := r.add(fn)
	var once sync.Once
	return func() { once.Do(func() { r.remove(id) }) }
}
