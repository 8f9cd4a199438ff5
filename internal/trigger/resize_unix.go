//go:build !windows

package trigger

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Resize notifies subscribers when the controlling terminal changes size.
// The SIGWINCH handler is installed with the first subscriber and removed
// with the last.
type Resize struct {
	fanout

	// mu orders subscriber changes with handler install and removal.
	mu   sync.Mutex
	sig  chan os.Signal
	done chan struct{}
}

// NewResize returns a terminal resize source.
func NewResize() *Resize {
	return &Resize{}
}

// Subscribe registers fn and returns its unsubscribe function.
func (r *Resize) Subscribe(fn func()) func() {
	r.mu.Lock()
	id, first := r.add(fn)
	if first {
		r.startLocked()
	}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.remove(id) {
				r.stopLocked()
			}
		})
	}
}

func (r *Resize) startLocked() {
	if r.sig != nil {
		return
	}
	r.sig = make(chan os.Signal, 1)
	r.done = make(chan struct{})
	signal.Notify(r.sig, syscall.SIGWINCH)

	go func(sig <-chan os.Signal, done <-chan struct{}) {
		for {
			select {
			case <-done:
				return
			case <-sig:
				r.notify()
			}
		}
	}(r.sig, r.done)
}

func (r *Resize) stopLocked() {
	if r.sig == nil {
		return
	}
	signal.Stop(r.sig)
	close(r.done)
	r.sig = nil
	r.done = nil
}
