// Package widget ties the gauge layout to host events.
//
// A Widget owns its attributes and a debouncer. Resize notifications and
// attribute changes schedule a render through the debouncer, so a burst of
// events produces one layout per quiet period. Event sources are injected and
// subscribed at construction; Close unsubscribes them so nothing renders after
// teardown.
package widget

import (
	"log/slog"
	"sync"
	"time"

	"github.com/theirongolddev/debtgauge/internal/debounce"
	"github.com/theirongolddev/debtgauge/internal/gauge"
)

// TriggerSource is anything that can notify the widget that it needs to
// re-render.
type TriggerSource interface {
	Subscribe(fn func()) (unsubscribe func())
}

// Options configures a Widget.
type Options struct {
	Attributes gauge.Attributes
	// Width reports the current track width. Required.
	Width func() float64
	// Render receives each computed layout.
	Render func(gauge.Output)
	// Sources are subscribed at construction (typically a terminal resize
	// source).
	Sources []TriggerSource
	// Debouncer is shared when set; otherwise the widget creates and owns one.
	Debouncer *debounce.Debouncer
	Delay     time.Duration
	Logger    *slog.Logger
}

// Widget is a live gauge.
type Widget struct {
	width  func() float64
	render func(gauge.Output)
	logger *slog.Logger

	deb     *debounce.Debouncer
	ownsDeb bool
	delay   time.Duration

	mu      sync.Mutex
	attrs   gauge.Attributes
	last    gauge.Output
	renders int
	unsubs  []func()
	closed  bool
}

// New builds a widget, subscribes to its sources and schedules the first
// render.
func New(opts Options) *Widget {
	w := &Widget{
		width:  opts.Width,
		render: opts.Render,
		logger: opts.Logger,
		deb:    opts.Debouncer,
		delay:  opts.Delay,
		attrs:  opts.Attributes,
	}
	if w.width == nil {
		w.width = func() float64 { return 0 }
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.deb == nil {
		w.deb = debounce.New()
		w.ownsDeb = true
	}
	if w.delay <= 0 {
		w.delay = debounce.DefaultDelay
	}

	for _, src := range opts.Sources {
		if src == nil {
			continue
		}
		w.unsubs = append(w.unsubs, src.Subscribe(w.schedule))
	}
	w.schedule()
	return w
}

// AttributeChanged applies a single attribute change. A render is scheduled
// only when the value actually changed.
func (w *Widget) AttributeChanged(name, oldValue, newValue string) error {
	if oldValue == newValue {
		return nil
	}
	w.mu.Lock()
	next := w.attrs
	if err := next.Set(name, newValue); err != nil {
		w.mu.Unlock()
		return err
	}
	w.attrs = next
	w.mu.Unlock()

	w.logger.Debug("gauge attribute changed", "name", name, "old", oldValue, "new", newValue)
	w.schedule()
	return nil
}

// SetAttributes replaces all attributes, scheduling a render when they
// differ from the current ones.
func (w *Widget) SetAttributes(a gauge.Attributes) {
	w.mu.Lock()
	if a == w.attrs {
		w.mu.Unlock()
		return
	}
	w.attrs = a
	w.mu.Unlock()
	w.schedule()
}

// Attributes returns the current attributes.
func (w *Widget) Attributes() gauge.Attributes {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.attrs
}

// Render computes the layout immediately and hands it to the render callback.
// It is a no-op returning the last layout once the widget is closed.
func (w *Widget) Render() gauge.Output {
	w.mu.Lock()
	if w.closed {
		out := w.last
		w.mu.Unlock()
		return out
	}
	out := gauge.ComputeLayout(w.attrs.Input(w.width()))
	w.last = out
	w.renders++
	w.mu.Unlock()

	if w.render != nil {
		w.render(out)
	}
	return out
}

// Layout returns the most recently rendered layout.
func (w *Widget) Layout() gauge.Output {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Renders returns how many layouts have been computed.
func (w *Widget) Renders() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renders
}

// Close unsubscribes every source and cancels any pending render.
func (w *Widget) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	unsubs := w.unsubs
	w.unsubs = nil
	w.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	if w.ownsDeb {
		w.deb.Stop()
	}
}

func (w *Widget) schedule() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	w.deb.Schedule(w, func() { w.Render() }, w.delay)
}
