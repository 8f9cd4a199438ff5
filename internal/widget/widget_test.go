package widget

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/debtgauge/internal/debounce"
	"github.com/theirongolddev/debtgauge/internal/gauge"
	"github.com/theirongolddev/debtgauge/internal/trigger"
)

type stepClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*stepTimer
}

type stepTimer struct {
	c    *stepClock
	at   time.Duration
	f    func()
	done bool
}

func (c *stepClock) AfterFunc(d time.Duration, f func()) debounce.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &stepTimer{c: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *stepTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	was := !t.done
	t.done = true
	return was
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	for _, t := range c.timers {
		if !t.done && t.at <= c.now {
			t.done = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

type harness struct {
	clock  *stepClock
	resize *trigger.Manual
	widget *Widget
	width  float64
	outs   []gauge.Output
}

func newHarness(t *testing.T, attrs gauge.Attributes) *harness {
	t.Helper()
	h := &harness{clock: &stepClock{}, resize: &trigger.Manual{}, width: 500}
	h.widget = New(Options{
		Attributes: attrs,
		Width:      func() float64 { return h.width },
		Render:     func(o gauge.Output) { h.outs = append(h.outs, o) },
		Sources:    []TriggerSource{h.resize},
		Debouncer:  debounce.New(debounce.WithClock(h.clock)),
		Delay:      300 * time.Millisecond,
	})
	t.Cleanup(h.widget.Close)
	return h
}

func TestWidget_InitialRenderIsDebounced(t *testing.T) {
	h := newHarness(t, gauge.Attributes{Balance: 50, Credit: 100, Padding: 20})
	if len(h.outs) != 0 {
		t.Fatal("rendered synchronously at construction")
	}
	h.clock.Advance(300 * time.Millisecond)
	if len(h.outs) != 1 {
		t.Fatalf("renders = %d, want 1", len(h.outs))
	}
	if h.outs[0].ActualLeft != 230 || h.outs[0].Fill != gauge.FillAmber {
		t.Errorf("layout = %+v", h.outs[0])
	}
}

func TestWidget_ResizeBurstCoalesces(t *testing.T) {
	h := newHarness(t, gauge.Attributes{Balance: 50, Credit: 100, Padding: 20})
	h.clock.Advance(300 * time.Millisecond)

	for i := 0; i < 5; i++ {
		h.width = float64(600 + i*100)
		h.resize.Fire()
		h.clock.Advance(10 * time.Millisecond)
	}
	h.clock.Advance(300 * time.Millisecond)

	if len(h.outs) != 2 {
		t.Fatalf("renders = %d, want 2", len(h.outs))
	}
	if got := h.widget.Layout(); got.Fifth != (1000-40)/5.0 {
		t.Errorf("Fifth = %v, want layout for the final width", got.Fifth)
	}
}

func TestWidget_AttributeChangedSkipsEqualValues(t *testing.T) {
	h := newHarness(t, gauge.DefaultAttributes())
	h.clock.Advance(300 * time.Millisecond)

	if err := h.widget.AttributeChanged("credit", "100", "100"); err != nil {
		t.Fatal(err)
	}
	h.clock.Advance(time.Second)
	if len(h.outs) != 1 {
		t.Fatalf("renders = %d after unchanged attribute, want 1", len(h.outs))
	}

	if err := h.widget.AttributeChanged("credit", "", "100"); err != nil {
		t.Fatal(err)
	}
	if err := h.widget.AttributeChanged("balance", "", "120"); err != nil {
		t.Fatal(err)
	}
	h.clock.Advance(300 * time.Millisecond)
	if len(h.outs) != 2 {
		t.Fatalf("renders = %d, want 2", len(h.outs))
	}
	if h.outs[1].Case != gauge.CaseOverLimit {
		t.Errorf("Case = %v, want over_limit", h.outs[1].Case)
	}
}

func TestWidget_AttributeChangedInvalid(t *testing.T) {
	h := newHarness(t, gauge.DefaultAttributes())
	err := h.widget.AttributeChanged("balance", "0", "abc")
	if !errors.Is(err, gauge.ErrInvalidAttribute) {
		t.Fatalf("err = %v, want ErrInvalidAttribute", err)
	}
	if h.widget.Attributes() != gauge.DefaultAttributes() {
		t.Errorf("attributes changed on error: %+v", h.widget.Attributes())
	}
}

func TestWidget_SetAttributes(t *testing.T) {
	h := newHarness(t, gauge.DefaultAttributes())
	h.clock.Advance(300 * time.Millisecond)

	h.widget.SetAttributes(gauge.DefaultAttributes())
	h.clock.Advance(time.Second)
	if len(h.outs) != 1 {
		t.Fatalf("renders = %d for identical attributes, want 1", len(h.outs))
	}

	h.widget.SetAttributes(gauge.Attributes{Balance: -30, Credit: 100, Padding: 20})
	h.clock.Advance(300 * time.Millisecond)
	if len(h.outs) != 2 || h.outs[1].Fill != gauge.FillGreen {
		t.Fatalf("outs = %+v", h.outs)
	}
}

func TestWidget_CloseUnsubscribesAndCancels(t *testing.T) {
	h := newHarness(t, gauge.DefaultAttributes())
	h.resize.Fire()
	h.widget.Close()

	if h.resize.Subscribers() != 0 {
		t.Errorf("Subscribers = %d after Close, want 0", h.resize.Subscribers())
	}
	h.resize.Fire()
	h.clock.Advance(time.Second)
	if len(h.outs) != 0 {
		t.Errorf("rendered %d times after Close", len(h.outs))
	}
	if err := h.widget.AttributeChanged("balance", "0", "5"); err != nil {
		t.Fatal(err)
	}
	h.clock.Advance(time.Second)
	if len(h.outs) != 0 {
		t.Errorf("rendered after Close via attribute change")
	}
}

func TestWidget_RenderImmediate(t *testing.T) {
	h := newHarness(t, gauge.Attributes{Balance: 0, Credit: 0, Padding: 20})
	out := h.widget.Render()
	if out.Case != gauge.CaseEmpty || out.ActualWidth != 0 {
		t.Errorf("layout = %+v", out)
	}
	if h.widget.Renders() != 1 {
		t.Errorf("Renders = %d, want 1", h.widget.Renders())
	}
}
