package components

import (
	"testing"

	"github.com/theirongolddev/debtgauge/internal/gauge"

	"github.com/charmbracelet/lipgloss"
)

func TestTabAtXMatchesRenderedBar(t *testing.T) {
	for active := range Tabs {
		bar := RenderTabBar(active, 80)
		if w := lipgloss.Width(bar); w != 80 {
			t.Fatalf("active=%d bar width = %d, want 80", active, w)
		}

		pos := 0
		for i, tab := range Tabs {
			w := TabVisualWidth(tab, i == active)
			if got := TabAtX(pos+w/2, active); got != i {
				t.Errorf("active=%d x=%d -> tab %d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
		if got := TabAtX(pos+20, active); got != -1 {
			t.Errorf("x past the last tab -> %d, want -1", got)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('h') != 1 || TabIdxByKey('g') != 0 || TabIdxByKey('z') != -1 {
		t.Error("unexpected tab key mapping")
	}
}

func TestUtilizationBarWidth(t *testing.T) {
	bar := UtilizationBar(0.5, gauge.FillAmber, 30)
	if w := lipgloss.Width(bar); w != 30 {
		t.Errorf("width = %d, want 30: %q", w, bar)
	}
}
