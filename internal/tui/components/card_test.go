package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/debtgauge/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	tests := []struct {
		total, n int
		want     []int
	}{
		{10, 3, []int{4, 3, 3}},
		{9, 3, []int{3, 3, 3}},
		{5, 0, nil},
	}
	for _, tt := range tests {
		got := LayoutRow(tt.total, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("LayoutRow(%d, %d) = %v, want %v", tt.total, tt.n, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("LayoutRow(%d, %d) = %v, want %v", tt.total, tt.n, got, tt.want)
				break
			}
		}
	}
}

func TestContentCardWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for _, selected := range []bool{false, true} {
		card := ContentCard("visa", "body", 40, selected)
		for i, line := range strings.Split(card, "\n") {
			if w := lipgloss.Width(line); w != 40 {
				t.Errorf("selected=%v line %d width = %d, want 40", selected, i, w)
			}
		}
	}
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22, false)
	tall := ContentCard("Tall", "1\n2\n3\n4\n5", 22, false)

	shortLines := len(strings.Split(short, "\n"))
	tallLines := len(strings.Split(tall, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tall, short})
	if got := len(strings.Split(joined, "\n")); got != tallLines {
		t.Errorf("joined height = %d, want %d", got, tallLines)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Owed", Value: "£10.00"},
		{Label: "Limit", Value: "£100.00", Note: "2 accounts"},
	}, 61)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 61 {
			t.Errorf("line %d width = %d, want 61", i, w)
		}
	}
}
