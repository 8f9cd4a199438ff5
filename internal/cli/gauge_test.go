package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/debtgauge/internal/gauge"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Plain output so cell positions can be asserted directly.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func renderRows(t *testing.T, in gauge.Input) []string {
	t.Helper()
	out := gauge.ComputeLayout(in)
	s := RenderGauge(out, int(in.TrackWidth), LabelsFor(in.Balance, in.Credit, "GBP"), DefaultPalette())
	rows := strings.Split(s, "\n")
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5:\n%s", len(rows), s)
	}
	for i, r := range rows {
		if w := lipgloss.Width(r); w != int(in.TrackWidth) {
			t.Errorf("row %d width = %d, want %d: %q", i, w, int(in.TrackWidth), r)
		}
	}
	return rows
}

func TestRenderGauge_InRange(t *testing.T) {
	// width 60, padding 5: fifth=10, span=30; half used -> bar 10..25, tick at 25.
	rows := renderRows(t, gauge.Input{Balance: 50, Credit: 100, TrackWidth: 60, Padding: 5})
	ticks := []rune(rows[1])
	track := []rune(rows[2])

	if ticks[10] != '╷' || ticks[40] != '╷' {
		t.Errorf("zero/max ticks missing: %q", rows[1])
	}
	if ticks[25] != '▼' {
		t.Errorf("actual tick not at 25: %q", rows[1])
	}
	if got := strings.Count(rows[2], "█"); got != 15 {
		t.Errorf("bar cells = %d, want 15: %q", got, rows[2])
	}
	if track[10] != '█' || track[24] != '█' || track[25] != '░' {
		t.Errorf("bar misplaced: %q", rows[2])
	}
	if track[4] != ' ' || track[5] != '░' || track[54] != '░' || track[55] != ' ' {
		t.Errorf("track range misplaced: %q", rows[2])
	}
	if !strings.Contains(rows[0], "£100.00") || !strings.Contains(rows[4], "£50.00") {
		t.Errorf("labels missing: %q / %q", rows[0], rows[4])
	}
}

func TestRenderGauge_Empty(t *testing.T) {
	rows := renderRows(t, gauge.Input{TrackWidth: 40, Padding: 0})
	if strings.Contains(rows[2], "█") {
		t.Errorf("empty gauge drew a bar: %q", rows[2])
	}
	if r := []rune(rows[1]); r[8] != '▼' {
		t.Errorf("markers not collapsed on fifth: %q", rows[1])
	}
}

func TestRenderGauge_OverLimitAndTinyWidth(t *testing.T) {
	rows := renderRows(t, gauge.Input{Balance: 500, Credit: 100, TrackWidth: 60, Padding: 5})
	if r := []rune(rows[1]); r[40] != '▼' {
		t.Errorf("over-limit tick not at 4*fifth: %q", rows[1])
	}

	// Degenerate widths must not panic.
	out := gauge.ComputeLayout(gauge.Input{Balance: 1, Credit: 2, TrackWidth: 3, Padding: 20})
	_ = RenderGauge(out, 3, LabelsFor(1, 2, "GBP"), DefaultPalette())
	if RenderGauge(out, 0, GaugeLabels{}, DefaultPalette()) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{-10, 0, 10}); got != "▁▄█" {
		t.Errorf("RenderSparkline = %q, want ▁▄█", got)
	}
	if got := RenderSparkline([]float64{5, 5}); got != "▁▁" {
		t.Errorf("flat RenderSparkline = %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	s := RenderTable(Table{
		Title: "Accounts",
		Columns: []Column{
			{Header: "Name"},
			{Header: "Balance", Align: AlignRight},
		},
		Rows: [][]string{
			{"visa", "£5.00"},
			{"amex", "£1,250.00"},
		},
		Fills: []gauge.FillColor{gauge.FillAmber, gauge.FillRed},
	})
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	want := []string{
		"  Accounts",
		"╭──────┬───────────╮",
		"│ Name │   Balance │",
		"├──────┼───────────┤",
		"│ visa │     £5.00 │",
		"│ amex │ £1,250.00 │",
		"╰──────┴───────────╯",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %d, want %d:\n%s", len(lines), len(want), s)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	if RenderTable(Table{}) != "" {
		t.Error("table without columns rendered output")
	}
}
