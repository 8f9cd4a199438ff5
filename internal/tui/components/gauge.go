package components

import (
	"fmt"

	"github.com/theirongolddev/debtgauge/internal/cli"
	"github.com/theirongolddev/debtgauge/internal/gauge"
	"github.com/theirongolddev/debtgauge/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Palette maps the active theme onto gauge colour roles.
func Palette() cli.Palette {
	t := theme.Active
	return cli.Palette{
		Track:  t.TextDim,
		Tick:   t.TextMuted,
		Label:  t.TextMuted,
		Strong: t.TextPrimary,
		Green:  t.Green,
		Amber:  t.Amber,
		Red:    t.Red,
	}
}

// Gauge renders a computed layout in the active theme.
func Gauge(out gauge.Output, width int, labels cli.GaugeLabels) string {
	return cli.RenderGauge(out, width, labels, Palette())
}

// ColorForFill returns the theme colour for a fill role.
func ColorForFill(f gauge.FillColor) lipgloss.Color {
	return Palette().Fill(f)
}

// UtilizationBar renders balance/credit as a compact bar with a percentage.
// Values outside 0..1 are clamped for the bar but printed as-is.
func UtilizationBar(ratio float64, fill gauge.FillColor, width int) string {
	t := theme.Active

	pct := ratio
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	barW := width - 6
	if barW < 4 {
		barW = 4
	}

	bar := progress.New(
		progress.WithSolidFill(string(ColorForFill(fill))),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(ColorForFill(fill)).Bold(true)
	return bar.ViewAs(pct) + " " + pctStyle.Render(fmt.Sprintf("%4.0f%%", ratio*100))
}
