package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/debtgauge/internal/cli"
	"github.com/theirongolddev/debtgauge/internal/gauge"
	"github.com/theirongolddev/debtgauge/internal/tui/components"
	"github.com/theirongolddev/debtgauge/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderHistoryTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	sel, ok := a.selected()
	if !ok {
		return muted.Render("\n  No account selected.")
	}

	inner := components.CardInnerWidth(cw)
	out := gauge.ComputeLayout(sel.Attributes(a.padding).Input(float64(inner)))

	var b strings.Builder
	b.WriteString(muted.Render("Utilization  "))
	b.WriteString(components.UtilizationBar(sel.Utilization(), out.Fill, inner-lipgloss.Width("Utilization  ")))
	b.WriteString("\n\n")

	if len(a.history) == 0 {
		b.WriteString(muted.Render("No balance changes recorded."))
		return components.ContentCard(sel.Name+" history", b.String(), cw, true)
	}

	// Oldest first for the sparkline; history arrives newest first.
	series := make([]float64, len(a.history))
	for i, c := range a.history {
		series[len(a.history)-1-i] = c.NewBalance
	}
	spark := lipgloss.NewStyle().Foreground(components.ColorForFill(out.Fill)).Render(cli.RenderSparkline(series))
	b.WriteString(muted.Render("Trend  ") + spark)
	b.WriteString("\n\n")

	for _, c := range a.history {
		fmt.Fprintf(&b, "%s  %12s  %12s  %s\n",
			muted.Render(c.At.Local().Format("2006-01-02 15:04")),
			cli.FormatMoney(c.NewBalance, a.currency),
			cli.FormatDelta(c.NewBalance, c.OldBalance, a.currency),
			muted.Render("limit "+cli.FormatMoney(c.Credit, a.currency)))
	}

	return components.ContentCard(sel.Name+" history", strings.TrimRight(b.String(), "\n"), cw, true)
}
