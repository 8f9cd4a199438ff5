package tui

import (
	"strings"

	"github.com/theirongolddev/debtgauge/internal/cli"
	"github.com/theirongolddev/debtgauge/internal/tui/components"
	"github.com/theirongolddev/debtgauge/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// gaugeCardHeight is border + title + five gauge rows + description.
const gaugeCardHeight = 9

func (a App) renderGaugesTab(cw, h int) string {
	t := theme.Active

	if len(a.layouts) == 0 {
		hint := lipgloss.NewStyle().Foreground(t.TextMuted).Render(
			"\n  No accounts yet.\n  Add one with: debtgauge account add NAME --balance 50 --credit 100\n")
		return lipgloss.NewStyle().Width(cw).Render(hint)
	}

	summary := components.MetricCardRow(a.summaryMetrics(), cw)

	avail := h - lipgloss.Height(summary)
	perPage := avail / gaugeCardHeight
	if perPage < 1 {
		perPage = 1
	}
	start := 0
	if a.cursor >= perPage {
		start = a.cursor - perPage + 1
	}
	end := start + perPage
	if end > len(a.layouts) {
		end = len(a.layouts)
	}

	parts := []string{summary}
	for i := start; i < end; i++ {
		parts = append(parts, a.gaugeCard(a.layouts[i], cw, i == a.cursor))
	}
	return strings.Join(parts, "\n")
}

func (a App) gaugeCard(lo laidOut, cw int, selected bool) string {
	t := theme.Active
	acct := lo.Account

	labels := cli.LabelsFor(acct.Balance, acct.Credit, a.currency)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Render(
		cli.DescribeBalance(acct.Balance, a.currency) + " · " + cli.DescribeCredit(acct.Credit, a.currency))

	body := components.Gauge(lo.Out, a.layoutWidth, labels) + "\n" + desc
	return components.ContentCard(acct.Name, body, cw, selected)
}

func (a App) summaryMetrics() []components.Metric {
	var owed, credit float64
	for _, lo := range a.layouts {
		if lo.Account.Balance > 0 {
			owed += lo.Account.Balance
		}
		credit += lo.Account.Credit
	}

	util := "n/a"
	if credit > 0 {
		util = cli.FormatPercent(owed / credit)
	}

	return []components.Metric{
		{Label: "Accounts", Value: cli.FormatNumber(int64(len(a.layouts)))},
		{Label: "Owed", Value: cli.FormatMoney(owed, a.currency)},
		{Label: "Credit", Value: cli.FormatMoney(credit, a.currency)},
		{Label: "Utilization", Value: util},
	}
}
