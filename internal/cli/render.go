package cli

import (
	"strings"

	"github.com/theirongolddev/debtgauge/internal/gauge"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Align places a cell within its column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one table column. Money and percentages read best
// right-aligned so their decimal points line up.
type Column struct {
	Header string
	Align  Align
}

// Table is a bordered text table. Fills, when set, holds one gauge fill per
// row; the row's first cell is tinted with it so over-limit and in-credit
// accounts stand out in a listing.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]string
	Fills   []gauge.FillColor
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders t with rounded box-drawing borders.
func RenderTable(t Table) string {
	numCols := len(t.Columns)
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, c := range t.Columns {
		widths[i] = lipgloss.Width(c.Header)
	}
	for _, row := range t.Rows {
		for i := 0; i < numCols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	palette := DefaultPalette()
	rule := func(left, mid, right string) string {
		parts := make([]string, numCols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	line := func(cells []string) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render("│"))
		for _, c := range cells {
			b.WriteString(c)
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	header := make([]string, numCols)
	for i, c := range t.Columns {
		header[i] = headerStyle.Render(pad(c.Header, widths[i], c.Align))
	}
	b.WriteString(line(header))
	b.WriteString(rule("├", "┼", "┤"))

	for r, row := range t.Rows {
		cells := make([]string, numCols)
		for i, c := range t.Columns {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			style := valueStyle
			if i == 0 && r < len(t.Fills) && t.Fills[r] != gauge.FillNone {
				style = style.Foreground(palette.Fill(t.Fills[r]))
			}
			cells[i] = style.Render(pad(text, widths[i], c.Align))
		}
		b.WriteString(line(cells))
	}

	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

func pad(text string, width int, a Align) string {
	gap := strings.Repeat(" ", max(0, width-lipgloss.Width(text)))
	if a == AlignRight {
		return " " + gap + text + " "
	}
	return " " + text + gap + " "
}

// RenderSparkline generates a unicode block sparkline from a series of values.
// Values are scaled between the series minimum and maximum, so negative
// balances render too.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}
