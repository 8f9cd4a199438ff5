package cli

import (
	"math"
	"strings"

	"github.com/theirongolddev/debtgauge/internal/gauge"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colours a gauge is drawn with.
type Palette struct {
	Track  lipgloss.Color
	Tick   lipgloss.Color
	Label  lipgloss.Color
	Strong lipgloss.Color
	Green  lipgloss.Color
	Amber  lipgloss.Color
	Red    lipgloss.Color
}

// DefaultPalette uses the CLI theme colors.
func DefaultPalette() Palette {
	return Palette{
		Track:  ColorTextDim,
		Tick:   ColorTextMuted,
		Label:  ColorTextMuted,
		Strong: ColorText,
		Green:  ColorGreen,
		Amber:  ColorOrange,
		Red:    ColorRed,
	}
}

// Fill returns the palette colour for a fill role.
func (p Palette) Fill(c gauge.FillColor) lipgloss.Color {
	switch c {
	case gauge.FillGreen:
		return p.Green
	case gauge.FillAmber:
		return p.Amber
	case gauge.FillRed:
		return p.Red
	default:
		return p.Strong
	}
}

// GaugeLabels are the captions drawn around the track.
type GaugeLabels struct {
	Zero    string
	Credit  string
	Balance string
}

// LabelsFor builds the standard captions for a balance and credit limit.
func LabelsFor(balance, credit float64, currency string) GaugeLabels {
	return GaugeLabels{
		Zero:    FormatMoney(0, currency),
		Credit:  FormatMoney(credit, currency),
		Balance: FormatMoney(balance, currency),
	}
}

type cellKind int

const (
	cellBlank cellKind = iota
	cellTrack
	cellBar
	cellTick
	cellActual
)

// RenderGauge draws a computed layout into width terminal cells, one cell
// per layout unit. The output has five lines: the credit caption, the tick
// row, the track, the zero caption and the balance caption.
func RenderGauge(out gauge.Output, width int, labels GaugeLabels, p Palette) string {
	if width <= 0 {
		return ""
	}

	pad := (float64(width) - out.Fifth*5) / 2
	trackFrom, trackTo := cellAt(pad, width), cellAt(float64(width)-pad, width+1)

	barFrom := cellAt(out.BarLeft(), width)
	barTo := cellAt(out.BarLeft()+out.ActualWidth, width+1)
	if out.ActualWidth > 0 && barTo <= barFrom {
		barTo = barFrom + 1
	}

	track := make([]cellKind, width)
	for i := range track {
		switch {
		case out.ActualWidth > 0 && i >= barFrom && i < barTo:
			track[i] = cellBar
		case i >= trackFrom && i < trackTo:
			track[i] = cellTrack
		}
	}

	ticks := make([]cellKind, width)
	ticks[cellAt(out.ZeroLeft, width)] = cellTick
	ticks[cellAt(out.MaxLeft, width)] = cellTick
	ticks[cellAt(out.ActualLeft, width)] = cellActual

	fill := p.Fill(out.Fill)
	styles := map[cellKind]lipgloss.Style{
		cellBlank:  lipgloss.NewStyle(),
		cellTrack:  lipgloss.NewStyle().Foreground(p.Track),
		cellBar:    lipgloss.NewStyle().Foreground(fill),
		cellTick:   lipgloss.NewStyle().Foreground(p.Tick),
		cellActual: lipgloss.NewStyle().Foreground(fill).Bold(true),
	}
	glyphs := map[cellKind]rune{
		cellBlank:  ' ',
		cellTrack:  '░',
		cellBar:    '█',
		cellTick:   '╷',
		cellActual: '▼',
	}

	labelStyle := lipgloss.NewStyle().Foreground(p.Label)
	strongStyle := lipgloss.NewStyle().Foreground(p.Strong).Bold(true)

	rows := []string{
		placeLabel(width, cellAt(out.MaxLeft, width), labels.Credit, labelStyle),
		paintRow(ticks, glyphs, styles),
		paintRow(track, glyphs, styles),
		placeLabel(width, cellAt(out.ZeroLeft, width), labels.Zero, labelStyle),
		placeLabel(width, cellAt(out.ActualLeft, width), labels.Balance, strongStyle),
	}
	return strings.Join(rows, "\n")
}

// cellAt rounds a layout position to a cell index in [0, limit).
func cellAt(x float64, limit int) int {
	if math.IsNaN(x) {
		return 0
	}
	i := int(math.Round(x))
	if i < 0 {
		return 0
	}
	if i >= limit {
		return limit - 1
	}
	return i
}

func paintRow(cells []cellKind, glyphs map[cellKind]rune, styles map[cellKind]lipgloss.Style) string {
	var b strings.Builder
	for i := 0; i < len(cells); {
		kind := cells[i]
		j := i
		for j < len(cells) && cells[j] == kind {
			j++
		}
		b.WriteString(styles[kind].Render(strings.Repeat(string(glyphs[kind]), j-i)))
		i = j
	}
	return b.String()
}

// placeLabel centres text on a cell, keeping it inside the row.
func placeLabel(width, center int, text string, style lipgloss.Style) string {
	w := lipgloss.Width(text)
	if w == 0 {
		return strings.Repeat(" ", width)
	}
	if w > width {
		return style.Render(text)
	}
	left := center - w/2
	if left < 0 {
		left = 0
	}
	if left+w > width {
		left = width - w
	}
	return strings.Repeat(" ", left) + style.Render(text) + strings.Repeat(" ", width-left-w)
}
