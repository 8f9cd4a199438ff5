package components

import (
	"strings"

	"github.com/theirongolddev/debtgauge/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Gauges", Key: 'g', KeyPos: 0},
	{Name: "History", Key: 'h', KeyPos: 0},
}

const tabSep = " "

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(tab.Name)
			continue
		}
		before := tab.Name[:tab.KeyPos]
		after := tab.Name[tab.KeyPos+1:]
		parts[i] = inactiveStyle.Render(" "+before) +
			keyStyle.Render(string(tab.Name[tab.KeyPos])) +
			inactiveStyle.Render(after+" ")
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(parts, tabSep))
}

// TabVisualWidth is the rendered width of a tab, matching RenderTabBar.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(tab.Name) + 2
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

// TabAtX returns the tab index under column x of the tab bar, or -1.
func TabAtX(x, activeIdx int) int {
	pos := 0
	for i, tab := range Tabs {
		w := TabVisualWidth(tab, i == activeIdx)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + lipgloss.Width(tabSep)
	}
	return -1
}
