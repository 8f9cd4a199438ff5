// Package tui provides the interactive Bubble Tea dashboard for debtgauge.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/debtgauge/internal/config"
	"github.com/theirongolddev/debtgauge/internal/debounce"
	"github.com/theirongolddev/debtgauge/internal/gauge"
	"github.com/theirongolddev/debtgauge/internal/model"
	"github.com/theirongolddev/debtgauge/internal/tui/components"
	"github.com/theirongolddev/debtgauge/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// AccountStore is the subset of the account store the dashboard needs.
type AccountStore interface {
	ListAccounts() ([]model.Account, error)
	UpsertAccount(a model.Account) error
	History(name string, limit int) ([]model.BalanceChange, error)
}

// AccountsLoadedMsg is sent when the account list has been read.
type AccountsLoadedMsg struct {
	Accounts []model.Account
	Err      error
}

// HistoryLoadedMsg carries the recent changes for one account.
type HistoryLoadedMsg struct {
	Account string
	Changes []model.BalanceChange
	Err     error
}

// SavedMsg reports the result of persisting an edited account.
type SavedMsg struct {
	Err error
}

// laidOut is one account as it was when the gauges were last laid out.
type laidOut struct {
	Account model.Account
	Out     gauge.Output
}

// relayoutMsg is the debounced render tick. It only takes effect when gen is
// still the latest generation for the relayout key.
type relayoutMsg struct {
	gen uint64
}

const (
	relayoutKey = "layout"

	minTerminalWidth = 40
	maxContentWidth  = 140
	minContentHeight = 5
	historyLimit     = 20
	nudgeStep        = 10
)

// App is the root Bubble Tea model.
type App struct {
	store    AccountStore
	padding  float64
	currency string
	delay    time.Duration

	// Data
	accounts []model.Account
	history  []model.BalanceChange
	loaded   bool
	err      error

	// Layout state. layouts are only recomputed by the debounced relayout.
	gens        *debounce.Tracker
	layouts     []laidOut
	layoutWidth int
	relayouts   int

	// UI state
	width     int
	height    int
	cursor    int
	activeTab int
	showHelp  bool
	status    string

	// Edit form (huh), bound to editVals.
	editForm *huh.Form
	editVals *editValues

	keys    keyMap
	spinner spinner.Model
}

// NewApp creates a new TUI app model.
func NewApp(st AccountStore, cfg config.Config) App {
	theme.SetActive(cfg.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	delay := time.Duration(cfg.Gauge.DebounceMS) * time.Millisecond
	if delay <= 0 {
		delay = debounce.DefaultDelay
	}

	return App{
		store:    st,
		padding:  cfg.Gauge.Padding,
		currency: cfg.Gauge.Currency,
		delay:    delay,
		gens:     &debounce.Tracker{},
		keys:     defaultKeyMap(),
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadAccountsCmd(a.store),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.editForm != nil {
			a.editForm = a.editForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, a.scheduleRelayout()

	case relayoutMsg:
		if !a.gens.Latest(relayoutKey, msg.gen) {
			return a, nil
		}
		a.relayout()
		return a, nil

	case AccountsLoadedMsg:
		a.loaded = true
		a.err = msg.Err
		if msg.Err == nil {
			a.accounts = msg.Accounts
		}
		a.clampCursor()
		return a, tea.Batch(a.scheduleRelayout(), a.historyCmd())

	case HistoryLoadedMsg:
		if sel, ok := a.selected(); ok && sel.Name == msg.Account {
			a.history = msg.Changes
			if msg.Err != nil {
				a.status = "history: " + msg.Err.Error()
			}
		}
		return a, nil

	case SavedMsg:
		if msg.Err != nil {
			a.status = "save failed: " + msg.Err.Error()
			return a, nil
		}
		a.status = "saved"
		return a, a.historyCmd()

	case spinner.TickMsg:
		if !a.loaded || a.layouts == nil {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.MouseMsg:
		if a.editForm != nil || a.showHelp {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			return a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
					return a.switchTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.editForm != nil {
			return a.updateEditForm(msg)
		}
		return a.handleKey(msg)
	}

	// Forward unhandled messages to the edit form (cursor blinks, etc.)
	if a.editForm != nil {
		return a.updateEditForm(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Down):
		return a.moveCursor(1)
	case key.Matches(msg, a.keys.Up):
		return a.moveCursor(-1)
	case key.Matches(msg, a.keys.Gauges):
		return a.switchTab(0)
	case key.Matches(msg, a.keys.History):
		return a.switchTab(1)
	case key.Matches(msg, a.keys.Reload):
		a.status = "reloading"
		return a, loadAccountsCmd(a.store)
	case key.Matches(msg, a.keys.Increase):
		return a.nudge(nudgeStep)
	case key.Matches(msg, a.keys.Decrease):
		return a.nudge(-nudgeStep)
	case key.Matches(msg, a.keys.Edit):
		return a.startEdit()
	}
	return a, nil
}

// scheduleRelayout starts a new debounce generation and arms a tick for it.
// Any tick from an earlier generation is dropped when it arrives.
func (a *App) scheduleRelayout() tea.Cmd {
	gen := a.gens.Bump(relayoutKey)
	return tea.Tick(a.delay, func(time.Time) tea.Msg {
		return relayoutMsg{gen: gen}
	})
}

// relayout recomputes every gauge at the current track width.
func (a *App) relayout() {
	a.layoutWidth = a.trackWidth()
	a.layouts = make([]laidOut, len(a.accounts))
	for i, acct := range a.accounts {
		in := acct.Attributes(a.padding).Input(float64(a.layoutWidth))
		a.layouts[i] = laidOut{Account: acct, Out: gauge.ComputeLayout(in)}
	}
	a.relayouts++
}

func (a App) trackWidth() int {
	return components.CardInnerWidth(a.contentWidth())
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) selected() (model.Account, bool) {
	if a.cursor < 0 || a.cursor >= len(a.accounts) {
		return model.Account{}, false
	}
	return a.accounts[a.cursor], true
}

func (a *App) clampCursor() {
	if a.cursor >= len(a.accounts) {
		a.cursor = len(a.accounts) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a App) moveCursor(delta int) (tea.Model, tea.Cmd) {
	prev := a.cursor
	a.cursor += delta
	a.clampCursor()
	if a.cursor == prev {
		return a, nil
	}
	a.history = nil
	return a, a.historyCmd()
}

func (a App) switchTab(tab int) (tea.Model, tea.Cmd) {
	a.activeTab = tab
	return a, a.historyCmd()
}

// nudge moves the selected balance by delta, persists it and schedules a
// relayout.
func (a App) nudge(delta float64) (tea.Model, tea.Cmd) {
	sel, ok := a.selected()
	if !ok {
		return a, nil
	}
	sel.Balance += delta
	return a, a.applyAccount(sel)
}

// applyAccount replaces the selected account in memory, saves it and
// debounces the relayout.
func (a *App) applyAccount(acct model.Account) tea.Cmd {
	acct.UpdatedAt = time.Now()
	a.accounts[a.cursor] = acct
	return tea.Batch(saveAccountCmd(a.store, acct), a.scheduleRelayout())
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n  debtgauge needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if a.editForm != nil {
		return a.editForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	if !a.loaded || a.layouts == nil {
		return a.viewLoading()
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3).
		Render(a.spinner.View() + lipgloss.NewStyle().Foreground(t.TextMuted).Render(" Laying out gauges..."))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewHelp() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range a.keys.all() {
		h := bind.Help()
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", h.Key)),
			descStyle.Render(h.Desc))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("Press any key to close"))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3).
		Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewMain() string {
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, a.width)

	right := fmt.Sprintf("%d accounts ", len(a.accounts))
	if a.status != "" {
		right = a.status + "  " + right
	}
	statusBar := components.RenderStatusBar(a.width, " [?]help  [e]dit  [q]uit", right)

	contentH := a.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderGaugesTab(cw, contentH)
	case 1:
		content = a.renderHistoryTab(cw)
	}
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.PlaceHorizontal(a.width, lipgloss.Center, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
