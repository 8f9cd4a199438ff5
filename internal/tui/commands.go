package tui

import (
	"github.com/theirongolddev/debtgauge/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func loadAccountsCmd(st AccountStore) tea.Cmd {
	return func() tea.Msg {
		accounts, err := st.ListAccounts()
		return AccountsLoadedMsg{Accounts: accounts, Err: err}
	}
}

func saveAccountCmd(st AccountStore, acct model.Account) tea.Cmd {
	return func() tea.Msg {
		return SavedMsg{Err: st.UpsertAccount(acct)}
	}
}

// historyCmd loads the selected account's history when the History tab is
// showing.
func (a App) historyCmd() tea.Cmd {
	sel, ok := a.selected()
	if !ok || a.activeTab != 1 {
		return nil
	}
	st := a.store
	return func() tea.Msg {
		changes, err := st.History(sel.Name, historyLimit)
		return HistoryLoadedMsg{Account: sel.Name, Changes: changes, Err: err}
	}
}
