package tui

import (
	"strconv"

	"github.com/theirongolddev/debtgauge/internal/gauge"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// editValues is bound to the edit form inputs.
type editValues struct {
	name    string
	balance string
	credit  string
}

func newEditForm(vals *editValues) *huh.Form {
	validate := func(v string) error {
		var attrs gauge.Attributes
		return attrs.Set("balance", v)
	}

	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Balance").
				Description("Amount owed. Negative means in credit.").
				Value(&vals.balance).
				Validate(validate),
			huh.NewInput().
				Title("Credit limit").
				Description("0 for no limit.").
				Value(&vals.credit).
				Validate(validate),
		).Title("Edit " + vals.name),
	).WithKeyMap(km)
}

func (a App) startEdit() (tea.Model, tea.Cmd) {
	sel, ok := a.selected()
	if !ok {
		return a, nil
	}

	a.editVals = &editValues{
		name:    sel.Name,
		balance: strconv.FormatFloat(sel.Balance, 'f', -1, 64),
		credit:  strconv.FormatFloat(sel.Credit, 'f', -1, 64),
	}
	a.editForm = newEditForm(a.editVals)
	if a.width > 0 {
		a.editForm = a.editForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.editForm.Init()
}

func (a App) updateEditForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.editForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.editForm = f
	}

	switch a.editForm.State {
	case huh.StateCompleted:
		vals := *a.editVals
		a.editForm, a.editVals = nil, nil
		return a, a.commitEdit(vals)
	case huh.StateAborted:
		a.editForm, a.editVals = nil, nil
		return a, nil
	}
	return a, cmd
}

// commitEdit applies submitted values to the selected account. Only a change
// in balance or credit schedules a relayout.
func (a *App) commitEdit(vals editValues) tea.Cmd {
	sel, ok := a.selected()
	if !ok || sel.Name != vals.name {
		return nil
	}

	attrs := sel.Attributes(a.padding)
	if err := attrs.Set("balance", vals.balance); err != nil {
		a.status = err.Error()
		return nil
	}
	if err := attrs.Set("credit", vals.credit); err != nil {
		a.status = err.Error()
		return nil
	}
	if attrs.Balance == sel.Balance && attrs.Credit == sel.Credit {
		a.status = "unchanged"
		return nil
	}

	sel.Balance, sel.Credit = attrs.Balance, attrs.Credit
	a.status = ""
	return a.applyAccount(sel)
}
