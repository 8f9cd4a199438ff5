// Package model defines domain types for debtgauge accounts.
package model

import (
	"time"

	"github.com/theirongolddev/debtgauge/internal/gauge"
)

// Account is a named balance tracked against a credit limit.
type Account struct {
	Name      string    `json:"name"`
	Balance   float64   `json:"balance"`
	Credit    float64   `json:"credit"`
	Padding   *float64  `json:"padding,omitempty"` // nil uses the configured default
	UpdatedAt time.Time `json:"updated_at"`
}

// Attributes returns the gauge inputs for the account.
func (a Account) Attributes(defaultPadding float64) gauge.Attributes {
	padding := defaultPadding
	if a.Padding != nil {
		padding = *a.Padding
	}
	return gauge.Attributes{
		Balance: a.Balance,
		Credit:  a.Credit,
		Padding: padding,
	}
}

// Utilization is balance/credit, or 0 when there is no credit limit.
func (a Account) Utilization() float64 {
	if a.Credit == 0 {
		return 0
	}
	return a.Balance / a.Credit
}

// BalanceChange records one update to an account's balance or limit.
type BalanceChange struct {
	Account    string    `json:"account"`
	OldBalance float64   `json:"old_balance"`
	NewBalance float64   `json:"new_balance"`
	Credit     float64   `json:"credit"`
	At         time.Time `json:"at"`
}

// Delta is the balance movement of the change.
func (c BalanceChange) Delta() float64 {
	return c.NewBalance - c.OldBalance
}
