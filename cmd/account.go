package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/debtgauge/internal/cli"
	"github.com/theirongolddev/debtgauge/internal/gauge"
	"github.com/theirongolddev/debtgauge/internal/model"
	"github.com/theirongolddev/debtgauge/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	flagAcctBalance float64
	flagAcctCredit  float64
	flagAcctPadding float64
	flagHistLimit   int
)

var accountCmd = &cobra.Command{
	Use:     "account",
	Aliases: []string{"accounts", "acct"},
	Short:   "Manage stored accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountAdd,
}

var accountSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Update an account's balance, credit limit or padding",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountSet,
}

var accountListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List accounts",
	Args:    cobra.NoArgs,
	RunE:    runAccountList,
}

var accountRmCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove an account and its history",
	Args:    cobra.ExactArgs(1),
	RunE:    runAccountRm,
}

var accountHistoryCmd = &cobra.Command{
	Use:   "history NAME",
	Short: "Show recent balance changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountHistory,
}

func init() {
	for _, c := range []*cobra.Command{accountAddCmd, accountSetCmd} {
		c.Flags().Float64Var(&flagAcctBalance, "balance", 0, "Amount owed (negative means in credit)")
		c.Flags().Float64Var(&flagAcctCredit, "credit", 0, "Credit limit (0 for none)")
		c.Flags().Float64Var(&flagAcctPadding, "padding", 0, "Per-account gauge padding (default from config)")
	}
	accountHistoryCmd.Flags().IntVarP(&flagHistLimit, "limit", "n", 20, "Number of changes to show")

	accountCmd.AddCommand(accountAddCmd, accountSetCmd, accountListCmd, accountRmCmd, accountHistoryCmd)
	rootCmd.AddCommand(accountCmd)
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	name := strings.TrimSpace(args[0])
	if _, err := st.GetAccount(name); err == nil {
		return fmt.Errorf("account %q already exists (use `debtgauge account set`)", name)
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	a := model.Account{Name: name, Balance: flagAcctBalance, Credit: flagAcctCredit}
	if cmd.Flags().Changed("padding") {
		pad := flagAcctPadding
		a.Padding = &pad
	}
	if err := checkFinite(a.Attributes(appCfg.Gauge.Padding)); err != nil {
		return err
	}
	if err := st.UpsertAccount(a); err != nil {
		return err
	}

	progress("  Added %s\n", name)
	fmt.Println(renderAccount(a, terminalWidth()))
	return nil
}

func runAccountSet(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	a, err := st.GetAccount(args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("balance") && !flags.Changed("credit") && !flags.Changed("padding") {
		return errors.New("nothing to change: pass --balance, --credit or --padding")
	}
	if flags.Changed("balance") {
		a.Balance = flagAcctBalance
	}
	if flags.Changed("credit") {
		a.Credit = flagAcctCredit
	}
	if flags.Changed("padding") {
		pad := flagAcctPadding
		a.Padding = &pad
	}
	if err := checkFinite(a.Attributes(appCfg.Gauge.Padding)); err != nil {
		return err
	}
	if err := st.UpsertAccount(a); err != nil {
		return err
	}

	progress("  Updated %s\n", a.Name)
	fmt.Println(renderAccount(a, terminalWidth()))
	return nil
}

func runAccountList(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	accounts, err := st.ListAccounts()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Println("  No accounts.")
		return nil
	}

	cur := appCfg.Gauge.Currency
	rows := make([][]string, 0, len(accounts))
	fills := make([]gauge.FillColor, 0, len(accounts))
	for _, a := range accounts {
		fills = append(fills, gauge.ComputeLayout(a.Attributes(appCfg.Gauge.Padding).Input(100)).Fill)
		used := "-"
		if a.Credit != 0 {
			used = cli.FormatPercent(a.Utilization())
		}
		rows = append(rows, []string{
			a.Name,
			cli.FormatMoney(a.Balance, cur),
			cli.FormatMoney(a.Credit, cur),
			used,
			humanize.Time(a.UpdatedAt),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Accounts",
		Columns: []cli.Column{
			{Header: "Name"},
			{Header: "Balance", Align: cli.AlignRight},
			{Header: "Limit", Align: cli.AlignRight},
			{Header: "Used", Align: cli.AlignRight},
			{Header: "Updated"},
		},
		Rows:  rows,
		Fills: fills,
	}))
	return nil
}

func runAccountRm(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteAccount(args[0]); err != nil {
		return err
	}
	progress("  Removed %s\n", args[0])
	return nil
}

func runAccountHistory(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if _, err := st.GetAccount(args[0]); err != nil {
		return err
	}
	changes, err := st.History(args[0], flagHistLimit)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Println("  No balance changes recorded.")
		return nil
	}

	cur := appCfg.Gauge.Currency
	rows := make([][]string, 0, len(changes))
	series := make([]float64, len(changes))
	for i, c := range changes {
		rows = append(rows, []string{
			c.At.Local().Format("2006-01-02 15:04"),
			cli.FormatMoney(c.NewBalance, cur),
			cli.FormatDelta(c.NewBalance, c.OldBalance, cur),
			cli.FormatMoney(c.Credit, cur),
		})
		series[len(changes)-1-i] = c.NewBalance
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   args[0] + " history",
		Columns: []cli.Column{
			{Header: "When"},
			{Header: "Balance", Align: cli.AlignRight},
			{Header: "Change", Align: cli.AlignRight},
			{Header: "Limit", Align: cli.AlignRight},
		},
		Rows: rows,
	}))
	fmt.Printf("  Trend: %s\n\n", cli.RenderSparkline(series))
	return nil
}
