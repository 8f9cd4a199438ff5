package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/theirongolddev/debtgauge/internal/cli"
	"github.com/theirongolddev/debtgauge/internal/gauge"
	"github.com/theirongolddev/debtgauge/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	flagShowBalance float64
	flagShowCredit  float64
	flagShowPadding float64
	flagShowWidth   int
	flagShowJSON    bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Draw a one-off gauge for a balance and credit limit",
	Example: "  debtgauge show --balance 50 --credit 100\n" +
		"  debtgauge show --balance -30 --credit 100 --width 500 --json",
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().Float64Var(&flagShowBalance, "balance", 0, "Amount owed (negative means in credit)")
	showCmd.Flags().Float64Var(&flagShowCredit, "credit", 0, "Credit limit (0 for none)")
	showCmd.Flags().Float64Var(&flagShowPadding, "padding", gauge.DefaultPadding, "Track padding (default from config)")
	showCmd.Flags().IntVar(&flagShowWidth, "width", 0, "Track width (default terminal width)")
	showCmd.Flags().BoolVar(&flagShowJSON, "json", false, "Print the computed layout as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	attrs := gauge.Attributes{
		Balance: flagShowBalance,
		Credit:  flagShowCredit,
		Padding: appCfg.Gauge.Padding,
	}
	if cmd.Flags().Changed("padding") {
		attrs.Padding = flagShowPadding
	}
	if err := checkFinite(attrs); err != nil {
		return err
	}

	width := flagShowWidth
	if width <= 0 {
		width = terminalWidth()
	}

	in := attrs.Input(float64(width))
	out := gauge.ComputeLayout(in)

	if flagShowJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Input  gauge.Input  `json:"input"`
			Layout gauge.Output `json:"layout"`
		}{in, out})
	}

	fmt.Println()
	fmt.Println(renderGaugeBlock(attrs, out, width))
	fmt.Println()
	return nil
}

// renderGaugeBlock draws the gauge followed by its balance and limit
// descriptions.
func renderGaugeBlock(attrs gauge.Attributes, out gauge.Output, width int) string {
	cur := appCfg.Gauge.Currency
	desc := lipgloss.NewStyle().Foreground(cli.ColorTextMuted).Render(
		"  " + cli.DescribeBalance(attrs.Balance, cur) + " · " + cli.DescribeCredit(attrs.Credit, cur))
	g := cli.RenderGauge(out, width, cli.LabelsFor(attrs.Balance, attrs.Credit, cur), cli.DefaultPalette())
	return g + "\n" + desc
}

func renderAccount(a model.Account, width int) string {
	attrs := a.Attributes(appCfg.Gauge.Padding)
	out := gauge.ComputeLayout(attrs.Input(float64(width)))

	title := lipgloss.NewStyle().Bold(true).Foreground(cli.ColorAccent).Render("  " + a.Name)
	status := lipgloss.NewStyle().Foreground(cli.ColorTextDim).Render(
		"  " + strings.ReplaceAll(out.Case.String(), "_", " "))
	return title + status + "\n" + renderGaugeBlock(attrs, out, width)
}

func checkFinite(a gauge.Attributes) error {
	for name, v := range map[string]float64{"balance": a.Balance, "credit": a.Credit, "padding": a.Padding} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	return nil
}
