// Package cmd implements the debtgauge CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/theirongolddev/debtgauge/internal/cli"
	"github.com/theirongolddev/debtgauge/internal/config"
	"github.com/theirongolddev/debtgauge/internal/logging"
	"github.com/theirongolddev/debtgauge/internal/store"
	"github.com/theirongolddev/debtgauge/internal/trigger"

	"github.com/spf13/cobra"
)

var (
	flagDB       string
	flagQuiet    bool
	flagCurrency string
	flagLogLevel string
)

// appCfg is the loaded configuration with flag overrides applied.
var (
	appCfg     = config.DefaultConfig()
	closeLogFn = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "debtgauge",
	Short: "Debt gauges for your credit accounts",
	Long: "Track balances against credit limits and draw them as gauges:\n" +
		"in the terminal, in a live dashboard, or over HTTP.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { _ = closeLogFn() },
	RunE:              runOverview,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Accounts database path (default from config or XDG data dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "Currency code for labels (GBP, USD, EUR, JPY, ...)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// setup loads config, applies flag overrides and installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	if flagCurrency != "" {
		cfg.Gauge.Currency = strings.ToUpper(flagCurrency)
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	appCfg = cfg

	mode := logging.ModeCLI
	if isDaemonProcess(cmd) {
		mode = logging.ModeDaemon
	}
	closeFn, err := logging.Init(cfg.Log, mode, defaultDaemonLog())
	if err != nil {
		return err
	}
	closeLogFn = closeFn
	slog.Debug("config loaded", "path", config.Path(), "db", dbPath())
	return nil
}

func dbPath() string {
	if flagDB != "" {
		return flagDB
	}
	return config.DBPath(appCfg, store.DefaultPath())
}

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath())
	if err != nil {
		return nil, fmt.Errorf("opening accounts database: %w", err)
	}
	return st, nil
}

// terminalWidth is the stdout width, or the configured default when stdout is
// not a terminal.
func terminalWidth() int {
	return trigger.TerminalWidth(int(os.Stdout.Fd()), appCfg.Gauge.DefaultWidth)
}

func progress(format string, args ...any) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// runOverview draws a gauge for every stored account.
func runOverview(_ *cobra.Command, _ []string) error {
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
		fmt.Println()
		fmt.Println("  No accounts yet.")
		fmt.Println()
		fmt.Println("  Add one:")
		fmt.Println("    debtgauge account add visa --balance 450 --credit 1200")
		fmt.Println()
		fmt.Println("  Or draw a one-off gauge:")
		fmt.Println("    debtgauge show --balance 50 --credit 100")
		fmt.Println()
		return nil
	}

	width := terminalWidth()
	fmt.Println()
	fmt.Println(cli.RenderTitle("DEBT GAUGES"))
	for _, a := range accounts {
		fmt.Println()
		fmt.Println(renderAccount(a, width))
	}
	fmt.Println()
	return nil
}
