package cmd

import (
	"fmt"

	"github.com/theirongolddev/debtgauge/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:      %s\n", dbPath())
	fmt.Println()

	fmt.Println("  [Gauge]")
	fmt.Printf("    Padding:       %g\n", cfg.Gauge.Padding)
	fmt.Printf("    Debounce:      %dms\n", cfg.Gauge.DebounceMS)
	fmt.Printf("    Default width: %d\n", cfg.Gauge.DefaultWidth)
	fmt.Printf("    Currency:      %s\n", cfg.Gauge.Currency)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Poll interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	if cfg.Log.File != "" {
		fmt.Printf("    File:   %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Println("  Run `debtgauge setup` to reconfigure.")
	return nil
}
