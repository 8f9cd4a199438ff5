package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/debtgauge/internal/config"
	"github.com/theirongolddev/debtgauge/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	themeName := cfg.Appearance.Theme
	padding := strconv.FormatFloat(cfg.Gauge.Padding, 'f', -1, 64)
	debounceMS := strconv.Itoa(cfg.Gauge.DebounceMS)
	currency := cfg.Gauge.Currency

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
			huh.NewInput().
				Title("Gauge padding").
				Description("Space either side of the track, in cells.").
				Value(&padding).
				Validate(func(v string) error {
					f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
					if err != nil || f < 0 {
						return errors.New("enter a number of 0 or more")
					}
					return nil
				}),
			huh.NewInput().
				Title("Render debounce (ms)").
				Description("Quiet period before a resize or edit redraws.").
				Value(&debounceMS).
				Validate(func(v string) error {
					n, err := strconv.Atoi(strings.TrimSpace(v))
					if err != nil || n <= 0 {
						return errors.New("enter a positive whole number")
					}
					return nil
				}),
			huh.NewInput().
				Title("Currency code").
				Description("GBP, USD, EUR, JPY or any ISO code.").
				Value(&currency).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return errors.New("currency cannot be empty")
					}
					return nil
				}),
		).Title("debtgauge setup"),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("setup aborted")
		}
		return err
	}

	cfg.Appearance.Theme = themeName
	cfg.Gauge.Padding, _ = strconv.ParseFloat(strings.TrimSpace(padding), 64)
	cfg.Gauge.DebounceMS, _ = strconv.Atoi(strings.TrimSpace(debounceMS))
	cfg.Gauge.Currency = strings.ToUpper(strings.TrimSpace(currency))
	cfg.Normalize()

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `debtgauge setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
