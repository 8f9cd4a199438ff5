package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/debtgauge/internal/gauge"
	"github.com/theirongolddev/debtgauge/internal/store"
	"github.com/theirongolddev/debtgauge/internal/trigger"
	"github.com/theirongolddev/debtgauge/internal/widget"

	"github.com/spf13/cobra"
)

var (
	flagWatchBalance float64
	flagWatchCredit  float64
)

var watchCmd = &cobra.Command{
	Use:   "watch [ACCOUNT]",
	Short: "Redraw a gauge live as the terminal or the account changes",
	Long: "Draws a gauge and keeps it up to date. Terminal resizes and changes to\n" +
		"the stored account are debounced so a burst of events redraws once.",
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Float64Var(&flagWatchBalance, "balance", 0, "Balance when no account is given")
	watchCmd.Flags().Float64Var(&flagWatchCredit, "credit", 0, "Credit limit when no account is given")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	attrs := gauge.Attributes{
		Balance: flagWatchBalance,
		Credit:  flagWatchCredit,
		Padding: appCfg.Gauge.Padding,
	}
	if err := checkFinite(attrs); err != nil {
		return err
	}

	sources := []widget.TriggerSource{trigger.NewResize()}

	// With an account, database writes are attribute changes.
	var (
		st      *store.Store
		dbWatch *trigger.File
	)
	if len(args) == 1 {
		var err error
		if st, err = openStore(); err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		a, err := st.GetAccount(args[0])
		if err != nil {
			return err
		}
		attrs = a.Attributes(appCfg.Gauge.Padding)

		if dbWatch, err = trigger.NewFile(st.Path(), slog.Default()); err != nil {
			return err
		}
		defer func() { _ = dbWatch.Close() }()
	}

	frames := make(chan gauge.Output, 1)
	w := widget.New(widget.Options{
		Attributes: attrs,
		Width:      func() float64 { return float64(terminalWidth()) },
		Render:     func(out gauge.Output) { offerFrame(frames, out) },
		Sources:    sources,
		Delay:      time.Duration(appCfg.Gauge.DebounceMS) * time.Millisecond,
		Logger:     slog.Default(),
	})
	defer w.Close()

	if dbWatch != nil {
		name := args[0]
		unsub := dbWatch.Subscribe(func() {
			a, err := st.GetAccount(name)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					slog.Warn("watched account removed", "account", name)
				}
				return
			}
			w.SetAttributes(a.Attributes(appCfg.Gauge.Padding))
		})
		defer unsub()
	}

	progress("  Watching (Ctrl-C to stop)\n")
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case out := <-frames:
			drawFrame(w.Attributes(), out)
		}
	}
}

// offerFrame keeps only the newest frame when the drawing loop falls behind.
func offerFrame(frames chan gauge.Output, out gauge.Output) {
	for {
		select {
		case frames <- out:
			return
		default:
		}
		select {
		case <-frames:
		default:
		}
	}
}

func drawFrame(attrs gauge.Attributes, out gauge.Output) {
	width := int(out.Fifth*5 + attrs.Padding*2 + 0.5)
	// Clear screen and home the cursor before each frame.
	fmt.Print("\x1b[H\x1b[2J")
	fmt.Println()
	fmt.Println(renderGaugeBlock(attrs, out, width))
	fmt.Println()
	fmt.Println("  " + time.Now().Format("15:04:05") + "  Ctrl-C to stop")
}
