package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeprojec/internal/tracker"
	"github.com/Tiliavir/timeprojec/internal/ui"
)

var watchHeadless bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the timers live",
	Long: `Opens an interactive list of the filtered projects. Running timers
gain one second per tick while it is open.

With --headless no UI is shown; timers tick until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchHeadless, "headless", false, "Tick running timers without a UI")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	interval := a.cfg.Tick.Interval

	if watchHeadless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine := tracker.NewEngine(a.store, interval)
		running := len(a.store.RunningProjects())
		fmt.Printf("Ticking %d running timer(s) every %s. Press Ctrl+C to stop.\n", running, engine.Interval())
		if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		return nil
	}

	p := tea.NewProgram(ui.New(a.svc, a.prefs, interval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return nil
}
