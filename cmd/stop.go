package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/timecalc"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop every running timer",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	now := time.Now()

	a := openApp()
	defer a.close()

	running := a.store.RunningProjects()
	if len(running) == 0 {
		fmt.Println("No running timers.")
		return nil
	}

	a.svc.StopAll()
	for _, p := range running {
		fmt.Printf("Stopped timer for project %q. %s\n", p.Name, sessionSummary(p, now))
	}
	return nil
}

// sessionSummary describes a running project's total and, when known, how
// long ago its timer was started.
func sessionSummary(p model.Project, now time.Time) string {
	total := "Total: " + timecalc.FormatTime(p.TimeInSeconds, true)
	if p.LastStartTime == nil {
		return total
	}
	elapsed := (now.UnixMilli() - *p.LastStartTime) / 1000
	if elapsed < 0 {
		return total
	}
	return fmt.Sprintf("%s (started %s ago)", total, formatElapsed(elapsed))
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
