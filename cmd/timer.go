package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/timecalc"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle <project>",
	Aliases: []string{"start"},
	Short:   "Start or stop the timer of a project",
	Long: `Starts the project's timer, or stops it when it is already running.
On the free tier starting a timer stops any other running one.`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Adjust the accumulated time of a project",
}

var timeAddCmd = &cobra.Command{
	Use:   "add <project> <amount>",
	Short: "Add (or with a leading minus, remove) time",
	Long: `Amount is a preset (5m, 10m, 15m, 30m, 1h, 8h), HH:MM[:SS] or a
duration such as 90s. Prefix with "-" to subtract; the total never drops
below zero.`,
	Args: cobra.ExactArgs(2),
	RunE: runTimeAdd,
}

var timeSetCmd = &cobra.Command{
	Use:   "set <project> <HH:MM[:SS]>",
	Short: "Replace the accumulated time",
	Args:  cobra.ExactArgs(2),
	RunE:  runTimeSet,
}

func init() {
	timeCmd.AddCommand(timeAddCmd)
	timeCmd.AddCommand(timeSetCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	target, err := a.svc.ResolveProject(args[0])
	if err != nil {
		userError(err)
	}

	before := a.store.RunningProjects()
	p, err := a.svc.ToggleTimer(target.ID)
	if err != nil {
		userError(err)
	}

	if !p.IsRunning {
		fmt.Printf("Stopped timer for project %q at %s\n", p.Name, timecalc.FormatTime(p.TimeInSeconds, true))
		return nil
	}
	for _, other := range stoppedBy(before, a.store.RunningProjects()) {
		fmt.Fprintf(os.Stderr, "Warning: auto-stopping active timer for project %q\n", other.Name)
	}
	fmt.Printf("Started timer for project %q at %s\n", p.Name, timecalc.FormatTime(p.TimeInSeconds, true))
	return nil
}

// stoppedBy returns the projects running in before but not in after.
func stoppedBy(before, after []model.Project) []model.Project {
	still := make(map[string]bool, len(after))
	for _, p := range after {
		still[p.ID] = true
	}
	var out []model.Project
	for _, p := range before {
		if !still[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func runTimeAdd(cmd *cobra.Command, args []string) error {
	delta, err := timecalc.ParseDelta(args[1])
	if err != nil {
		userError(err)
	}

	a := openApp()
	defer a.close()

	target, err := a.svc.ResolveProject(args[0])
	if err != nil {
		userError(err)
	}
	p, err := a.svc.AddTime(target.ID, delta)
	if err != nil {
		userError(err)
	}
	fmt.Printf("%s: %s\n", p.Name, timecalc.FormatTime(p.TimeInSeconds, true))
	return nil
}

func runTimeSet(cmd *cobra.Command, args []string) error {
	secs, err := parseClock(args[1])
	if err != nil {
		userError(err)
	}

	a := openApp()
	defer a.close()

	target, err := a.svc.ResolveProject(args[0])
	if err != nil {
		userError(err)
	}
	p, err := a.svc.SetTime(target.ID, secs)
	if err != nil {
		userError(err)
	}
	fmt.Printf("%s: %s\n", p.Name, timecalc.FormatTime(p.TimeInSeconds, true))
	return nil
}
