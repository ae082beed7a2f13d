package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeprojec/internal/feature"
	"github.com/Tiliavir/timeprojec/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show running timers and the total tracked time",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	writeStatus(os.Stdout, a, time.Now())
	return nil
}

func writeStatus(w io.Writer, a *app, now time.Time) {
	running := a.store.RunningProjects()
	if len(running) == 0 {
		fmt.Fprintln(w, "No active timer.")
	} else {
		fmt.Fprintln(w, "Running:")
		for _, p := range running {
			fmt.Fprintf(w, "  %s  %s\n", p.Name, sessionSummary(p, now))
		}
	}

	var total int64
	projects := a.store.Projects()
	for _, p := range projects {
		total += p.TimeInSeconds
	}
	f := a.svc.Features()
	fmt.Fprintf(w, "Tracked: %s across %d of %d project(s).\n",
		timecalc.FormatDuration(total), len(projects), f.MaxProjects)

	if sel := a.store.SelectedTag(); sel != "" {
		if t, ok := a.store.Tag(sel); ok {
			fmt.Fprintf(w, "Filter: %s\n", t.Name)
		}
	}
	fmt.Fprintf(w, "Tier: %s\n", a.tiers.Tier())
}

var tierCmd = &cobra.Command{
	Use:   "tier [free|pro]",
	Short: "Show or change the subscription tier",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTier,
}

func runTier(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	if len(args) == 0 {
		writeTier(os.Stdout, a.tiers.Tier())
		return nil
	}

	tier, err := feature.ParseTier(args[0])
	if err != nil {
		userError(err)
	}
	if err := feature.SaveTier(a.kv, tier); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("Tier set to %s.\n", tier)
	if n, limit := len(a.store.Projects()), feature.For(tier).MaxProjects; n > limit {
		fmt.Fprintf(os.Stderr, "Warning: %d projects exceed the %s limit of %d; existing projects are kept.\n", n, tier, limit)
	}
	return nil
}

func writeTier(w io.Writer, tier feature.Tier) {
	f := feature.For(tier)
	fmt.Fprintf(w, "Tier: %s\n", tier)
	fmt.Fprintf(w, "  Projects:        up to %d\n", f.MaxProjects)
	fmt.Fprintf(w, "  Multiple timers: %s\n", yesNo(f.MultipleTimers))
	fmt.Fprintf(w, "  Tags:            %s\n", yesNo(f.HasFolders))
	fmt.Fprintf(w, "  App themes:      %s\n", yesNo(f.HasAppThemes))
	fmt.Fprintf(w, "  Colors:          %d\n", len(f.AvailableColors))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var themeCmd = &cobra.Command{
	Use:   "theme [id]",
	Short: "Show or change the app theme",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	if len(args) == 0 {
		current := a.prefs.Theme()
		for _, t := range feature.Themes {
			marker := " "
			if t.ID == current {
				marker = "*"
			}
			suffix := ""
			if t.Pro {
				suffix = " (pro)"
			}
			fmt.Printf("%s %s%s\n", marker, t.ID, suffix)
		}
		return nil
	}

	if err := a.svc.SelectTheme(args[0]); err != nil {
		userError(err)
	}
	fmt.Printf("Theme set to %s.\n", args[0])
	return nil
}
