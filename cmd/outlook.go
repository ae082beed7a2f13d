package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeprojec/internal/msgraph"
	"github.com/Tiliavir/timeprojec/internal/timecalc"
)

var (
	outlookSyncFrom    string
	outlookSyncTo      string
	outlookSyncDate    string
	outlookSyncToday   bool
	outlookSyncDryRun  bool
	outlookSyncProject string
	outlookSyncTZ      string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Add Outlook meeting time to a project",
	Long: `Fetches calendar events through Microsoft Graph and credits their
duration to a project. Cancelled, all-day, private and free events are
ignored. Re-running a sync only applies what changed since the last run.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncToday, "today", false, "Sync only today (default)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncProject, "project", "", "Project receiving the meeting time (default from config)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (e.g. Europe/Berlin)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange turns the date flags into an inclusive range of whole days.
// No flags means today.
func syncRange(now time.Time, date, from, to string) (time.Time, time.Time, error) {
	switch {
	case date != "":
		d, err := time.ParseInLocation("2006-01-02", date, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date value %q: %w", date, err)
		}
		return timecalc.StartOfDay(d), timecalc.EndOfDay(d), nil

	case from != "" || to != "":
		if from == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
		}
		start, err := time.ParseInLocation("2006-01-02", from, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from value %q: %w", from, err)
		}
		end := now
		if to != "" {
			end, err = time.ParseInLocation("2006-01-02", to, now.Location())
			if err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("invalid --to value %q: %w", to, err)
			}
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", end.Format("2006-01-02"), from)
		}
		return timecalc.StartOfDay(start), timecalc.EndOfDay(end), nil
	}
	return timecalc.StartOfDay(now), timecalc.EndOfDay(now), nil
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	from, to, err := syncRange(time.Now(), outlookSyncDate, outlookSyncFrom, outlookSyncTo)
	if err != nil {
		userError(err)
	}

	a := openApp()
	defer a.close()

	projectRef := outlookSyncProject
	if projectRef == "" {
		projectRef = a.cfg.Outlook.DefaultProject
	}
	project, err := a.svc.ResolveProject(projectRef)
	if err != nil {
		userError(fmt.Errorf("%w\nTip: create it with: tp project add %q", err, projectRef))
	}

	timezone := outlookSyncTZ
	if timezone == "" {
		timezone = a.cfg.Outlook.Timezone
	}

	ledger, err := msgraph.LoadLedger(a.kv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook events (%s → %s) into %q%s...\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), project.Name, dryTag)
	fmt.Println()

	ctx := context.Background()

	tokens, err := msgraph.OpenTokenStore(a.cfg.Outlook.TokenStore, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	oauthCfg := msgraph.OAuth2Config(a.cfg.Outlook.TenantID, a.cfg.Outlook.ClientID)
	tok, err := msgraph.Authenticate(ctx, oauthCfg, tokens, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}

	client := msgraph.NewClient(ctx, tok, oauthCfg, tokens)

	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch calendar events: %v\n", err)
		os.Exit(1)
	}

	opts := msgraph.SyncOptions{
		ProjectID: project.ID,
		DryRun:    outlookSyncDryRun,
		Timezone:  timezone,
		Out:       os.Stdout,
	}

	result, err := msgraph.SyncEvents(events, a.svc, ledger, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync error: %v\n", err)
		os.Exit(2)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	fmt.Printf("  %d updated\n", result.Updated)
	fmt.Printf("  %d removed\n", result.Removed)
	fmt.Printf("  %d filtered\n", result.Filtered)
	fmt.Printf("  net %s%s\n", sign(result.Seconds), timecalc.FormatDuration(abs(result.Seconds)))
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}

func sign(n int64) string {
	if n < 0 {
		return "-"
	}
	return "+"
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
