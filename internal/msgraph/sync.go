package msgraph

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/timecalc"
	"github.com/Tiliavir/timeprojec/internal/tracker"
)

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Removed  int
	Filtered int
	Errors   int
	// Seconds is the net time credited across all projects.
	Seconds int64
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	// ProjectID receives the meeting time.
	ProjectID string
	DryRun    bool
	Timezone  string
	// Out receives the progress lines; nil means stdout.
	Out io.Writer
}

// TimeAdder credits time to a project.
type TimeAdder interface {
	AddTime(id string, delta int64) (model.Project, error)
}

// Meeting is a calendar event reduced to what is credited.
type Meeting struct {
	EventID string
	Subject string
	Start   time.Time
	End     time.Time
}

// Seconds returns the meeting length, never negative.
func (m Meeting) Seconds() int64 {
	return max(0, int64(m.End.Sub(m.Start)/time.Second))
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, dt); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// shouldSkip returns true if the event must not be credited.
func shouldSkip(event CalendarEvent) bool {
	switch {
	case event.IsCancelled, event.IsAllDay:
		return true
	case event.Sensitivity == "private", event.ShowAs == "free":
		return true
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return true
	}
	return false
}

// MapEvent converts a Graph CalendarEvent into a Meeting.
func MapEvent(event CalendarEvent, timezone string) (Meeting, error) {
	start, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return Meeting{}, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return Meeting{}, fmt.Errorf("parsing end time: %w", err)
	}
	return Meeting{EventID: event.ID, Subject: event.Subject, Start: start, End: end}, nil
}

// SyncEvents credits the duration of every eligible event to the target
// project. The ledger makes repeated runs idempotent: unchanged events are
// skipped, resized events apply only the difference, and events that were
// credited before but are now cancelled or filtered are taken back from the
// project that received them. An event already credited to another project
// moves there: the old project is debited and the target credited.
// In dry-run mode neither the projects nor the ledger change.
func SyncEvents(events []CalendarEvent, target TimeAdder, ledger *Ledger, opts SyncOptions) (SyncResult, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	var result SyncResult

	credit := func(projectID string, delta int64) error {
		if opts.DryRun || delta == 0 {
			return nil
		}
		_, err := target.AddTime(projectID, delta)
		return err
	}
	// debit takes time back; a project deleted since the import has nothing
	// left to take.
	debit := func(projectID string, secs int64) error {
		if err := credit(projectID, -secs); err != nil && !errors.Is(err, tracker.ErrNotFound) {
			return err
		}
		return nil
	}

	for _, event := range events {
		prev, seen := ledger.Applied(event.ID)
		owner := prev.ProjectID
		if owner == "" {
			owner = opts.ProjectID
		}

		if shouldSkip(event) {
			if !seen {
				result.Filtered++
				continue
			}
			if err := debit(owner, prev.Seconds); err != nil {
				fmt.Fprintf(out, "  ! Error removing %q: %v\n", event.Subject, err)
				result.Errors++
				continue
			}
			if !opts.DryRun {
				ledger.Forget(event.ID)
			}
			fmt.Fprintf(out, "  ✗ Removed:  %s (%s)\n", event.Subject, timecalc.FormatDuration(prev.Seconds))
			result.Removed++
			result.Seconds -= prev.Seconds
			continue
		}

		m, err := MapEvent(event, opts.Timezone)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}
		secs := m.Seconds()
		moved := seen && owner != opts.ProjectID

		if seen && !moved && prev.Seconds == secs {
			fmt.Fprintf(out, "  – Skipped:  %s (already imported)\n", m.Subject)
			result.Skipped++
			continue
		}

		if moved {
			if err := debit(owner, prev.Seconds); err != nil {
				fmt.Fprintf(out, "  ! Error moving %q: %v\n", m.Subject, err)
				result.Errors++
				continue
			}
			if err := credit(opts.ProjectID, secs); err != nil {
				if !opts.DryRun {
					ledger.Forget(m.EventID)
				}
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", m.Subject, err)
				result.Errors++
				result.Seconds -= prev.Seconds
				continue
			}
		} else if err := credit(opts.ProjectID, secs-prev.Seconds); err != nil {
			fmt.Fprintf(out, "  ! Error saving %q: %v\n", m.Subject, err)
			result.Errors++
			continue
		}
		if !opts.DryRun {
			ledger.Record(m.EventID, opts.ProjectID, secs)
		}
		result.Seconds += secs - prev.Seconds

		if seen {
			fmt.Fprintf(out, "  ↑ Updated:  %s (%s)\n", m.Subject, timecalc.FormatDuration(secs))
			result.Updated++
			continue
		}
		fmt.Fprintf(out, "  ✓ Imported: %s (%s)\n", m.Subject, timecalc.FormatDuration(secs))
		result.Imported++
	}

	if opts.DryRun {
		return result, nil
	}
	if err := ledger.Save(); err != nil {
		return result, err
	}
	return result, nil
}
