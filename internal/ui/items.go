package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayflow/internal/conflict"
	"github.com/javiermolinar/dayflow/internal/dateutil"
	"github.com/javiermolinar/dayflow/internal/schedule"
)

var errAmbiguousID = errors.New("id prefix matches more than one item")

// findItem resolves a full ID or the short prefix shown in listings.
func (a *App) findItem(ctx context.Context, ref string) (*schedule.Item, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)

	it, err := a.repo.GetItem(ctx, ref)
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, schedule.ErrItemNotFound) {
		return nil, err
	}

	all, err := a.repo.ListAllItems(ctx)
	if err != nil {
		return nil, err
	}
	var match *schedule.Item
	for _, candidate := range all {
		if !strings.HasPrefix(candidate.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w: %s", errAmbiguousID, ref)
		}
		match = candidate
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", schedule.ErrItemNotFound, ref)
	}
	return match, nil
}

func (a *App) doneCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <item-id>",
		Short: "Mark an item as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			it, err := a.findItem(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.repo.SetCompleted(ctx, it.ID, !undo); err != nil {
				return err
			}
			if undo {
				_, _ = fmt.Fprintf(a.out, "Reopened %s\n", it.Title)
			} else {
				_, _ = fmt.Fprintf(a.out, "%s %s\n", formatStats("Done:"), it.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the item as not done")
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <item-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			it, err := a.findItem(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.repo.DeleteItem(ctx, it.ID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.out, "Deleted %s\n", it.Title)
			return nil
		},
	}
}

func (a *App) moveCmd() *cobra.Command {
	var (
		date     string
		start    string
		duration int
	)

	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move or resize an item yourself",
		Long: `Give an item a new day, start time or duration.

Conflicts with the new position are reported with suggestions.`,
		Example: `  dayflow move 1a2b3c4d --start=15:00
  dayflow move 1a2b3c4d --date=tomorrow --start=09:00
  dayflow move 1a2b3c4d --duration=20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMove(cmd.Context(), args[0], date, start, duration)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (default: the item's current day)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	cmd.Flags().IntVar(&duration, "duration", 0, "New duration in minutes")
	return cmd
}

func (a *App) runMove(ctx context.Context, ref, dateInput, startInput string, duration int) error {
	it, err := a.findItem(ctx, ref)
	if err != nil {
		return err
	}
	if dateInput == "" && startInput == "" && duration == 0 {
		return errors.New("nothing to change: pass --date, --start or --duration")
	}

	now := a.now()
	update := schedule.ItemUpdate{ID: it.ID}

	if dateInput != "" || startInput != "" {
		date := it.ScheduledDate
		if dateInput != "" {
			date, err = dateutil.ParseRelativeDate(dateInput, now)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}
		}
		clock := schedule.MinuteOfDay(it.StartTime)
		if startInput != "" {
			clock, err = schedule.ParseClock(startInput)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
		}
		newStart := schedule.At(date, clock)
		newDate := schedule.StartOfDay(date)
		update.StartTime = &newStart
		update.ScheduledDate = &newDate
		it.StartTime = newStart
		it.ScheduledDate = newDate
	}
	if duration != 0 {
		if duration < 0 || (it.MinimumDurationMinutes > 0 && duration < it.MinimumDurationMinutes) {
			return schedule.ErrInvalidDuration
		}
		update.DurationMinutes = &duration
		it.DurationMinutes = duration
	}

	if err := a.repo.ApplyUpdates(ctx, []schedule.ItemUpdate{update}); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Moved %s to %s %s-%s\n",
		it.Title, it.ScheduledDate.Format("Mon 2006-01-02"),
		it.StartTime.Format("15:04"), it.EndTime().Format("15:04"))

	return a.reportConflicts(ctx, it, now)
}

func (a *App) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <item-id>",
		Short: "Suggest how to settle an item's overlaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			it, err := a.findItem(ctx, args[0])
			if err != nil {
				return err
			}
			return a.reportConflicts(ctx, it, a.now())
		},
	}
}

// reportConflicts prints resolution suggestions for everything it overlaps.
func (a *App) reportConflicts(ctx context.Context, it *schedule.Item, now time.Time) error {
	items, err := a.loadAround(ctx, it.ScheduledDate)
	if err != nil {
		return err
	}
	conflicting := conflict.FindConflicts(it, items)
	if len(conflicting) == 0 {
		_, _ = fmt.Fprintln(a.out, formatStats("No overlaps."))
		return nil
	}
	printResolutions(a.out, a.engine().SuggestResolution(it, conflicting, items, now))
	return nil
}
