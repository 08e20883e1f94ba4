package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayflow/internal/conflict"
	"github.com/javiermolinar/dayflow/internal/dateutil"
	"github.com/javiermolinar/dayflow/internal/schedule"
)

type addOptions struct {
	date     string
	start    string
	duration int
	minimum  int
	category string
	evening  bool
	gentle   bool
	repeat   string
	days     string
	until    string
}

func (a *App) addCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add an item to your schedule",
		Long: `Add an item to your schedule.

Categories: non_negotiable (nn), identity_habit (habit), flexible_task (task),
optional_goal (goal). Habits can repeat daily or on chosen weekdays and may
set a minimum duration they can shrink to on busy days.

If the new item overlaps something already planned, dayflow suggests how
to settle it. Nothing else is changed.`,
		Example: `  dayflow add "Team sync" --start=10:00 --duration=30 --category=nn
  dayflow add "Run" --start=07:00 --duration=45 --min=20 --category=habit --repeat=weekly --days=mon,wed,fri
  dayflow add "Read" --date=tomorrow --start=21:00 --duration=30 --category=goal --evening --gentle`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAdd(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, weekday, ...; default: today)")
	cmd.Flags().StringVar(&opts.start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().IntVar(&opts.duration, "duration", 0, "Duration in minutes (required)")
	cmd.Flags().IntVar(&opts.minimum, "min", 0, "Minimum duration in minutes a habit can shrink to")
	cmd.Flags().StringVar(&opts.category, "category", "task", "Category: nn, habit, task or goal")
	cmd.Flags().BoolVar(&opts.evening, "evening", false, "Deliberately place the item in the evening")
	cmd.Flags().BoolVar(&opts.gentle, "gentle", false, "Mark the item as low energy")
	cmd.Flags().StringVar(&opts.repeat, "repeat", "", "Repeat: daily or weekly")
	cmd.Flags().StringVar(&opts.days, "days", "", "Weekdays for weekly repeats (mon,wed,fri)")
	cmd.Flags().StringVar(&opts.until, "until", "", "Last day of the repetition")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("duration")

	return cmd
}

func (a *App) runAdd(ctx context.Context, title string, opts addOptions) error {
	now := a.now()
	it, err := buildItem(title, opts, now)
	if err != nil {
		return err
	}

	items := []*schedule.Item{it}
	if it.IsRecurring {
		horizon := it.ScheduledDate.AddDate(0, 0, a.config.Schedule.RecurrenceHorizonDays)
		items = append(items, schedule.ExpandRecurrence(it, it.ScheduledDate, horizon)...)
	}

	if err := a.ensureRepo(); err != nil {
		return err
	}
	existing, err := a.loadAround(ctx, it.ScheduledDate)
	if err != nil {
		return err
	}

	if err := a.repo.CreateItems(ctx, items); err != nil {
		return fmt.Errorf("creating item: %w", err)
	}
	a.logger.Info("item created", "id", it.ID, "category", string(it.Category), "instances", len(items))

	_, _ = fmt.Fprintf(a.out, "Added %s %s %s %s %s-%s\n",
		formatMuted(shortID(it.ID)),
		categoryTag(it.Category),
		it.Title,
		it.ScheduledDate.Format("Mon 2006-01-02"),
		it.StartTime.Format("15:04"),
		it.EndTime().Format("15:04"),
	)
	if n := len(items) - 1; n > 0 {
		_, _ = fmt.Fprintf(a.out, "  repeats %d more time(s) over the next %d days\n", n, a.config.Schedule.RecurrenceHorizonDays)
	}

	conflicting := conflict.FindConflicts(it, existing)
	if len(conflicting) == 0 {
		return nil
	}
	resolutions := a.engine().SuggestResolution(it, conflicting, existing, now)
	printResolutions(a.out, resolutions)
	return nil
}

// buildItem validates the add flags and returns the first instance.
func buildItem(title string, opts addOptions, now time.Time) (*schedule.Item, error) {
	category, err := schedule.ParseCategory(opts.category)
	if err != nil {
		return nil, err
	}

	date, err := dateutil.ParseRelativeDate(opts.date, now)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	if err := dateutil.RequireNotPast(date, now); err != nil {
		return nil, err
	}

	clock, err := schedule.ParseClock(opts.start)
	if err != nil {
		return nil, fmt.Errorf("invalid --start: %w", err)
	}

	it, err := schedule.New(title, category, schedule.At(date, clock), opts.duration)
	if err != nil {
		return nil, err
	}
	if opts.minimum > 0 {
		if err := it.SetMinimum(opts.minimum); err != nil {
			return nil, err
		}
	}
	it.IsEvening = opts.evening
	it.IsGentle = opts.gentle

	if opts.repeat == "" {
		return it, nil
	}

	var weekdays []time.Weekday
	if opts.days != "" {
		weekdays, err = schedule.ParseWeekdays(opts.days)
		if err != nil {
			return nil, fmt.Errorf("invalid --days: %w", err)
		}
	}
	var until *time.Time
	if opts.until != "" {
		u, err := dateutil.ParseRelativeDate(opts.until, now)
		if err != nil {
			return nil, fmt.Errorf("invalid --until: %w", err)
		}
		until = &u
	}
	freq := schedule.Frequency(strings.ToLower(opts.repeat))
	if err := it.SetRecurrence(freq, weekdays, until); err != nil {
		return nil, err
	}
	return it, nil
}
