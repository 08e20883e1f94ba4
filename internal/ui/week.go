package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayflow/internal/dateutil"
	"github.com/javiermolinar/dayflow/internal/summary"
)

func (a *App) weekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the status of every day in a week",
		Long: `Display Monday through Sunday of the ISO week containing --date,
with planned time and a one-line status per day.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWeek(cmd.Context(), date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day of the week to show (default: today)")
	return cmd
}

func (a *App) runWeek(ctx context.Context, dateInput string) error {
	now := a.now()
	date, err := dateutil.ParseRelativeDate(dateInput, now)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	if err := a.ensureRepo(); err != nil {
		return err
	}
	week, err := summary.BuildWeekSummary(ctx, a.repo, a.engine(), summary.BuildWeekSummaryOptions{
		WeekStart:     date,
		Now:           now,
		LookaheadDays: a.config.Schedule.LookaheadDays,
	})
	if err != nil {
		return err
	}

	header := fmt.Sprintf("WEEK: %s - %s", week.Start.Format("Mon Jan 2"), week.End.Format("Mon Jan 2, 2006"))
	_, _ = fmt.Fprintf(a.out, "\n  %s\n", formatHeader(header))
	_, _ = fmt.Fprintln(a.out, strings.Repeat("─", min(termWidth(), 74)))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(formatHeader("Day"), formatHeader("Items"), formatHeader("Planned"), formatHeader("Status"))
	for _, day := range week.Days {
		status := day.Status
		if day.NeedsAttention {
			status = formatInsight(status)
		}
		tbl.AddRow(day.Date.Format("Mon 02"), day.Items, FormatDuration(day.PlannedMinutes), status)
	}
	_, _ = fmt.Fprintln(a.out, tbl)

	_, _ = fmt.Fprintln(a.out, formatStats(fmt.Sprintf("Planned: %s · Days needing attention: %d",
		FormatDuration(week.PlannedMinutes()), week.DaysNeedingAttention())))
	return nil
}
