package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayflow/internal/dateutil"
	"github.com/javiermolinar/dayflow/internal/schedule"
)

func (a *App) showCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a day and how it is going",
		Long: `Display one day's items with a one-line status.

When the day needs attention, run 'dayflow plan' to see suggestions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(cmd.Context(), date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (default: today)")
	return cmd
}

func (a *App) runShow(ctx context.Context, dateInput string) error {
	now := a.now()
	date, err := dateutil.ParseRelativeDate(dateInput, now)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	items, err := a.loadAround(ctx, date)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(a.out, "=== %s ===\n", formatHeader(date.Format("Monday, January 2, 2006")))

	day := schedule.ItemsOn(items, date)
	if len(day) > 0 {
		_, _ = fmt.Fprintln(a.out, itemTable(day))
	}

	engine := a.engine()
	status := engine.StatusMessage(items, date, now)
	if engine.HasIssues(items, date, now) {
		_, _ = fmt.Fprintf(a.out, "\n%s\n%s\n", formatInsight(status), formatMuted("Run 'dayflow plan' for suggestions."))
		return nil
	}
	_, _ = fmt.Fprintf(a.out, "\n%s\n", formatStats(status))
	return nil
}
