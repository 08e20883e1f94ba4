package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayflow/internal/dateutil"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in a date range",
		Long: `List all items scheduled within a date range.

If no dates are specified, lists today's items.
If only --start is specified, lists items for that single day.
If both --start and --end are specified, lists items in that range (inclusive).`,
		Example: `  dayflow list
  dayflow list --start=tomorrow
  dayflow list --start=2025-01-15 --end=2025-01-20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runList(cmd.Context(), startDate, endDate)
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, today, tomorrow, ...; defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (defaults to start date)")

	return cmd
}

func (a *App) runList(ctx context.Context, startDate, endDate string) error {
	dateRange, err := dateutil.NewDateRange(startDate, endDate, a.now())
	if err != nil {
		return err
	}

	if err := a.ensureRepo(); err != nil {
		return err
	}
	items, err := a.repo.ListItemsByDateRange(ctx, dateRange.Start, dateRange.End)
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}

	if len(items) == 0 {
		_, _ = fmt.Fprintln(a.out, "No items found in the specified date range.")
		return nil
	}

	printDays(a.out, items)
	return nil
}
