package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayflow/internal/dateutil"
	"github.com/javiermolinar/dayflow/internal/reshuffle"
)

type planOptions struct {
	date string
	now  string
}

func (a *App) planCmd() *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Suggest how to rearrange a day",
		Long: `Analyze one day and suggest changes when items overlap, do not fit
before the evening, or have slipped into the past.

Nothing is saved. Use 'dayflow apply' to accept the suggestions.`,
		Example: `  dayflow plan
  dayflow plan --date=tomorrow
  dayflow plan --now=14:30`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.analyze(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printResult(a.out, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "Day to plan (default: today)")
	cmd.Flags().StringVar(&opts.now, "now", "", "Pretend the current time is HH:MM on that day")
	return cmd
}

func (a *App) applyCmd() *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the suggested changes for a day",
		Long: `Run the same analysis as 'dayflow plan' and save every change that
does not need your input. Choices that need you are listed afterwards;
settle them with 'dayflow move' or 'dayflow done'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runApply(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "Day to rearrange (default: today)")
	cmd.Flags().StringVar(&opts.now, "now", "", "Pretend the current time is HH:MM on that day")
	return cmd
}

func (a *App) analyze(ctx context.Context, opts planOptions) (reshuffle.Result, error) {
	date, err := dateutil.ParseRelativeDate(opts.date, a.now())
	if err != nil {
		return reshuffle.Result{}, fmt.Errorf("invalid date: %w", err)
	}
	now, err := a.parseNow(date, opts.now)
	if err != nil {
		return reshuffle.Result{}, err
	}

	items, err := a.loadAround(ctx, date)
	if err != nil {
		return reshuffle.Result{}, err
	}
	return a.engine().Analyze(items, date, now), nil
}

func (a *App) runApply(ctx context.Context, opts planOptions) error {
	result, err := a.analyze(ctx, opts)
	if err != nil {
		return err
	}

	updates := result.Updates()
	if len(updates) == 0 {
		_, _ = fmt.Fprintln(a.out, result.Summary.Headline)
	} else {
		if err := a.repo.ApplyUpdates(ctx, updates); err != nil {
			return fmt.Errorf("applying changes: %w", err)
		}
		a.logger.Info("changes applied", "date", result.Date.Format("2006-01-02"), "updates", len(updates))
		_, _ = fmt.Fprintf(a.out, "%s\n", formatStats(fmt.Sprintf("Applied %d change(s)", len(updates))))
	}

	decisions := result.Decisions()
	if len(decisions) == 0 {
		return nil
	}
	_, _ = fmt.Fprintf(a.out, "\n%d item(s) wait for your choice:\n", len(decisions))
	for _, c := range decisions {
		_, _ = fmt.Fprintf(a.out, "  %s %s %s\n", formatMuted(shortID(c.ItemID)), categoryTag(c.Category), c.Title)
		for i, opt := range c.Action.Options {
			_, _ = fmt.Fprintf(a.out, "    %d. %s\n", i+1, opt.Label)
		}
	}
	return nil
}
