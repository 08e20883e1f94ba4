package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayflow/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  dayflow config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigInteractive(cmd.InOrStdin())
		},
	}
}

func (a *App) runConfigInteractive(in io.Reader) error {
	configPath := config.DefaultConfigPath()
	_, _ = fmt.Fprintf(a.out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		_, _ = fmt.Fprintln(a.out, "No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		_, _ = fmt.Fprintf(a.out, "Created %s\n\n", configPath)
	}

	printConfig(a.out, cfg)

	reader := bufio.NewReader(in)
	if !a.promptYesNo(reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Schedule.DayStart = a.promptValue(reader, "Day start", cfg.Schedule.DayStart)
	cfg.Schedule.EveningStart = a.promptValue(reader, "Evening start", cfg.Schedule.EveningStart)
	cfg.Schedule.EveningEnd = a.promptValue(reader, "Evening end", cfg.Schedule.EveningEnd)
	cfg.Schedule.MinEveningSlack = a.promptFloat(reader, "Evening share to keep free (0-1)", cfg.Schedule.MinEveningSlack)
	cfg.Schedule.LookaheadDays = a.promptInt(reader, "Days a search may look ahead", cfg.Schedule.LookaheadDays)
	cfg.Sleep.Enabled = a.promptBool(reader, "Block a sleep window", cfg.Sleep.Enabled)
	if cfg.Sleep.Enabled {
		cfg.Sleep.Bedtime = a.promptValue(reader, "Bedtime", cfg.Sleep.Bedtime)
		cfg.Sleep.WakeTime = a.promptValue(reader, "Wake time", cfg.Sleep.WakeTime)
	}
	cfg.Storage.DBPath = a.promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Color = a.promptValue(reader, "Color (auto, always, never)", cfg.UI.Color)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	_, _ = fmt.Fprintln(a.out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	p := func(format string, args ...any) { _, _ = fmt.Fprintf(w, format, args...) }
	p("Current configuration:\n")
	p("──────────────────────\n")
	p("[schedule]\n")
	p("  day_start               = %s\n", cfg.Schedule.DayStart)
	p("  evening_start           = %s\n", cfg.Schedule.EveningStart)
	p("  evening_end             = %s\n", cfg.Schedule.EveningEnd)
	p("  min_evening_slack       = %.2f\n", cfg.Schedule.MinEveningSlack)
	p("  lookahead_days          = %d\n", cfg.Schedule.LookaheadDays)
	p("  recurrence_horizon_days = %d\n", cfg.Schedule.RecurrenceHorizonDays)
	p("\n[sleep]\n")
	p("  enabled                 = %t\n", cfg.Sleep.Enabled)
	if cfg.Sleep.Enabled {
		p("  bedtime                 = %s\n", cfg.Sleep.Bedtime)
		p("  wake_time               = %s\n", cfg.Sleep.WakeTime)
		p("  buffer_minutes          = %d\n", cfg.Sleep.BufferMinutes)
	}
	p("\n[storage]\n")
	p("  db_path                 = %s\n", cfg.Storage.DBPath)
	p("\n[ui]\n")
	p("  color                   = %s\n", cfg.UI.Color)
}

func (a *App) promptYesNo(reader *bufio.Reader, question string) bool {
	_, _ = fmt.Fprintf(a.out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func (a *App) promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		_, _ = fmt.Fprintf(a.out, "  %s: ", label)
	} else {
		_, _ = fmt.Fprintf(a.out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (a *App) promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := a.promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		_, _ = fmt.Fprintf(a.out, "  Not a whole number: %q\n", value)
	}
}

func (a *App) promptFloat(reader *bufio.Reader, label string, current float64) float64 {
	for {
		value := a.promptValue(reader, label, strconv.FormatFloat(current, 'f', -1, 64))
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
		_, _ = fmt.Fprintf(a.out, "  Not a number: %q\n", value)
	}
}

func (a *App) promptBool(reader *bufio.Reader, label string, current bool) bool {
	for {
		value := a.promptValue(reader, label, strconv.FormatBool(current))
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
		_, _ = fmt.Fprintf(a.out, "  Answer true or false, not %q\n", value)
	}
}
