package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayflow/internal/config"
	"github.com/javiermolinar/dayflow/internal/db"
	"github.com/javiermolinar/dayflow/internal/reshuffle"
	"github.com/javiermolinar/dayflow/internal/schedule"
	"github.com/javiermolinar/dayflow/internal/scheduler"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// DebugLogPath is the fixed path for debug logs.
const DebugLogPath = "dayflow-debug.log"

// App holds the CLI application state.
type App struct {
	repo   schedule.Repository
	config *config.Config
	root   *cobra.Command
	out    io.Writer
	now    func() time.Time
	debug  bool

	logger  *slog.Logger
	logFile *os.File
}

// NewApp creates a new CLI application. A nil repository is opened lazily
// from the configured database path by the commands that need it.
func NewApp(repo schedule.Repository, cfg *config.Config) *App {
	a := &App{
		repo:   repo,
		config: cfg,
		out:    color.Output,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}

	a.root = &cobra.Command{
		Use:   "dayflow",
		Short: "A gentle planner that rearranges your day when it slips",
		Long: `Dayflow keeps a daily schedule of fixed commitments, habits, flexible
tasks and optional goals.

When items overlap, run into the evening or slide into the past, dayflow
proposes a calmer arrangement. Nothing changes until you apply it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			applyColorMode(a.config.UI.Color)
			if a.debug {
				return a.startDebugLog()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShow(cmd.Context(), "")
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (writes "+DebugLogPath+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.planCmd())
	a.root.AddCommand(a.applyCmd())
	a.root.AddCommand(a.resolveCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.doneCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "dayflow %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.ExecuteContext(context.Background())
}

// Close releases the repository and the debug log.
func (a *App) Close() error {
	var err error
	if a.repo != nil {
		err = a.repo.Close()
	}
	if a.logFile != nil {
		a.logger.Debug("debug end")
		_ = a.logFile.Close()
	}
	return err
}

// ensureRepo opens the configured database on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	return nil
}

func (a *App) startDebugLog() error {
	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}
	a.logFile = f
	a.logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a.logger.Debug("debug start", "log_file", DebugLogPath, "version", Version)
	return nil
}

// scheduler builds a slot finder from the configuration.
func (a *App) scheduler() *scheduler.Scheduler {
	return scheduler.New(a.config.Bounds(),
		scheduler.WithSleep(a.config.SleepProvider()),
		scheduler.WithLookahead(a.config.Schedule.LookaheadDays),
		scheduler.WithLogger(a.logger),
	)
}

func (a *App) engine() *reshuffle.Engine {
	return reshuffle.NewEngine(
		reshuffle.WithScheduler(a.scheduler()),
		reshuffle.WithMinEveningSlack(a.config.Schedule.MinEveningSlack),
		reshuffle.WithLogger(a.logger),
	)
}

// loadAround returns the items of date and of the days a slot search may
// roll over into.
func (a *App) loadAround(ctx context.Context, date time.Time) ([]*schedule.Item, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	end := date.AddDate(0, 0, a.config.Schedule.LookaheadDays+1)
	items, err := a.repo.ListItemsByDateRange(ctx, date, end)
	if err != nil {
		return nil, fmt.Errorf("fetching items: %w", err)
	}
	return items, nil
}

// parseNow resolves an optional "HH:MM" override of the current time on date.
func (a *App) parseNow(date time.Time, clock string) (time.Time, error) {
	if clock == "" {
		return a.now(), nil
	}
	m, err := schedule.ParseClock(clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now: %w", err)
	}
	return schedule.At(date, m), nil
}
