// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/dayflow/internal/schedule"
	"github.com/javiermolinar/dayflow/internal/scheduler"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Sleep    SleepConfig    `toml:"sleep"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// ScheduleConfig holds the day boundaries used by the planner.
type ScheduleConfig struct {
	DayStart              string  `toml:"day_start"`               // nothing is placed earlier, e.g. "06:00"
	EveningStart          string  `toml:"evening_start"`           // wind-down begins, e.g. "20:00"
	EveningEnd            string  `toml:"evening_end"`             // e.g. "23:00"
	MinEveningSlack       float64 `toml:"min_evening_slack"`       // share of the evening to keep free
	LookaheadDays         int     `toml:"lookahead_days"`          // how far a slot search may roll over
	RecurrenceHorizonDays int     `toml:"recurrence_horizon_days"` // how far recurring items are expanded
}

// SleepConfig holds the nightly blocked window.
type SleepConfig struct {
	Enabled       bool   `toml:"enabled"`
	Bedtime       string `toml:"bedtime"`
	WakeTime      string `toml:"wake_time"`
	BufferMinutes int    `toml:"buffer_minutes"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds terminal output settings.
type UIConfig struct {
	Color string `toml:"color"` // "auto", "always", "never"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			DayStart:              "06:00",
			EveningStart:          "20:00",
			EveningEnd:            "23:00",
			MinEveningSlack:       0.5,
			LookaheadDays:         scheduler.DefaultLookaheadDays,
			RecurrenceHorizonDays: 14,
		},
		Sleep: SleepConfig{
			Enabled:       true,
			Bedtime:       "23:00",
			WakeTime:      "07:00",
			BufferMinutes: 30,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Color: "auto",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dayflow.db"
	}
	return filepath.Join(home, ".local", "share", "dayflow", "dayflow.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "dayflow", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	// Schedule overrides
	if v := os.Getenv("DAYFLOW_DAY_START"); v != "" {
		cfg.Schedule.DayStart = v
	}
	if v := os.Getenv("DAYFLOW_EVENING_START"); v != "" {
		cfg.Schedule.EveningStart = v
	}
	if v := os.Getenv("DAYFLOW_EVENING_END"); v != "" {
		cfg.Schedule.EveningEnd = v
	}
	if v := os.Getenv("DAYFLOW_MIN_EVENING_SLACK"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DAYFLOW_MIN_EVENING_SLACK: %w", err)
		}
		cfg.Schedule.MinEveningSlack = f
	}
	if v := os.Getenv("DAYFLOW_LOOKAHEAD_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DAYFLOW_LOOKAHEAD_DAYS: %w", err)
		}
		cfg.Schedule.LookaheadDays = n
	}

	// Sleep overrides
	if v := os.Getenv("DAYFLOW_SLEEP_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DAYFLOW_SLEEP_ENABLED: %w", err)
		}
		cfg.Sleep.Enabled = b
	}
	if v := os.Getenv("DAYFLOW_BEDTIME"); v != "" {
		cfg.Sleep.Bedtime = v
	}
	if v := os.Getenv("DAYFLOW_WAKE_TIME"); v != "" {
		cfg.Sleep.WakeTime = v
	}

	// Storage overrides
	if v := os.Getenv("DAYFLOW_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	// UI overrides
	if v := os.Getenv("DAYFLOW_COLOR"); v != "" {
		cfg.UI.Color = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	dayStart, err := parseClock(c.Schedule.DayStart, "day_start")
	if err != nil {
		return err
	}
	eveningStart, err := parseClock(c.Schedule.EveningStart, "evening_start")
	if err != nil {
		return err
	}
	eveningEnd, err := parseClock(c.Schedule.EveningEnd, "evening_end")
	if err != nil {
		return err
	}
	if dayStart >= eveningStart {
		return errors.New("day_start must be before evening_start")
	}
	if eveningStart >= eveningEnd {
		return errors.New("evening_start must be before evening_end")
	}
	if c.Schedule.MinEveningSlack < 0 || c.Schedule.MinEveningSlack > 1 {
		return errors.New("min_evening_slack must be between 0 and 1")
	}
	if c.Schedule.LookaheadDays < 0 {
		return errors.New("lookahead_days cannot be negative")
	}
	if c.Schedule.RecurrenceHorizonDays < 1 {
		return errors.New("recurrence_horizon_days must be at least 1")
	}

	if c.Sleep.Enabled {
		if _, err := parseClock(c.Sleep.Bedtime, "bedtime"); err != nil {
			return err
		}
		if _, err := parseClock(c.Sleep.WakeTime, "wake_time"); err != nil {
			return err
		}
		if c.Sleep.BufferMinutes < 0 {
			return errors.New("buffer_minutes cannot be negative")
		}
	}

	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.UI.Color)
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// parseClock checks that a time string is in HH:MM format and returns minutes since midnight.
func parseClock(t, field string) (int, error) {
	m, err := schedule.ParseClock(t)
	if err != nil {
		return 0, fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return m, nil
}

// Bounds returns the day boundaries. The config must be valid.
func (c *Config) Bounds() schedule.Bounds {
	dayStart, _ := schedule.ParseClock(c.Schedule.DayStart)
	eveningStart, _ := schedule.ParseClock(c.Schedule.EveningStart)
	eveningEnd, _ := schedule.ParseClock(c.Schedule.EveningEnd)
	return schedule.Bounds{
		DayStartMinute:     dayStart,
		EveningStartMinute: eveningStart,
		EveningEndMinute:   eveningEnd,
	}
}

// SleepProvider returns the configured sleep window, or nil when sleep blocking is off.
func (c *Config) SleepProvider() scheduler.SleepProvider {
	if !c.Sleep.Enabled {
		return nil
	}
	bedtime, _ := schedule.ParseClock(c.Sleep.Bedtime)
	wake, _ := schedule.ParseClock(c.Sleep.WakeTime)
	return scheduler.FixedSleep{
		BedtimeMinute: bedtime,
		WakeMinute:    wake,
		BufferMinutes: c.Sleep.BufferMinutes,
	}
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
