// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/dayflow/internal/schedule"
)

const dateLayout = "2006-01-02"

// SQLite implements schedule.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ schedule.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const insertQuery = `
	INSERT INTO items (
		id, title, category, start_time, duration_minutes, min_duration,
		completed, scheduled_date, evening, gentle, recurring, frequency,
		weekdays, recurrence_end, parent_id, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectColumns = `
	SELECT id, title, category, start_time, duration_minutes, min_duration,
	       completed, scheduled_date, evening, gentle, recurring, frequency,
	       weekdays, recurrence_end, parent_id, created_at
	FROM items
`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateItem adds a new item to the repository.
func (s *SQLite) CreateItem(ctx context.Context, it *schedule.Item) error {
	return insertItem(ctx, s.db, it)
}

// CreateItems adds multiple items in a batch using a transaction.
func (s *SQLite) CreateItems(ctx context.Context, items []*schedule.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, it := range items {
		if err := insertItem(ctx, tx, it); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertItem(ctx context.Context, db execer, it *schedule.Item) error {
	if it.ID == "" {
		it.ID = schedule.NewID()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}

	var recurrenceEnd, parentID any
	if it.RecurrenceEnd != nil {
		recurrenceEnd = it.RecurrenceEnd.Format(dateLayout)
	}
	if it.ParentID != "" {
		parentID = it.ParentID
	}

	_, err := db.ExecContext(ctx, insertQuery,
		it.ID,
		it.Title,
		it.Category,
		it.StartTime.Format(time.RFC3339),
		it.DurationMinutes,
		it.MinimumDurationMinutes,
		it.IsCompleted,
		it.ScheduledDate.Format(dateLayout),
		it.IsEvening,
		it.IsGentle,
		it.IsRecurring,
		it.Frequency,
		formatWeekdays(it.Weekdays),
		recurrenceEnd,
		parentID,
		it.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting item %q: %w", it.Title, err)
	}
	return nil
}

// GetItem retrieves an item by ID.
func (s *SQLite) GetItem(ctx context.Context, id string) (*schedule.Item, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", schedule.ErrItemNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying item: %w", err)
	}
	return it, nil
}

// ListItemsByDateRange returns all items whose day bucket is within the range (inclusive).
func (s *SQLite) ListItemsByDateRange(ctx context.Context, start, end time.Time) ([]*schedule.Item, error) {
	query := selectColumns + `
		WHERE scheduled_date >= ? AND scheduled_date <= ?
		ORDER BY scheduled_date, start_time
	`

	return s.queryItems(ctx, query, start.Format(dateLayout), end.Format(dateLayout))
}

// ListAllItems returns every stored item.
func (s *SQLite) ListAllItems(ctx context.Context) ([]*schedule.Item, error) {
	return s.queryItems(ctx, selectColumns+` ORDER BY scheduled_date, start_time`)
}

func (s *SQLite) queryItems(ctx context.Context, query string, args ...any) ([]*schedule.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*schedule.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	return items, nil
}

// SetCompleted marks an item as done or not done.
func (s *SQLite) SetCompleted(ctx context.Context, id string, completed bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE items SET completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return fmt.Errorf("setting completion: %w", err)
	}
	return requireRow(result, id)
}

// DeleteItem removes an item.
func (s *SQLite) DeleteItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireRow(result, id)
}

// ApplyUpdates applies all updates in a single transaction. If any update
// targets a missing item nothing is written.
func (s *SQLite) ApplyUpdates(ctx context.Context, updates []schedule.ItemUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range updates {
		if u.Empty() {
			continue
		}

		var (
			sets []string
			args []any
		)
		if u.StartTime != nil {
			sets = append(sets, "start_time = ?")
			args = append(args, u.StartTime.Format(time.RFC3339))
		}
		if u.ScheduledDate != nil {
			sets = append(sets, "scheduled_date = ?")
			args = append(args, u.ScheduledDate.Format(dateLayout))
		}
		if u.DurationMinutes != nil {
			sets = append(sets, "duration_minutes = ?")
			args = append(args, *u.DurationMinutes)
		}
		args = append(args, u.ID)

		query := `UPDATE items SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("updating item %s: %w", u.ID, err)
		}
		if err := requireRow(result, u.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func requireRow(result sql.Result, id string) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", schedule.ErrItemNotFound, id)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*schedule.Item, error) {
	var (
		it            schedule.Item
		startTime     string
		scheduledDate string
		weekdays      string
		createdAt     string
		recurrenceEnd sql.NullString
		parentID      sql.NullString
	)

	err := row.Scan(
		&it.ID,
		&it.Title,
		&it.Category,
		&startTime,
		&it.DurationMinutes,
		&it.MinimumDurationMinutes,
		&it.IsCompleted,
		&scheduledDate,
		&it.IsEvening,
		&it.IsGentle,
		&it.IsRecurring,
		&it.Frequency,
		&weekdays,
		&recurrenceEnd,
		&parentID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	start, err := time.Parse(time.RFC3339, startTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	it.StartTime = start.Local()

	it.ScheduledDate, err = parseDate(scheduledDate)
	if err != nil {
		return nil, fmt.Errorf("parsing scheduled date: %w", err)
	}

	it.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	it.Weekdays, err = parseWeekdays(weekdays)
	if err != nil {
		return nil, err
	}

	if recurrenceEnd.Valid {
		end, err := parseDate(recurrenceEnd.String)
		if err != nil {
			return nil, fmt.Errorf("parsing recurrence end: %w", err)
		}
		it.RecurrenceEnd = &end
	}

	if parentID.Valid {
		it.ParentID = parentID.String
	}

	return &it, nil
}

// formatWeekdays stores weekdays as a comma-separated list of numbers, Sunday = 0.
func formatWeekdays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func parseWeekdays(s string) ([]time.Weekday, error) {
	if s == "" {
		return nil, nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("parsing weekdays %q", s)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}

// parseDate parses a date string in various formats SQLite might return.
// Date-only values (midnight) are parsed in local timezone to match time.Now() behavior.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}

	// SQLite returns DATE columns as "2006-01-02T00:00:00Z"; treat them as local midnight.
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation(dateLayout, s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
