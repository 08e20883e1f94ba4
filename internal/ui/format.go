package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gosuri/uitable"

	"github.com/javiermolinar/dayflow/internal/conflict"
	"github.com/javiermolinar/dayflow/internal/reshuffle"
	"github.com/javiermolinar/dayflow/internal/schedule"
)

// maxTitleWidth caps titles in tables on narrow terminals.
const maxTitleWidth = 40

var summaryBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("8")).
	Padding(0, 1)

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// categoryTag returns a short bracketed tag for a category.
func categoryTag(c schedule.Category) string {
	var tag string
	switch c {
	case schedule.CategoryNonNegotiable:
		tag = "[N]"
	case schedule.CategoryIdentityHabit:
		tag = "[H]"
	case schedule.CategoryFlexibleTask:
		tag = "[F]"
	default:
		tag = "[O]"
	}
	return formatCategory(c, tag)
}

// statusSymbol returns the completion indicator for an item.
func statusSymbol(it *schedule.Item) string {
	if it.IsCompleted {
		return formatStats("✓")
	}
	return "○"
}

// shortID returns the first block of a UUID, enough to type on the command line.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func truncate(s string, width int) string {
	if width <= 3 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

// titleWidth leaves room for the fixed columns of an item table.
func titleWidth() int {
	w := termWidth() - 40
	if w < 12 {
		return 12
	}
	if w > maxTitleWidth {
		return maxTitleWidth
	}
	return w
}

// itemTable renders items as aligned rows.
func itemTable(items []*schedule.Item) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	width := titleWidth()
	for _, it := range items {
		var flags []string
		if it.IsEvening {
			flags = append(flags, "evening")
		}
		if it.IsGentle {
			flags = append(flags, "gentle")
		}
		if it.IsRecurring || it.ParentID != "" {
			flags = append(flags, "repeats")
		}
		tbl.AddRow(
			statusSymbol(it),
			formatMuted(shortID(it.ID)),
			fmt.Sprintf("%s-%s", it.StartTime.Format("15:04"), it.EndTime().Format("15:04")),
			categoryTag(it.Category),
			truncate(it.Title, width),
			formatMuted(FormatDuration(it.DurationMinutes)),
			formatMuted(strings.Join(flags, ",")),
		)
	}
	return tbl
}

// printDays prints items grouped by day bucket.
func printDays(w io.Writer, items []*schedule.Item) {
	var (
		current string
		day     []*schedule.Item
	)
	flush := func() {
		if len(day) == 0 {
			return
		}
		_, _ = fmt.Fprintf(w, "=== %s ===\n", formatHeader(current))
		_, _ = fmt.Fprintln(w, itemTable(day))
		day = nil
	}
	for _, it := range items {
		key := it.ScheduledDate.Format("Mon 2006-01-02")
		if key != current {
			flush()
			current = key
		}
		day = append(day, it)
	}
	flush()
}

// printResult prints a reshuffle proposal.
func printResult(w io.Writer, r reshuffle.Result) {
	var box strings.Builder
	box.WriteString(formatHeader(r.Summary.Headline))
	for _, d := range r.Summary.Details {
		box.WriteString("\n" + d)
	}
	_, _ = fmt.Fprintln(w, summaryBox.Render(box.String()))

	var rows []reshuffle.Change
	for _, c := range r.Changes {
		if c.Action.Kind != reshuffle.ActionProtected {
			rows = append(rows, c)
		}
	}
	if len(rows) == 0 {
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = uint(titleWidth())
	width := titleWidth()
	for _, c := range rows {
		tbl.AddRow(
			formatMuted(shortID(c.ItemID)),
			categoryTag(c.Category),
			truncate(c.Title, width),
			c.Action.String(),
			formatInsight(c.Reason),
		)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, tbl)

	for _, c := range r.Decisions() {
		_, _ = fmt.Fprintf(w, "\n%s %s\n", formatHeader("Your call:"), truncate(c.Title, width))
		for i, opt := range c.Action.Options {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, opt.Label)
		}
	}
}

// printResolutions prints conflict suggestions for a new or edited item.
func printResolutions(w io.Writer, resolutions []conflict.Resolution) {
	for _, res := range resolutions {
		_, _ = fmt.Fprintf(w, "\n%s overlaps %s %s\n",
			formatHeader(res.New.Title), categoryTag(res.Conflicting.Category), res.Conflicting.Title)
		_, _ = fmt.Fprintf(w, "  %s\n", formatInsight(res.Reason))

		s := res.Suggestion
		switch s.Kind {
		case conflict.MoveConflicting:
			_, _ = fmt.Fprintf(w, "  Move %s to: %s\n", res.Conflicting.Title, formatSlots(s.ConflictingSlots))
		case conflict.MoveNew:
			_, _ = fmt.Fprintf(w, "  Move %s to: %s\n", res.New.Title, formatSlots(s.NewSlots))
		default:
			if s.CompressTo > 0 {
				shorten := res.Conflicting
				if s.CompressID == res.New.ID {
					shorten = res.New
				}
				_, _ = fmt.Fprintf(w, "  Shorten %s to %s\n", shorten.Title, FormatDuration(s.CompressTo))
			}
			if len(s.ConflictingSlots) > 0 {
				_, _ = fmt.Fprintf(w, "  Or move %s to: %s\n", res.Conflicting.Title, formatSlots(s.ConflictingSlots))
			}
			if len(s.NewSlots) > 0 {
				_, _ = fmt.Fprintf(w, "  Or move %s to: %s\n", res.New.Title, formatSlots(s.NewSlots))
			}
			_, _ = fmt.Fprintln(w, "  Or keep both as they are")
		}
	}
}

func formatSlots(slots []time.Time) string {
	if len(slots) == 0 {
		return formatMuted("no free slot found")
	}
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = s.Format("Mon 15:04")
	}
	return strings.Join(parts, ", ")
}
