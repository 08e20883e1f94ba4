package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

// Color definitions for consistent styling across the UI.
var (
	// Non-negotiables: bold red, they never move on their own
	colorFixed = color.New(color.FgRed, color.Bold)

	// Habits: cyan
	colorHabit = color.New(color.FgCyan)

	// Flexible tasks: plain
	colorFlexible = color.New(color.FgWhite)

	// Optional goals: dim
	colorOptional = color.New(color.FgWhite, color.Faint)

	// Reasons and suggestions: yellow to make them pop
	colorInsight = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Positive status: green
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// applyColorMode sets color output from the "auto", "always" or "never" setting.
func applyColorMode(mode string) {
	switch mode {
	case "always":
		EnableColor()
	case "never":
		DisableColor()
	default:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			DisableColor()
		}
	}
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatCategory colors text by item category.
func formatCategory(c schedule.Category, s string) string {
	switch c {
	case schedule.CategoryNonNegotiable:
		return colorFixed.Sprint(s)
	case schedule.CategoryIdentityHabit:
		return colorHabit.Sprint(s)
	case schedule.CategoryFlexibleTask:
		return colorFlexible.Sprint(s)
	default:
		return colorOptional.Sprint(s)
	}
}

func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
