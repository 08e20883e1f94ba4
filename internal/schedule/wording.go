package schedule

import "strings"

// ForbiddenWords lists phrasing that user-facing text must never contain.
// Matching is case-insensitive and by substring.
var ForbiddenWords = []string{
	"missed",
	"skipped",
	"failed",
	"behind schedule",
	"overdue",
	"late",
	"incomplete",
}

// UsesForbiddenWording reports whether s contains any forbidden phrasing.
func UsesForbiddenWording(s string) bool {
	lower := strings.ToLower(s)
	for _, w := range ForbiddenWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
