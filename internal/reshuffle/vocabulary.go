package reshuffle

import "github.com/javiermolinar/dayflow/internal/schedule"

// Reasons attached to changes. Wording stays neutral: nothing here should
// read as blame for how the day went.
const (
	reasonOnTrack          = "On track"
	reasonKept             = "Stays as planned"
	reasonRoomAlreadyMade  = "Other adjustments already make room"
	reasonFixedOverlap     = "Overlaps another fixed commitment; your call"
	reasonFixedPassed      = "Start time has passed; mark it done or move it to tomorrow"
	reasonHabitShortened   = "Shortened to make room, habit kept"
	reasonHabitWeekMove    = "Moved to another day this week and shortened"
	reasonHabitNewSlot     = "Moved to a free slot today"
	reasonHabitNoRoom      = "Kept in place; no other free slot today"
	reasonHabitTomorrow    = "Moved to tomorrow's first free slot"
	reasonHabitCovered     = "Already planned for tomorrow; kept as is"
	reasonFlexibleTomorrow = "Moved to tomorrow to free up today"
	reasonFlexibleNearby   = "Moved to a nearby free slot"
	reasonFlexibleFirst    = "Moved to the first free slot today"
	reasonPooled           = "Waiting in the pool for the next free opening"
	reasonOptionalTomorrow = "Moved to tomorrow, no pressure"
	reasonFreshSlot        = "Given a fresh slot today"
	reasonFreshShorter     = "Given a fresh, shorter slot today"
	reasonFreshTomorrow    = "Given a fresh slot tomorrow"
	reasonEveningChoice    = "Touches your evening wind-down; your call"
	reasonAdjustedForNow   = "Shifted to a time that is still ahead"

	neutralReason = "Adjusted to fit your day"
)

// approved returns s, or a neutral phrase if s uses forbidden wording.
func approved(s string) string {
	if schedule.UsesForbiddenWording(s) {
		return neutralReason
	}
	return s
}
