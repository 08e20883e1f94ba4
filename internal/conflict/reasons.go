package conflict

const (
	reasonBothFixed       = "Both items are fixed commitments; choose which one gives way"
	reasonNewFixed        = "The new item is a fixed commitment; the other item can move"
	reasonNewStronger     = "The new item has higher priority; the other item can move"
	reasonNewWeaker       = "The existing item has higher priority; the new item can move"
	reasonEqual           = "Both items have the same priority; choose which one moves"
	reasonDailyHabit      = "Daily habits keep their slot; shorten it or keep both"
	reasonDailyHabitOther = "The daily habit keeps its slot; move the other item, shorten the habit or keep both"
	reasonWeeklyHabit     = "Moved to a free day in the same week"
	reasonWeeklyNoRoom    = "No free day left this week; choose which one moves"
)
