package reshuffle

import (
	"fmt"
	"time"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

// ActionKind tags a proposed change.
type ActionKind string

const (
	ActionProtected            ActionKind = "protected"
	ActionResized              ActionKind = "resized"
	ActionMoved                ActionKind = "moved"
	ActionMovedAndResized      ActionKind = "moved_and_resized"
	ActionDeferred             ActionKind = "deferred"
	ActionPooled               ActionKind = "pooled"
	ActionRequiresUserDecision ActionKind = "requires_user_decision"
)

// OptionKind identifies a choice offered to the user.
type OptionKind string

const (
	OptionKeepAndAdjustOther OptionKind = "keep_and_adjust_other"
	OptionMoveToNextSlot     OptionKind = "move_to_next_slot"
	OptionDeferToTomorrow    OptionKind = "defer_to_tomorrow"
	OptionMarkDone           OptionKind = "mark_done"
	OptionKeepInEvening      OptionKind = "keep_in_evening"
)

// DecisionOption is one choice of a RequiresUserDecision action.
// Start is set when the option carries a proposed time.
type DecisionOption struct {
	Kind  OptionKind
	Label string
	Start time.Time
}

// Action is the tagged payload of a Change. Only the fields relevant to Kind are set.
type Action struct {
	Kind        ActionKind
	NewStart    time.Time
	NewDuration int
	NewDate     time.Time
	Options     []DecisionOption
}

// Protected leaves the item as it is.
func Protected() Action { return Action{Kind: ActionProtected} }

// Resized shortens the item in place.
func Resized(minutes int) Action { return Action{Kind: ActionResized, NewDuration: minutes} }

// Moved gives the item a new start time.
func Moved(start time.Time) Action { return Action{Kind: ActionMoved, NewStart: start} }

// MovedAndResized gives the item a new start and a new duration.
func MovedAndResized(start time.Time, minutes int) Action {
	return Action{Kind: ActionMovedAndResized, NewStart: start, NewDuration: minutes}
}

// Deferred moves the item to another day.
func Deferred(start time.Time) Action {
	return Action{Kind: ActionDeferred, NewStart: start, NewDate: schedule.StartOfDay(start)}
}

// Pooled parks the item until a future opening appears.
func Pooled() Action { return Action{Kind: ActionPooled} }

// RequiresUserDecision asks the user to pick one of opts.
func RequiresUserDecision(opts ...DecisionOption) Action {
	return Action{Kind: ActionRequiresUserDecision, Options: opts}
}

// Places reports whether the action proposes a new start time.
func (a Action) Places() bool {
	switch a.Kind {
	case ActionMoved, ActionMovedAndResized, ActionDeferred:
		return true
	default:
		return false
	}
}

// String formats the action for CLI output.
func (a Action) String() string {
	switch a.Kind {
	case ActionResized:
		return fmt.Sprintf("resize to %dm", a.NewDuration)
	case ActionMoved:
		return "move to " + a.NewStart.Format("Mon 15:04")
	case ActionMovedAndResized:
		return fmt.Sprintf("move to %s for %dm", a.NewStart.Format("Mon 15:04"), a.NewDuration)
	case ActionDeferred:
		return "defer to " + a.NewStart.Format("Mon 2006-01-02 15:04")
	case ActionRequiresUserDecision:
		return fmt.Sprintf("decide (%d options)", len(a.Options))
	default:
		return string(a.Kind)
	}
}

// Change is a proposed mutation of one item. Changes are never applied by the engine.
type Change struct {
	ItemID   string
	Title    string
	Category schedule.Category
	Action   Action
	Reason   string
}

func newChange(it *schedule.Item, a Action, reason string) Change {
	return Change{
		ItemID:   it.ID,
		Title:    it.Title,
		Category: it.Category,
		Action:   a,
		Reason:   approved(reason),
	}
}

// Update maps the change to a storage update. It returns false for actions
// that change nothing on their own: protected, pooled and user decisions.
func (c Change) Update() (schedule.ItemUpdate, bool) {
	u := schedule.ItemUpdate{ID: c.ItemID}
	a := c.Action
	switch a.Kind {
	case ActionResized:
		u.DurationMinutes = &a.NewDuration
	case ActionMoved, ActionMovedAndResized, ActionDeferred:
		start := a.NewStart
		day := schedule.StartOfDay(start)
		u.StartTime = &start
		u.ScheduledDate = &day
		if a.Kind == ActionMovedAndResized {
			u.DurationMinutes = &a.NewDuration
		}
	default:
		return u, false
	}
	return u, true
}
