// Package reshuffle analyzes one day of schedule items and proposes changes
// when items overlap, overflow the day, or have fallen into the past.
// The engine never applies anything; callers persist the changes they accept.
package reshuffle

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/javiermolinar/dayflow/internal/conflict"
	"github.com/javiermolinar/dayflow/internal/schedule"
	"github.com/javiermolinar/dayflow/internal/scheduler"
)

// Result is the outcome of one analysis.
type Result struct {
	Date     time.Time
	Now      time.Time
	OnTrack  bool
	Changes  []Change
	Overflow OverflowAnalysis
	Evening  EveningDecision
	Summary  Summary
}

// Change returns the change proposed for an item.
func (r Result) Change(id string) (Change, bool) {
	for _, c := range r.Changes {
		if c.ItemID == id {
			return c, true
		}
	}
	return Change{}, false
}

// Decisions returns the changes that wait on the user.
func (r Result) Decisions() []Change {
	var out []Change
	for _, c := range r.Changes {
		if c.Action.Kind == ActionRequiresUserDecision {
			out = append(out, c)
		}
	}
	return out
}

// Updates returns the storage updates for every change that can be applied
// without asking the user.
func (r Result) Updates() []schedule.ItemUpdate {
	var out []schedule.ItemUpdate
	for _, c := range r.Changes {
		if u, ok := c.Update(); ok {
			out = append(out, u)
		}
	}
	return out
}

// Engine runs the reshuffle pipeline.
type Engine struct {
	sched    *scheduler.Scheduler
	resolver *conflict.Resolver
	minSlack float64
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the slot finder. It also defines the day bounds.
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sched = s
		}
	}
}

// WithMinEveningSlack sets the share of the evening that should stay free.
func WithMinEveningSlack(share float64) Option {
	return func(e *Engine) {
		if share >= 0 && share <= 1 {
			e.minSlack = share
		}
	}
}

// WithLogger sets the logger for analysis diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine with default bounds and no sleep blocking
// unless options say otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		minSlack: DefaultMinEveningSlack,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sched == nil {
		e.sched = scheduler.New(schedule.DefaultBounds(), scheduler.WithLogger(e.logger))
	}
	e.resolver = conflict.NewResolver(e.sched, e.logger)
	return e
}

// Analyze proposes changes for the items bucketed on date. items should hold
// every known item so that searches can see neighboring days. now is the
// current time; it is never read from the system clock.
func (e *Engine) Analyze(items []*schedule.Item, date, now time.Time) Result {
	ctx := NewContext(items, date, now, e.sched.Bounds())
	e.logger.Debug("analyze",
		"date", ctx.Date.Format("2006-01-02"),
		"incomplete", len(ctx.Incomplete),
		"needed", ctx.MinutesNeeded,
		"available", ctx.MinutesAvailable,
	)

	overflow := DetectOverflow(ctx)
	evening := AnalyzeEvening(ctx, overflow, e.minSlack)
	result := Result{Date: ctx.Date, Now: now, Overflow: overflow, Evening: evening}

	if !needsReshuffle(ctx) {
		result.OnTrack = true
		for _, it := range ctx.Incomplete {
			result.Changes = append(result.Changes, newChange(it, Protected(), reasonOnTrack))
		}
		result.Summary = Summarize(result)
		return result
	}

	p := pass{ctx: ctx, overflow: overflow, sched: e.sched}
	claimed := Ledger{}
	for _, it := range ctx.Incomplete {
		var c Change
		switch {
		case evening.RequiresConsent && evening.Affects(it.ID):
			c = newChange(it, RequiresUserDecision(
				DecisionOption{Kind: OptionKeepInEvening, Label: "Keep it in the evening"},
				p.daytimeOption(it, claimed),
				p.tomorrowOption(it),
			), reasonEveningChoice)
		case ctx.IsPast(it):
			c, claimed = p.fixMyDay(it, claimed)
		default:
			c, claimed = p.process(it, claimed)
		}
		c, claimed = p.keepAhead(it, c, claimed)

		e.logger.Debug("change",
			"item", it.ID,
			"category", string(it.Category),
			"action", string(c.Action.Kind),
		)
		result.Changes = append(result.Changes, c)
	}

	result.Summary = Summarize(result)
	e.logger.Info("analysis complete",
		"date", ctx.Date.Format("2006-01-02"),
		"strategy", string(overflow.Strategy),
		"evening_case", evening.Case,
		"changes", len(result.Changes),
	)
	return result
}

// needsReshuffle reports whether the day needs any adjustment at all.
func needsReshuffle(ctx *Context) bool {
	if len(ctx.Incomplete) == 0 {
		return false
	}
	if ctx.HasOverflow() {
		return true
	}
	for i, a := range ctx.Incomplete {
		for _, b := range ctx.Incomplete[i+1:] {
			if a.Overlaps(b) {
				return true
			}
		}
	}
	if ctx.IsToday() {
		for _, it := range ctx.Incomplete {
			if it.StartTime.Before(ctx.Now) {
				return true
			}
		}
	}
	return false
}

// keepAhead re-searches any placement that would start before now. Changes
// that still cannot be placed fall back to the most conservative action of
// their category.
func (p pass) keepAhead(it *schedule.Item, c Change, claimed Ledger) (Change, Ledger) {
	if !c.Action.Places() || !c.Action.NewStart.Before(p.ctx.Now) {
		return c, claimed
	}

	minutes := it.DurationMinutes
	if c.Action.Kind == ActionMovedAndResized {
		minutes = c.Action.NewDuration
	}
	start, ok := p.sched.FindNextAvailableSlot(p.query(it, p.ctx.Now, minutes, claimed))
	if !ok {
		if it.Category.CanDefer() {
			return newChange(it, Pooled(), reasonPooled), claimed
		}
		return newChange(it, Protected(), reasonKept), claimed
	}

	a := c.Action
	a.NewStart = start
	if a.Kind == ActionDeferred {
		a.NewDate = schedule.StartOfDay(start)
	}
	return newChange(it, a, reasonAdjustedForNow), claimed.Claim(start, minutes)
}

func (p pass) daytimeOption(it *schedule.Item, claimed Ledger) DecisionOption {
	opt := DecisionOption{Kind: OptionMoveToNextSlot, Label: "Move it into the day"}
	if start, ok := p.sched.FindNextAvailableSlot(p.query(it, p.dayStart(), it.DurationMinutes, claimed)); ok {
		opt.Start = start
		opt.Label = fmt.Sprintf("Move it to %s", start.Format("Mon 15:04"))
	}
	return opt
}

// HasIssues reports whether the day needs a reshuffle.
func (e *Engine) HasIssues(items []*schedule.Item, date, now time.Time) bool {
	return needsReshuffle(NewContext(items, date, now, e.sched.Bounds()))
}

// StatusMessage returns a one-line description of the day.
func (e *Engine) StatusMessage(items []*schedule.Item, date, now time.Time) string {
	return approved(statusMessage(NewContext(items, date, now, e.sched.Bounds())))
}

// SuggestResolution proposes how to settle overlaps between a new or edited
// item and the items it collides with.
func (e *Engine) SuggestResolution(newItem *schedule.Item, conflicting, all []*schedule.Item, now time.Time) []conflict.Resolution {
	return e.resolver.SuggestResolution(newItem, conflicting, all, now)
}
