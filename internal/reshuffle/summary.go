package reshuffle

import (
	"fmt"
	"strings"
)

// Summary is the human-readable account of a Result.
type Summary struct {
	Headline string
	Details  []string
	Counts   map[ActionKind]int
}

// actionPhrases orders and names the counted actions in a headline.
var actionPhrases = []struct {
	kind   ActionKind
	phrase string
}{
	{ActionMoved, "moved"},
	{ActionMovedAndResized, "moved and shortened"},
	{ActionResized, "shortened"},
	{ActionDeferred, "moved to another day"},
	{ActionPooled, "waiting for an opening"},
	{ActionRequiresUserDecision, "need your input"},
}

// Summarize describes the result without blaming language.
func Summarize(r Result) Summary {
	s := Summary{Counts: make(map[ActionKind]int)}
	for _, c := range r.Changes {
		s.Counts[c.Action.Kind]++
	}

	if r.OnTrack {
		s.Headline = "Your day is on track"
		if len(r.Changes) == 0 {
			s.Headline = "Nothing left to arrange"
		}
	} else {
		var parts []string
		for _, ap := range actionPhrases {
			if n := s.Counts[ap.kind]; n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, ap.phrase))
			}
		}
		if len(parts) == 0 {
			s.Headline = "Everything can stay where it is"
		} else {
			s.Headline = "Suggested adjustments: " + strings.Join(parts, ", ")
		}
	}

	if o := r.Overflow; o.OverflowMinutes > 0 {
		s.Details = append(s.Details, overflowDetail(o))
	}
	if r.Evening.Case > 0 {
		s.Details = append(s.Details, "Evening: "+r.Evening.Situation)
	}

	s.Headline = approved(s.Headline)
	for i, d := range s.Details {
		s.Details[i] = approved(d)
	}
	return s
}

func overflowDetail(o OverflowAnalysis) string {
	switch o.Strategy {
	case StrategyDeferOptionals:
		return fmt.Sprintf("%d min more than the day holds; %d optional goal(s) can wait for another day", o.OverflowMinutes, o.DeferCount)
	case StrategyCompressHabits:
		return fmt.Sprintf("%d min more than the day holds; habits shorten by %d min in total", o.OverflowMinutes, o.CompressMinutes)
	case StrategyDeferFlexible:
		return fmt.Sprintf("%d min more than the day holds; %d flexible task(s) move to tomorrow", o.OverflowMinutes, o.DeferCount)
	case StrategyFullDayDisruption:
		return fmt.Sprintf("%d min more than the day holds; the plan needs a bigger reset", o.OverflowMinutes)
	default:
		return fmt.Sprintf("%d min more than the day holds", o.OverflowMinutes)
	}
}

// statusMessage returns a one-line description of the day.
func statusMessage(ctx *Context) string {
	switch {
	case len(ctx.DayItems) == 0:
		return "Nothing planned yet"
	case len(ctx.Incomplete) == 0:
		return "Everything here is done"
	case !needsReshuffle(ctx):
		return fmt.Sprintf("On track: %d item(s) ahead", len(ctx.Incomplete))
	case ctx.HasOverflow():
		return fmt.Sprintf("%d min more planned than the time before evening", ctx.OverflowMinutes())
	}

	passed, overlapping := 0, 0
	for _, it := range ctx.Incomplete {
		if ctx.IsPast(it) {
			passed++
		}
		if len(ctx.Overlapping(it)) > 0 {
			overlapping++
		}
	}
	if overlapping > 0 {
		return fmt.Sprintf("%d overlapping item(s) to sort out", overlapping)
	}
	return fmt.Sprintf("%d item(s) ready for a fresh slot", passed)
}
