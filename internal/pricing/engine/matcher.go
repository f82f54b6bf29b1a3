package engine

import (
	"time"

	"github.com/roomlylabs/roomly/internal/pricing/domain"
)

const minutesPerWeek = 7 * 24 * 60

type windowRelation int

const (
	relationNone windowRelation = iota
	relationContains
	relationPartial
)

// ResolveOverride selects at most one override whose rule fully contains the
// requested window.
//
// Any override the window overlaps without full containment aborts with
// SpanningWindowError: a stay must never be priced under two regimes, and it
// is not silently split. Among full matches, date rules outrank day rules;
// within a kind the narrower span wins. Only a tie at the winning precedence
// level is a defect: lower-ranked candidates may tie among themselves freely,
// so the result never depends on the order overrides were authored in.
func ResolveOverride(overrides []domain.PricingOverride, w domain.TimeWindow) (*domain.PricingOverride, error) {
	var best, tiedWithBest *domain.PricingOverride

	for i := range overrides {
		o := &overrides[i]
		switch relate(o, w) {
		case relationNone:
			continue
		case relationPartial:
			return nil, &domain.SpanningWindowError{OverrideID: o.ID, OverrideName: o.Name}
		case relationContains:
			switch cmp := comparePrecedence(o, best); {
			case cmp > 0:
				best, tiedWithBest = o, nil
			case cmp == 0:
				tiedWithBest = o
			}
		}
	}
	if tiedWithBest != nil {
		return nil, &domain.AmbiguousOverrideError{FirstID: best.ID, SecondID: tiedWithBest.ID}
	}
	return best, nil
}

// comparePrecedence returns >0 when candidate outranks current, <0 when it
// is outranked, 0 on an exact tie. A nil current always loses.
func comparePrecedence(candidate, current *domain.PricingOverride) int {
	if current == nil {
		return 1
	}
	if candidate.Kind != current.Kind {
		// specific beats recurring
		if candidate.Kind == domain.OverrideKindDate {
			return 1
		}
		return -1
	}
	switch cs, bs := candidate.SpanMinutes(), current.SpanMinutes(); {
	case cs < bs:
		return 1
	case cs > bs:
		return -1
	}
	return 0
}

func relate(o *domain.PricingOverride, w domain.TimeWindow) windowRelation {
	switch o.Kind {
	case domain.OverrideKindDate:
		return relateDate(*o.Date, w)
	case domain.OverrideKindDay:
		return relateDay(*o.Day, w)
	}
	return relationNone
}

func relateDate(r domain.DateRule, w domain.TimeWindow) windowRelation {
	overlaps := r.StartsAt.Before(w.EndsAt) && w.StartsAt.Before(r.EndsAt)
	if !overlaps {
		return relationNone
	}
	if !r.StartsAt.After(w.StartsAt) && !r.EndsAt.Before(w.EndsAt) {
		return relationContains
	}
	return relationPartial
}

// relateDay positions the window relative to the weekly rule occurrence
// starting at offset 0. The rule occupies [0, span) and repeats every week,
// so a window wrapping past the week boundary lands in the next occurrence
// without double-counting.
func relateDay(r domain.DayRule, w domain.TimeWindow) windowRelation {
	span := r.SpanMinutes()
	dur := w.RawMinutes()
	if dur >= minutesPerWeek {
		// longer than one full cycle: necessarily crosses a boundary
		return relationPartial
	}

	ruleStart := int64(r.StartDay)*24*60 + int64(r.StartMinute)
	p := (minuteOfWeek(w.StartsAt) - ruleStart + minutesPerWeek) % minutesPerWeek
	overlaps := p < span || p+dur > minutesPerWeek
	if !overlaps {
		return relationNone
	}
	if p+dur <= span {
		return relationContains
	}
	return relationPartial
}

// minuteOfWeek positions an instant on the UTC weekly clock, so the same
// instant matches the same day rules regardless of the offset it arrived in.
func minuteOfWeek(t time.Time) int64 {
	t = t.UTC()
	return int64(t.Weekday())*24*60 + int64(t.Hour())*60 + int64(t.Minute())
}
