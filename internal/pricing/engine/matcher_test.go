package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomlylabs/roomly/internal/pricing/domain"
)

func dateOverride(id int64, name string, start, end time.Time) domain.PricingOverride {
	return domain.PricingOverride{
		ID:   snowID(id),
		Name: name,
		Kind: domain.OverrideKindDate,
		Date: &domain.DateRule{StartsAt: start, EndsAt: end},
	}
}

func dayOverride(id int64, name string, startDay time.Weekday, startMin int, endDay time.Weekday, endMin int) domain.PricingOverride {
	return domain.PricingOverride{
		ID:   snowID(id),
		Name: name,
		Kind: domain.OverrideKindDay,
		Day: &domain.DayRule{
			StartDay: startDay, StartMinute: startMin,
			EndDay: endDay, EndMinute: endMin,
		},
	}
}

func window(start, end time.Time) domain.TimeWindow {
	return domain.TimeWindow{StartsAt: start, EndsAt: end}
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestResolveNoOverrides(t *testing.T) {
	got, err := ResolveOverride(nil, window(at(2025, 12, 25, 10, 0), at(2025, 12, 25, 12, 0)))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveDateContainment(t *testing.T) {
	xmas := dateOverride(1, "christmas", at(2025, 12, 24, 0, 0), at(2025, 12, 27, 0, 0))

	got, err := ResolveOverride([]domain.PricingOverride{xmas},
		window(at(2025, 12, 25, 14, 0), at(2025, 12, 25, 18, 0)))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snowID(1), got.ID)

	// fully outside
	got, err = ResolveOverride([]domain.PricingOverride{xmas},
		window(at(2025, 12, 28, 14, 0), at(2025, 12, 28, 18, 0)))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveSpanningWindowRejected(t *testing.T) {
	// override covers Dec 24 18:00 - Dec 25 06:00
	night := dateOverride(7, "xmas-eve-night", at(2025, 12, 24, 18, 0), at(2025, 12, 25, 6, 0))

	// request exits the override mid-stay
	_, err := ResolveOverride([]domain.PricingOverride{night},
		window(at(2025, 12, 24, 20, 0), at(2025, 12, 25, 8, 0)))

	var spanning *domain.SpanningWindowError
	require.ErrorAs(t, err, &spanning)
	assert.Equal(t, snowID(7), spanning.OverrideID)
	assert.Equal(t, "xmas-eve-night", spanning.OverrideName)
}

func TestResolveDateOutranksDay(t *testing.T) {
	day := dayOverride(2, "weekend", time.Friday, 18*60, time.Sunday, 23*60)
	date := dateOverride(3, "new-year", at(2025, 12, 31, 0, 0), at(2026, 1, 2, 0, 0))

	// Jan 1 2026 is a Thursday; use a window both rules contain:
	// Fri Jan 2 would miss the date rule, so pin the date rule wider.
	date = dateOverride(3, "new-year", at(2025, 12, 29, 0, 0), at(2026, 1, 5, 0, 0))
	w := window(at(2026, 1, 2, 19, 0), at(2026, 1, 2, 22, 0)) // Friday evening

	for _, overrides := range [][]domain.PricingOverride{
		{day, date},
		{date, day},
	} {
		got, err := ResolveOverride(overrides, w)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, snowID(3), got.ID, "date rule must win regardless of order")
	}
}

func TestResolveNarrowerSpanWins(t *testing.T) {
	wide := dateOverride(4, "december", at(2025, 12, 1, 0, 0), at(2026, 1, 1, 0, 0))
	narrow := dateOverride(5, "christmas", at(2025, 12, 24, 0, 0), at(2025, 12, 27, 0, 0))

	got, err := ResolveOverride([]domain.PricingOverride{wide, narrow},
		window(at(2025, 12, 25, 10, 0), at(2025, 12, 25, 14, 0)))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snowID(5), got.ID)
}

func TestResolveIdenticalSpanIsAmbiguous(t *testing.T) {
	a := dateOverride(8, "promo-a", at(2025, 12, 20, 0, 0), at(2025, 12, 27, 0, 0))
	b := dateOverride(9, "promo-b", at(2025, 12, 21, 0, 0), at(2025, 12, 28, 0, 0))

	_, err := ResolveOverride([]domain.PricingOverride{a, b},
		window(at(2025, 12, 25, 10, 0), at(2025, 12, 25, 14, 0)))

	var ambiguous *domain.AmbiguousOverrideError
	require.ErrorAs(t, err, &ambiguous)
}

func TestResolveTiedDayRulesDoNotBlockDateRule(t *testing.T) {
	// two day rules with identical spans both contain the window; the date
	// rule outranks them, so their tie must not surface as ambiguity
	dayA := dayOverride(1, "friday-evening", time.Friday, 18*60, time.Friday, 23*60)
	dayB := dayOverride(2, "friday-late", time.Friday, 17*60, time.Friday, 22*60)
	date := dateOverride(3, "new-year-week", at(2025, 12, 29, 0, 0), at(2026, 1, 5, 0, 0))

	w := window(at(2026, 1, 2, 19, 0), at(2026, 1, 2, 22, 0)) // Friday evening

	for _, overrides := range [][]domain.PricingOverride{
		{dayA, dayB, date},
		{date, dayA, dayB},
		{dayA, date, dayB},
	} {
		got, err := ResolveOverride(overrides, w)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, snowID(3), got.ID, "outranked ties must not matter")
	}

	// without the date rule the tie is a real authoring defect
	_, err := ResolveOverride([]domain.PricingOverride{dayA, dayB}, w)
	var ambiguous *domain.AmbiguousOverrideError
	require.ErrorAs(t, err, &ambiguous)
}

func TestResolveDayRuleIgnoresRequestOffset(t *testing.T) {
	late := dayOverride(6, "late-night", time.Saturday, 22*60, time.Sunday, 2*60)

	// Sat Dec 20 2025 23:00 UTC expressed as Sun Dec 21 02:00 in UTC+3
	plus3 := time.FixedZone("UTC+3", 3*3600)
	utcWindow := window(at(2025, 12, 20, 23, 0), at(2025, 12, 21, 1, 0))
	offsetWindow := window(
		time.Date(2025, 12, 21, 2, 0, 0, 0, plus3),
		time.Date(2025, 12, 21, 4, 0, 0, 0, plus3),
	)

	fromUTC, err := ResolveOverride([]domain.PricingOverride{late}, utcWindow)
	require.NoError(t, err)
	require.NotNil(t, fromUTC)

	fromOffset, err := ResolveOverride([]domain.PricingOverride{late}, offsetWindow)
	require.NoError(t, err)
	require.NotNil(t, fromOffset, "same instant must match the same rules")
	assert.Equal(t, fromUTC.ID, fromOffset.ID)
}

func TestResolveDayRuleMidnightWrap(t *testing.T) {
	// Saturday 22:00 through Sunday 02:00 wraps past the week boundary
	late := dayOverride(6, "late-night", time.Saturday, 22*60, time.Sunday, 2*60)

	// Dec 20 2025 is a Saturday
	got, err := ResolveOverride([]domain.PricingOverride{late},
		window(at(2025, 12, 20, 23, 0), at(2025, 12, 21, 1, 0)))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snowID(6), got.ID)

	// exits the rule at Sunday 02:00
	_, err = ResolveOverride([]domain.PricingOverride{late},
		window(at(2025, 12, 21, 1, 0), at(2025, 12, 21, 3, 0)))
	var spanning *domain.SpanningWindowError
	require.ErrorAs(t, err, &spanning)

	// a Tuesday window never touches it
	got, err = ResolveOverride([]domain.PricingOverride{late},
		window(at(2025, 12, 23, 1, 0), at(2025, 12, 23, 3, 0)))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDayRuleSpanMinutes(t *testing.T) {
	r := domain.DayRule{StartDay: time.Friday, StartMinute: 18 * 60, EndDay: time.Sunday, EndMinute: 23 * 60}
	assert.Equal(t, int64(2*24*60+5*60), r.SpanMinutes())

	wrap := domain.DayRule{StartDay: time.Saturday, StartMinute: 22 * 60, EndDay: time.Sunday, EndMinute: 2 * 60}
	assert.Equal(t, int64(4*60), wrap.SpanMinutes())
}
