package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/roomlylabs/roomly/internal/money"
)

// OverrideKind is a closed union: every consumer must switch exhaustively
// over these two values and reject anything else.
type OverrideKind string

const (
	OverrideKindDate OverrideKind = "date" // absolute calendar range
	OverrideKindDay  OverrideKind = "day"  // recurring weekly window
)

const minutesPerWeek = 7 * 24 * 60

// DateRule is an absolute half-open range [StartsAt, EndsAt).
type DateRule struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func (r DateRule) Validate() error {
	if !r.StartsAt.Before(r.EndsAt) {
		return ErrInvalidWindow
	}
	return nil
}

// SpanMinutes is the absolute length of the rule, used for precedence.
func (r DateRule) SpanMinutes() int64 {
	return int64(r.EndsAt.Sub(r.StartsAt) / time.Minute)
}

// DayRule is a recurring weekly window from (StartDay, StartMinute) to
// (EndDay, EndMinute), half-open, possibly wrapping past midnight or past
// the end of the week. Days follow time.Weekday (Sunday = 0); minutes are
// minutes after UTC midnight. Matching is done on the UTC weekly clock.
type DayRule struct {
	StartDay    time.Weekday `json:"start_day"`
	StartMinute int          `json:"start_minute"`
	EndDay      time.Weekday `json:"end_day"`
	EndMinute   int          `json:"end_minute"`
}

func (r DayRule) Validate() error {
	if r.StartDay < time.Sunday || r.StartDay > time.Saturday ||
		r.EndDay < time.Sunday || r.EndDay > time.Saturday {
		return ErrInvalidWindow
	}
	if r.StartMinute < 0 || r.StartMinute >= 24*60 ||
		r.EndMinute < 0 || r.EndMinute >= 24*60 {
		return ErrInvalidWindow
	}
	if r.SpanMinutes() == 0 {
		return ErrInvalidWindow
	}
	return nil
}

func (r DayRule) startOfWeekMinute() int64 {
	return int64(r.StartDay)*24*60 + int64(r.StartMinute)
}

// SpanMinutes is the weekly length of the rule. A start after the end wraps
// into the following week rather than being empty.
func (r DayRule) SpanMinutes() int64 {
	start := r.startOfWeekMinute()
	end := int64(r.EndDay)*24*60 + int64(r.EndMinute)
	return ((end - start) + minutesPerWeek) % minutesPerWeek
}

// TableOverlay is the portion of a rate table an override redefines. Nil or
// zero fields inherit from the room's default table.
type TableOverlay struct {
	Tiers                   []HourlyTier `json:"tiers,omitempty"`
	IncludedGuests          *int         `json:"included_guests,omitempty"`
	ExtraGuestChargePerHour *money.Money `json:"extra_guest_charge_per_hour,omitempty"`
}

// PricingOverride is a room-specific pricing exception. Exactly one of Date
// or Day is set, matching Kind.
type PricingOverride struct {
	ID      snowflake.ID `json:"id"`
	RoomID  snowflake.ID `json:"room_id"`
	Name    string       `json:"name"`
	Kind    OverrideKind `json:"kind"`
	Date    *DateRule    `json:"date,omitempty"`
	Day     *DayRule     `json:"day,omitempty"`
	Overlay TableOverlay `json:"overlay"`
}

func (o PricingOverride) Validate() error {
	switch o.Kind {
	case OverrideKindDate:
		if o.Date == nil || o.Day != nil {
			return ErrInvalidKind
		}
		if err := o.Date.Validate(); err != nil {
			return err
		}
	case OverrideKindDay:
		if o.Day == nil || o.Date != nil {
			return ErrInvalidKind
		}
		if err := o.Day.Validate(); err != nil {
			return err
		}
	default:
		return ErrInvalidKind
	}
	if len(o.Overlay.Tiers) > 0 {
		probe := RateTable{Tiers: o.Overlay.Tiers, IncludedGuests: 1}
		if err := probe.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SpanMinutes is the rule's length for same-kind precedence comparison.
func (o PricingOverride) SpanMinutes() int64 {
	switch o.Kind {
	case OverrideKindDate:
		return o.Date.SpanMinutes()
	case OverrideKindDay:
		return o.Day.SpanMinutes()
	}
	return 0
}

// EffectiveTable merges the overlay onto the room's default table.
func (o PricingOverride) EffectiveTable(def RateTable) RateTable {
	out := def
	if len(o.Overlay.Tiers) > 0 {
		out.Tiers = o.Overlay.Tiers
	}
	if o.Overlay.IncludedGuests != nil {
		out.IncludedGuests = *o.Overlay.IncludedGuests
	}
	if o.Overlay.ExtraGuestChargePerHour != nil {
		out.ExtraGuestChargePerHour = *o.Overlay.ExtraGuestChargePerHour
	}
	return out
}
