package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/roomlylabs/roomly/internal/money"
)

// ModifierKind is a closed union of the rule shapes the engine evaluates.
type ModifierKind string

const (
	ModifierKindDurationDiscount ModifierKind = "duration_discount"
	ModifierKindGuestDiscount    ModifierKind = "guest_discount"
	ModifierKindGuestSurcharge   ModifierKind = "guest_surcharge"
)

// ModifierRule is a discount or surcharge conditioned on duration or guest
// count. Exactly one of PercentBps or Amount carries the value; percentage
// rules always compute against the base price, never a running total.
type ModifierRule struct {
	ID     snowflake.ID `json:"id"`
	RoomID snowflake.ID `json:"room_id"`
	Kind   ModifierKind `json:"kind"`

	// duration_discount condition
	MinDurationMinutes int64 `json:"min_duration_minutes,omitempty"`

	// guest_discount / guest_surcharge condition; MaxGuests 0 = unbounded
	MinGuests int `json:"min_guests,omitempty"`
	MaxGuests int `json:"max_guests,omitempty"`

	PercentBps int64        `json:"percent_bps,omitempty"`
	Amount     *money.Money `json:"amount,omitempty"`
}

func (r ModifierRule) Validate() error {
	switch r.Kind {
	case ModifierKindDurationDiscount:
		if r.MinDurationMinutes <= 0 {
			return ErrInvalidRule
		}
	case ModifierKindGuestDiscount, ModifierKindGuestSurcharge:
		if r.MinGuests < 1 {
			return ErrInvalidRule
		}
		if r.MaxGuests != 0 && r.MaxGuests < r.MinGuests {
			return ErrInvalidRule
		}
	default:
		return ErrInvalidKind
	}

	hasPercent := r.PercentBps != 0
	hasAmount := r.Amount != nil && !r.Amount.IsZero()
	if hasPercent == hasAmount {
		return ErrInvalidRule
	}
	if hasPercent && (r.PercentBps < 0 || r.PercentBps > 10000) {
		return ErrInvalidRule
	}
	if hasAmount && r.Amount.IsNegative() {
		return ErrInvalidRule
	}
	return nil
}

// IsDiscount reports whether a firing rule reduces the price.
func (r ModifierRule) IsDiscount() bool {
	return r.Kind == ModifierKindDurationDiscount || r.Kind == ModifierKindGuestDiscount
}

// Fires evaluates the rule's condition against the billable duration and
// guest count. Conditions are independent of other rules.
func (r ModifierRule) Fires(billableMinutes int64, guests int) bool {
	switch r.Kind {
	case ModifierKindDurationDiscount:
		return billableMinutes >= r.MinDurationMinutes
	case ModifierKindGuestDiscount, ModifierKindGuestSurcharge:
		if guests < r.MinGuests {
			return false
		}
		return r.MaxGuests == 0 || guests <= r.MaxGuests
	}
	return false
}

// ValueAgainst resolves the rule's monetary contribution for a given base
// price. basePrice's currency wins for percentage rules.
func (r ModifierRule) ValueAgainst(basePrice money.Money) money.Money {
	if r.PercentBps != 0 {
		return basePrice.PercentBps(r.PercentBps)
	}
	if r.Amount != nil {
		return *r.Amount
	}
	return money.Zero(basePrice.Currency)
}
