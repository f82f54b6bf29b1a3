package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/roomlylabs/roomly/internal/money"
)

// WarningDiscountClamped flags a quote whose discounts were capped so the
// final price stayed non-negative. Non-fatal: the quote is still served.
const WarningDiscountClamped = "discount_clamped"

// QuoteRequest is one pricing call. Ephemeral, never stored.
type QuoteRequest struct {
	RoomID snowflake.ID
	Window TimeWindow
	Guests int
}

func (r QuoteRequest) Validate() error {
	if r.RoomID == 0 {
		return ErrInvalidRoomID
	}
	if err := r.Window.Validate(); err != nil {
		return err
	}
	if r.Guests < 1 {
		return ErrInvalidGuests
	}
	return nil
}

// AppliedOverride identifies the single override a quote was priced under.
type AppliedOverride struct {
	ID   snowflake.ID `json:"id"`
	Name string       `json:"name"`
	Kind OverrideKind `json:"kind"`
}

// Breakdown itemizes the components summing to the final price.
type Breakdown struct {
	BasePrice         money.Money `json:"base_price"`
	ExtraPersonCharge money.Money `json:"extra_person_charge"`
	TotalDiscounts    money.Money `json:"total_discounts"`
	TotalSurcharges   money.Money `json:"total_surcharges"`
}

// PriceQuote is the fully-resolved price for one request. Immutable once
// assembled; the checkout flow charges FinalPrice verbatim.
//
// Invariant: FinalPrice = BasePrice + ExtraPersonCharge + TotalSurcharges
// - TotalDiscounts, and FinalPrice >= 0.
type PriceQuote struct {
	ID              uuid.UUID        `json:"id"`
	RoomID          snowflake.ID     `json:"room_id"`
	BasePrice       money.Money      `json:"base_price"`
	AppliedOverride *AppliedOverride `json:"applied_override"`
	Breakdown       Breakdown        `json:"breakdown"`
	FinalPrice      money.Money      `json:"final_price"`
	BillableMinutes int64            `json:"billable_minutes"`
	Warnings        []string         `json:"warnings,omitempty"`
	CalculatedAt    time.Time        `json:"calculated_at"`
}

// SnapshotCacheKey names the cached pricing snapshot for one room. The room
// editor deletes the key on every pricing-config write.
func SnapshotCacheKey(roomID snowflake.ID) string {
	return "pricing:snapshot:" + roomID.String()
}

// RoomPricingConfig is the immutable snapshot quote() computes over: the
// room's default table, its overrides, and its modifier rules. The caller
// owns fetching a consistent copy; the engine never reaches back into a
// shared store.
type RoomPricingConfig struct {
	RoomID             snowflake.ID      `json:"room_id"`
	ConfigVersion      int64             `json:"config_version"`
	Currency           string            `json:"currency"`
	GranularityMinutes int               `json:"granularity_minutes"`
	DefaultTable       RateTable         `json:"default_table"`
	Overrides          []PricingOverride `json:"overrides"`
	Rules              []ModifierRule    `json:"rules"`
}
