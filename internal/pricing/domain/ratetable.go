package domain

import "github.com/roomlylabs/roomly/internal/money"

// HourlyTier is a flat-block price band: the booking price for any stay at
// or above ThresholdMinutes, up to the next tier's threshold.
type HourlyTier struct {
	ThresholdMinutes int64       `json:"threshold_minutes"`
	PricePerBooking  money.Money `json:"price_per_booking"`
}

// RateTable is an ordered, non-empty set of tiers plus the guest terms.
// The first tier's threshold is the table's minimum stay.
type RateTable struct {
	Tiers                   []HourlyTier `json:"tiers"`
	IncludedGuests          int          `json:"included_guests"`
	ExtraGuestChargePerHour money.Money  `json:"extra_guest_charge_per_hour"`
}

func (t RateTable) Validate() error {
	if len(t.Tiers) == 0 {
		return ErrEmptyRateTable
	}
	for i, tier := range t.Tiers {
		if tier.ThresholdMinutes <= 0 || tier.PricePerBooking.IsNegative() {
			return ErrEmptyRateTable
		}
		if i > 0 && tier.ThresholdMinutes <= t.Tiers[i-1].ThresholdMinutes {
			return ErrTierOrder
		}
	}
	if t.IncludedGuests < 1 {
		return ErrInvalidGuests
	}
	if t.ExtraGuestChargePerHour.IsNegative() {
		return ErrEmptyRateTable
	}
	return nil
}

// MinimumStayMinutes is the threshold of the cheapest tier.
func (t RateTable) MinimumStayMinutes() int64 {
	if len(t.Tiers) == 0 {
		return 0
	}
	return t.Tiers[0].ThresholdMinutes
}

// BasePrice selects the highest tier whose threshold does not exceed the
// billable duration. Tiers are flat-rate bands: the tier price covers the
// entire stay, it is not multiplied by hours.
func (t RateTable) BasePrice(billableMinutes int64) (money.Money, error) {
	if len(t.Tiers) == 0 {
		return money.Money{}, ErrEmptyRateTable
	}
	if billableMinutes < t.Tiers[0].ThresholdMinutes {
		return money.Money{}, &BelowMinimumStayError{
			MinimumMinutes:   t.Tiers[0].ThresholdMinutes,
			RequestedMinutes: billableMinutes,
		}
	}
	price := t.Tiers[0].PricePerBooking
	for _, tier := range t.Tiers[1:] {
		if tier.ThresholdMinutes > billableMinutes {
			break
		}
		price = tier.PricePerBooking
	}
	return price, nil
}

// ExtraGuestCharge prices guests beyond IncludedGuests at the hourly rate
// for the billable duration, rounded once at the end.
func (t RateTable) ExtraGuestCharge(guests int, billableMinutes int64) money.Money {
	extra := int64(guests - t.IncludedGuests)
	if extra <= 0 {
		return money.Zero(t.ExtraGuestChargePerHour.Currency)
	}
	return t.ExtraGuestChargePerHour.MulInt(extra).MulRatio(billableMinutes, 60)
}
