package engine

import (
	"github.com/roomlylabs/roomly/internal/money"
	"github.com/roomlylabs/roomly/internal/pricing/domain"
)

// ModifierResult carries the summed discounts and surcharges plus whether
// the discount clamp engaged.
type ModifierResult struct {
	TotalDiscounts  money.Money
	TotalSurcharges money.Money
	Clamped         bool
}

// ApplyModifiers evaluates every rule independently against the billable
// duration and guest count. Percentage rules compute against the base price
// only, so the result is independent of rule order; firing rules are summed,
// never compounded.
//
// TotalDiscounts is clamped at basePrice + extraPersonCharge so the final
// price can never go negative; the clamp is reported, not fatal.
func ApplyModifiers(
	rules []domain.ModifierRule,
	billableMinutes int64,
	guests int,
	basePrice, extraPersonCharge money.Money,
) (ModifierResult, error) {
	discounts := money.Zero(basePrice.Currency)
	surcharges := money.Zero(basePrice.Currency)

	for _, rule := range rules {
		if !rule.Fires(billableMinutes, guests) {
			continue
		}
		value := rule.ValueAgainst(basePrice)

		var err error
		if rule.IsDiscount() {
			discounts, err = discounts.Add(value)
		} else {
			surcharges, err = surcharges.Add(value)
		}
		if err != nil {
			return ModifierResult{}, err
		}
	}

	limit, err := basePrice.Add(extraPersonCharge)
	if err != nil {
		return ModifierResult{}, err
	}

	res := ModifierResult{TotalDiscounts: discounts, TotalSurcharges: surcharges}
	if discounts.Amount > limit.Amount {
		res.TotalDiscounts = limit
		res.Clamped = true
	}
	return res, nil
}
