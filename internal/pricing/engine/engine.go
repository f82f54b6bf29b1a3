// Package engine computes price quotes. It is a pure, synchronous
// computation over immutable snapshots: no I/O, no shared state, safe for
// any number of concurrent callers.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/roomlylabs/roomly/internal/money"
	"github.com/roomlylabs/roomly/internal/pricing/domain"
	"go.uber.org/zap"
)

type Engine struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Engine {
	return &Engine{log: log.Named("pricing.engine")}
}

// Quote prices one request against a room's pricing snapshot.
//
// Linear, fail-fast pipeline: validate, resolve the effective rate table,
// tiered base-price lookup plus extra-guest charge, modifiers, assemble.
// The discount clamp is the only non-fatal condition; every other failure
// aborts with no partial result.
func (e *Engine) Quote(req domain.QuoteRequest, cfg domain.RoomPricingConfig, now time.Time) (*domain.PriceQuote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := validateConfigCurrency(cfg); err != nil {
		return nil, err
	}

	applied, err := ResolveOverride(cfg.Overrides, req.Window)
	if err != nil {
		return nil, err
	}
	table := cfg.DefaultTable
	if applied != nil {
		table = applied.EffectiveTable(cfg.DefaultTable)
	}

	billable := req.Window.BillableMinutes(cfg.GranularityMinutes)

	basePrice, err := table.BasePrice(billable)
	if err != nil {
		return nil, err
	}
	extraCharge := table.ExtraGuestCharge(req.Guests, billable)

	mods, err := ApplyModifiers(cfg.Rules, billable, req.Guests, basePrice, extraCharge)
	if err != nil {
		return nil, err
	}

	final, err := sum(basePrice, extraCharge, mods.TotalSurcharges)
	if err != nil {
		return nil, err
	}
	final, err = final.Sub(mods.TotalDiscounts)
	if err != nil {
		return nil, err
	}

	quote := &domain.PriceQuote{
		ID:        uuid.New(),
		RoomID:    req.RoomID,
		BasePrice: basePrice,
		Breakdown: domain.Breakdown{
			BasePrice:         basePrice,
			ExtraPersonCharge: extraCharge,
			TotalDiscounts:    mods.TotalDiscounts,
			TotalSurcharges:   mods.TotalSurcharges,
		},
		FinalPrice:      final,
		BillableMinutes: billable,
		CalculatedAt:    now,
	}
	if applied != nil {
		quote.AppliedOverride = &domain.AppliedOverride{
			ID:   applied.ID,
			Name: applied.Name,
			Kind: applied.Kind,
		}
	}
	if mods.Clamped {
		quote.Warnings = append(quote.Warnings, domain.WarningDiscountClamped)
		e.log.Warn("discounts clamped to keep final price non-negative",
			zap.String("room_id", req.RoomID.String()),
			zap.Int64("base_cents", basePrice.Amount),
			zap.Int64("discount_cents", mods.TotalDiscounts.Amount),
		)
	}
	return quote, nil
}

// validateConfigCurrency rejects snapshots whose monetary fields disagree on
// currency. This is an authoring defect, caught before any arithmetic.
func validateConfigCurrency(cfg domain.RoomPricingConfig) error {
	check := func(m money.Money) error {
		if m.Currency != cfg.Currency {
			return money.ErrCurrencyMismatch
		}
		return nil
	}
	for _, tier := range cfg.DefaultTable.Tiers {
		if err := check(tier.PricePerBooking); err != nil {
			return err
		}
	}
	if err := check(cfg.DefaultTable.ExtraGuestChargePerHour); err != nil {
		return err
	}
	for _, o := range cfg.Overrides {
		for _, tier := range o.Overlay.Tiers {
			if err := check(tier.PricePerBooking); err != nil {
				return err
			}
		}
		if o.Overlay.ExtraGuestChargePerHour != nil {
			if err := check(*o.Overlay.ExtraGuestChargePerHour); err != nil {
				return err
			}
		}
	}
	for _, r := range cfg.Rules {
		if r.Amount != nil {
			if err := check(*r.Amount); err != nil {
				return err
			}
		}
	}
	return nil
}

func sum(first money.Money, rest ...money.Money) (money.Money, error) {
	out := first
	var err error
	for _, m := range rest {
		out, err = out.Add(m)
		if err != nil {
			return money.Money{}, err
		}
	}
	return out, nil
}
