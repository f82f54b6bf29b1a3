package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/roomlylabs/roomly/internal/money"
	"github.com/roomlylabs/roomly/internal/pricing/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

type roomRow struct {
	ID                    snowflake.ID
	Currency              string
	GranularityMinutes    int
	IncludedGuests        int
	ExtraGuestChargeCents int64
	ConfigVersion         int64
}

type tierRow struct {
	ThresholdMinutes int64
	PriceCents       int64
}

type overrideRow struct {
	ID                    snowflake.ID
	Name                  string
	Kind                  string
	StartsAt              *time.Time
	EndsAt                *time.Time
	StartDay              *int
	StartMinute           *int
	EndDay                *int
	EndMinute             *int
	Tiers                 []byte
	IncludedGuests        *int
	ExtraGuestChargeCents *int64
}

type ruleRow struct {
	ID                 snowflake.ID
	Kind               string
	MinDurationMinutes int64
	MinGuests          int
	MaxGuests          int
	PercentBps         int64
	AmountCents        *int64
}

// overlayTier is the persisted shape of an override's tier overlay. Amounts
// are stored as bare cents; the room's currency applies on load.
type overlayTier struct {
	ThresholdMinutes int64 `json:"threshold_minutes"`
	PriceCents       int64 `json:"price_cents"`
}

func (r *repo) GetRoomPricingConfig(ctx context.Context, db *gorm.DB, roomID snowflake.ID) (*domain.RoomPricingConfig, error) {
	var room roomRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, currency, granularity_minutes, included_guests,
		 extra_guest_charge_cents, config_version
		 FROM rooms WHERE id = ?`,
		roomID,
	).Scan(&room).Error
	if err != nil {
		return nil, err
	}
	if room.ID == 0 {
		return nil, nil
	}

	var tiers []tierRow
	err = db.WithContext(ctx).Raw(
		`SELECT threshold_minutes, price_cents
		 FROM room_rate_tiers WHERE room_id = ?
		 ORDER BY threshold_minutes ASC`,
		roomID,
	).Scan(&tiers).Error
	if err != nil {
		return nil, err
	}

	var overrides []overrideRow
	err = db.WithContext(ctx).Raw(
		`SELECT id, name, kind, starts_at, ends_at,
		 start_day, start_minute, end_day, end_minute,
		 tiers, included_guests, extra_guest_charge_cents
		 FROM pricing_overrides WHERE room_id = ?
		 ORDER BY id ASC`,
		roomID,
	).Scan(&overrides).Error
	if err != nil {
		return nil, err
	}

	var rules []ruleRow
	err = db.WithContext(ctx).Raw(
		`SELECT id, kind, min_duration_minutes, min_guests, max_guests,
		 percent_bps, amount_cents
		 FROM modifier_rules WHERE room_id = ?
		 ORDER BY id ASC`,
		roomID,
	).Scan(&rules).Error
	if err != nil {
		return nil, err
	}

	return assembleConfig(room, tiers, overrides, rules)
}

func assembleConfig(room roomRow, tiers []tierRow, overrides []overrideRow, rules []ruleRow) (*domain.RoomPricingConfig, error) {
	cfg := &domain.RoomPricingConfig{
		RoomID:             room.ID,
		ConfigVersion:      room.ConfigVersion,
		Currency:           room.Currency,
		GranularityMinutes: room.GranularityMinutes,
		DefaultTable: domain.RateTable{
			IncludedGuests:          room.IncludedGuests,
			ExtraGuestChargePerHour: money.New(room.ExtraGuestChargeCents, room.Currency),
		},
	}
	for _, t := range tiers {
		cfg.DefaultTable.Tiers = append(cfg.DefaultTable.Tiers, domain.HourlyTier{
			ThresholdMinutes: t.ThresholdMinutes,
			PricePerBooking:  money.New(t.PriceCents, room.Currency),
		})
	}

	for _, row := range overrides {
		o, err := mapOverride(row, room.ID, room.Currency)
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", row.ID, err)
		}
		cfg.Overrides = append(cfg.Overrides, o)
	}

	for _, row := range rules {
		rule := domain.ModifierRule{
			ID:                 row.ID,
			RoomID:             room.ID,
			Kind:               domain.ModifierKind(row.Kind),
			MinDurationMinutes: row.MinDurationMinutes,
			MinGuests:          row.MinGuests,
			MaxGuests:          row.MaxGuests,
			PercentBps:         row.PercentBps,
		}
		if row.AmountCents != nil {
			amount := money.New(*row.AmountCents, room.Currency)
			rule.Amount = &amount
		}
		cfg.Rules = append(cfg.Rules, rule)
	}

	return cfg, nil
}

func mapOverride(row overrideRow, roomID snowflake.ID, currency string) (domain.PricingOverride, error) {
	o := domain.PricingOverride{
		ID:     row.ID,
		RoomID: roomID,
		Name:   row.Name,
		Kind:   domain.OverrideKind(row.Kind),
	}

	switch o.Kind {
	case domain.OverrideKindDate:
		if row.StartsAt == nil || row.EndsAt == nil {
			return o, domain.ErrInvalidKind
		}
		o.Date = &domain.DateRule{StartsAt: row.StartsAt.UTC(), EndsAt: row.EndsAt.UTC()}
	case domain.OverrideKindDay:
		if row.StartDay == nil || row.StartMinute == nil || row.EndDay == nil || row.EndMinute == nil {
			return o, domain.ErrInvalidKind
		}
		o.Day = &domain.DayRule{
			StartDay:    time.Weekday(*row.StartDay),
			StartMinute: *row.StartMinute,
			EndDay:      time.Weekday(*row.EndDay),
			EndMinute:   *row.EndMinute,
		}
	default:
		return o, domain.ErrInvalidKind
	}

	if len(row.Tiers) > 0 {
		var stored []overlayTier
		if err := json.Unmarshal(row.Tiers, &stored); err != nil {
			return o, err
		}
		for _, t := range stored {
			o.Overlay.Tiers = append(o.Overlay.Tiers, domain.HourlyTier{
				ThresholdMinutes: t.ThresholdMinutes,
				PricePerBooking:  money.New(t.PriceCents, currency),
			})
		}
	}
	o.Overlay.IncludedGuests = row.IncludedGuests
	if row.ExtraGuestChargeCents != nil {
		charge := money.New(*row.ExtraGuestChargeCents, currency)
		o.Overlay.ExtraGuestChargePerHour = &charge
	}
	return o, nil
}
