// Package domain contains persistence models and contracts for the
// merchant-facing room listing editor. The quote engine only ever reads
// these tables; every write here bumps the room's config version and
// invalidates the cached pricing snapshot.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Room is a bookable space with its default guest terms. The default rate
// table's tiers live in room_rate_tiers.
type Room struct {
	ID                    snowflake.ID `gorm:"primaryKey" json:"id"`
	Slug                  string       `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Name                  string       `gorm:"type:text;not null" json:"name"`
	Currency              string       `gorm:"type:text;not null" json:"currency"`
	GranularityMinutes    int          `gorm:"not null;default:60" json:"granularity_minutes"`
	IncludedGuests        int          `gorm:"not null" json:"included_guests"`
	ExtraGuestChargeCents int64        `gorm:"not null" json:"extra_guest_charge_cents"`
	ConfigVersion         int64        `gorm:"not null;default:1" json:"config_version"`
	CreatedAt             time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time    `gorm:"not null" json:"updated_at"`
}

func (Room) TableName() string { return "rooms" }

// RateTier is one flat-block band of a room's default rate table.
type RateTier struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	RoomID           snowflake.ID `gorm:"not null;index" json:"room_id"`
	ThresholdMinutes int64        `gorm:"not null" json:"threshold_minutes"`
	PriceCents       int64        `gorm:"not null" json:"price_cents"`
}

func (RateTier) TableName() string { return "room_rate_tiers" }

// Override is the stored form of a pricing override. Date-rule columns and
// day-rule columns are mutually exclusive, discriminated by Kind; Tiers
// holds the optional tier overlay as JSON.
type Override struct {
	ID                    snowflake.ID   `gorm:"primaryKey" json:"id"`
	RoomID                snowflake.ID   `gorm:"not null;index" json:"room_id"`
	Name                  string         `gorm:"type:text;not null" json:"name"`
	Kind                  string         `gorm:"type:text;not null" json:"kind"`
	StartsAt              *time.Time     `json:"starts_at,omitempty"`
	EndsAt                *time.Time     `json:"ends_at,omitempty"`
	StartDay              *int           `json:"start_day,omitempty"`
	StartMinute           *int           `json:"start_minute,omitempty"`
	EndDay                *int           `json:"end_day,omitempty"`
	EndMinute             *int           `json:"end_minute,omitempty"`
	Tiers                 datatypes.JSON `json:"tiers,omitempty"`
	IncludedGuests        *int           `json:"included_guests,omitempty"`
	ExtraGuestChargeCents *int64         `json:"extra_guest_charge_cents,omitempty"`
	CreatedAt             time.Time      `gorm:"not null" json:"created_at"`
}

func (Override) TableName() string { return "pricing_overrides" }

// ModifierRule is the stored form of a discount or surcharge rule.
type ModifierRule struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	RoomID             snowflake.ID `gorm:"not null;index" json:"room_id"`
	Kind               string       `gorm:"type:text;not null" json:"kind"`
	MinDurationMinutes int64        `gorm:"not null;default:0" json:"min_duration_minutes"`
	MinGuests          int          `gorm:"not null;default:0" json:"min_guests"`
	MaxGuests          int          `gorm:"not null;default:0" json:"max_guests"`
	PercentBps         int64        `gorm:"not null;default:0" json:"percent_bps"`
	AmountCents        *int64       `json:"amount_cents,omitempty"`
	CreatedAt          time.Time    `gorm:"not null" json:"created_at"`
}

func (ModifierRule) TableName() string { return "modifier_rules" }

// Models lists every table the room editor owns, in AutoMigrate order.
func Models() []any {
	return []any{&Room{}, &RateTier{}, &Override{}, &ModifierRule{}}
}
