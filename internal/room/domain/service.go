package domain

import (
	"context"
	"errors"

	"github.com/roomlylabs/roomly/pkg/db/pagination"
)

var (
	ErrRoomNotFound     = errors.New("room: not found")
	ErrOverrideNotFound = errors.New("room: override not found")
	ErrRuleNotFound     = errors.New("room: modifier rule not found")
	ErrInvalidName      = errors.New("room: name is required")
	ErrInvalidCurrency  = errors.New("room: currency must be a 3-letter code")
)

// TierInput is one tier as authored by the merchant.
type TierInput struct {
	ThresholdMinutes int64 `json:"threshold_minutes" binding:"required"`
	PriceCents       int64 `json:"price_cents" binding:"required"`
}

type CreateRoomRequest struct {
	Name                  string      `json:"name" binding:"required"`
	Currency              string      `json:"currency" binding:"required"`
	GranularityMinutes    int         `json:"granularity_minutes"`
	IncludedGuests        int         `json:"included_guests" binding:"required"`
	ExtraGuestChargeCents int64       `json:"extra_guest_charge_cents"`
	Tiers                 []TierInput `json:"tiers" binding:"required"`
}

type UpdateRoomRequest struct {
	Name               *string `json:"name,omitempty"`
	GranularityMinutes *int    `json:"granularity_minutes,omitempty"`
}

type ReplaceRateTableRequest struct {
	IncludedGuests        int         `json:"included_guests" binding:"required"`
	ExtraGuestChargeCents int64       `json:"extra_guest_charge_cents"`
	Tiers                 []TierInput `json:"tiers" binding:"required"`
}

// CreateOverrideRequest carries either a date rule or a day rule, matching
// Kind, plus the optional rate-table overlay.
type CreateOverrideRequest struct {
	Name string `json:"name" binding:"required"`
	Kind string `json:"kind" binding:"required"`

	StartsAt string `json:"starts_at,omitempty"`
	EndsAt   string `json:"ends_at,omitempty"`

	StartDay    *int `json:"start_day,omitempty"`
	StartMinute *int `json:"start_minute,omitempty"`
	EndDay      *int `json:"end_day,omitempty"`
	EndMinute   *int `json:"end_minute,omitempty"`

	Tiers                 []TierInput `json:"tiers,omitempty"`
	IncludedGuests        *int        `json:"included_guests,omitempty"`
	ExtraGuestChargeCents *int64      `json:"extra_guest_charge_cents,omitempty"`
}

type CreateRuleRequest struct {
	Kind               string `json:"kind" binding:"required"`
	MinDurationMinutes int64  `json:"min_duration_minutes,omitempty"`
	MinGuests          int    `json:"min_guests,omitempty"`
	MaxGuests          int    `json:"max_guests,omitempty"`
	PercentBps         int64  `json:"percent_bps,omitempty"`
	AmountCents        *int64 `json:"amount_cents,omitempty"`
}

// RoomDetail is a room with its full pricing configuration.
type RoomDetail struct {
	Room      Room           `json:"room"`
	Tiers     []RateTier     `json:"tiers"`
	Overrides []Override     `json:"overrides"`
	Rules     []ModifierRule `json:"rules"`
}

type ListRoomsResponse struct {
	Rooms    []*Room             `json:"rooms"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// Service is the merchant listing editor.
type Service interface {
	CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomDetail, error)
	GetRoom(ctx context.Context, id string) (*RoomDetail, error)
	ListRooms(ctx context.Context, page pagination.Pagination) (*ListRoomsResponse, error)
	UpdateRoom(ctx context.Context, id string, req UpdateRoomRequest) (*Room, error)
	ReplaceRateTable(ctx context.Context, id string, req ReplaceRateTableRequest) (*RoomDetail, error)

	AddOverride(ctx context.Context, roomID string, req CreateOverrideRequest) (*Override, error)
	ListOverrides(ctx context.Context, roomID string) ([]Override, error)
	DeleteOverride(ctx context.Context, roomID, overrideID string) error

	AddRule(ctx context.Context, roomID string, req CreateRuleRequest) (*ModifierRule, error)
	ListRules(ctx context.Context, roomID string) ([]ModifierRule, error)
	DeleteRule(ctx context.Context, roomID, ruleID string) error
}
