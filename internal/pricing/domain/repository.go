package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository reads merchant-authored pricing configuration. It is strictly
// read-only from the engine's perspective; the room editor owns writes.
type Repository interface {
	// GetRoomPricingConfig assembles the full snapshot for one room.
	// Returns nil when the room does not exist.
	GetRoomPricingConfig(ctx context.Context, db *gorm.DB, roomID snowflake.ID) (*RoomPricingConfig, error)
}

// Service is the quote surface exposed to transport.
type Service interface {
	Quote(ctx context.Context, req QuoteArgs) (*PriceQuote, error)
}

// QuoteArgs mirrors the HTTP request body before domain validation.
type QuoteArgs struct {
	RoomID   string `json:"-"`
	StartsAt string `json:"starts_at" binding:"required"`
	EndsAt   string `json:"ends_at" binding:"required"`
	Guests   int    `json:"guests" binding:"required"`
}
