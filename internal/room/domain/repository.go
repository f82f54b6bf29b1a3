package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/roomlylabs/roomly/pkg/db/pagination"
)

type Repository interface {
	InsertRoom(ctx context.Context, db *gorm.DB, room *Room) error
	FindRoomByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Room, error)
	FindRoomBySlug(ctx context.Context, db *gorm.DB, slug string) (*Room, error)
	ListRooms(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*Room, error)
	UpdateRoom(ctx context.Context, db *gorm.DB, room *Room) error

	ReplaceTiers(ctx context.Context, db *gorm.DB, roomID snowflake.ID, tiers []RateTier) error
	ListTiers(ctx context.Context, db *gorm.DB, roomID snowflake.ID) ([]RateTier, error)

	InsertOverride(ctx context.Context, db *gorm.DB, o *Override) error
	ListOverrides(ctx context.Context, db *gorm.DB, roomID snowflake.ID) ([]Override, error)
	DeleteOverride(ctx context.Context, db *gorm.DB, roomID, id snowflake.ID) (bool, error)

	InsertRule(ctx context.Context, db *gorm.DB, r *ModifierRule) error
	ListRules(ctx context.Context, db *gorm.DB, roomID snowflake.ID) ([]ModifierRule, error)
	DeleteRule(ctx context.Context, db *gorm.DB, roomID, id snowflake.ID) (bool, error)

	// BumpConfigVersion marks the room's pricing config as changed so
	// cached snapshots can be told apart from fresh ones.
	BumpConfigVersion(ctx context.Context, db *gorm.DB, roomID snowflake.ID) error
}
