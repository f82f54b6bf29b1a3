package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	roomdomain "github.com/roomlylabs/roomly/internal/room/domain"
	"github.com/roomlylabs/roomly/pkg/db/pagination"
)

type repo struct{}

func Provide() roomdomain.Repository {
	return &repo{}
}

func (r *repo) InsertRoom(ctx context.Context, db *gorm.DB, room *roomdomain.Room) error {
	return db.WithContext(ctx).Create(room).Error
}

func (r *repo) FindRoomByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*roomdomain.Room, error) {
	var room roomdomain.Room
	err := db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repo) FindRoomBySlug(ctx context.Context, db *gorm.DB, slug string) (*roomdomain.Room, error) {
	var room roomdomain.Room
	err := db.WithContext(ctx).Where("slug = ?", slug).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repo) ListRooms(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*roomdomain.Room, error) {
	query := db.WithContext(ctx).Model(&roomdomain.Room{})
	if page.PageToken != "" {
		after, err := snowflake.ParseString(page.PageToken)
		if err == nil {
			query = query.Where("id > ?", after)
		}
	}

	var rooms []*roomdomain.Room
	err := query.Order("id ASC").Limit(page.Limit()).Find(&rooms).Error
	return rooms, err
}

func (r *repo) UpdateRoom(ctx context.Context, db *gorm.DB, room *roomdomain.Room) error {
	return db.WithContext(ctx).Save(room).Error
}

func (r *repo) ReplaceTiers(ctx context.Context, db *gorm.DB, roomID snowflake.ID, tiers []roomdomain.RateTier) error {
	if err := db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Delete(&roomdomain.RateTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&tiers).Error
}

func (r *repo) ListTiers(ctx context.Context, db *gorm.DB, roomID snowflake.ID) ([]roomdomain.RateTier, error) {
	var tiers []roomdomain.RateTier
	err := db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("threshold_minutes ASC").
		Find(&tiers).Error
	return tiers, err
}

func (r *repo) InsertOverride(ctx context.Context, db *gorm.DB, o *roomdomain.Override) error {
	return db.WithContext(ctx).Create(o).Error
}

func (r *repo) ListOverrides(ctx context.Context, db *gorm.DB, roomID snowflake.ID) ([]roomdomain.Override, error) {
	var overrides []roomdomain.Override
	err := db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id ASC").
		Find(&overrides).Error
	return overrides, err
}

func (r *repo) DeleteOverride(ctx context.Context, db *gorm.DB, roomID, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).
		Where("room_id = ? AND id = ?", roomID, id).
		Delete(&roomdomain.Override{})
	return res.RowsAffected > 0, res.Error
}

func (r *repo) InsertRule(ctx context.Context, db *gorm.DB, rule *roomdomain.ModifierRule) error {
	return db.WithContext(ctx).Create(rule).Error
}

func (r *repo) ListRules(ctx context.Context, db *gorm.DB, roomID snowflake.ID) ([]roomdomain.ModifierRule, error) {
	var rules []roomdomain.ModifierRule
	err := db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repo) DeleteRule(ctx context.Context, db *gorm.DB, roomID, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).
		Where("room_id = ? AND id = ?", roomID, id).
		Delete(&roomdomain.ModifierRule{})
	return res.RowsAffected > 0, res.Error
}

func (r *repo) BumpConfigVersion(ctx context.Context, db *gorm.DB, roomID snowflake.ID) error {
	return db.WithContext(ctx).
		Exec(`UPDATE rooms SET config_version = config_version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, roomID).
		Error
}
