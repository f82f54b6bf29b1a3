// Package seed creates a demo room so a fresh install can be quoted against
// immediately.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	roomdomain "github.com/roomlylabs/roomly/internal/room/domain"
)

const demoRoomName = "Loft Studio"

// EnsureDemoRoom inserts the demo room with tiers, a holiday override and
// two modifier rules. Idempotent by slug.
func EnsureDemoRoom(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing roomdomain.Room
		err := tx.Where("slug = ?", slug.Make(demoRoomName)).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		room := roomdomain.Room{
			ID:                    node.Generate(),
			Slug:                  slug.Make(demoRoomName),
			Name:                  demoRoomName,
			Currency:              "USD",
			GranularityMinutes:    60,
			IncludedGuests:        4,
			ExtraGuestChargeCents: 500,
			ConfigVersion:         1,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := tx.Create(&room).Error; err != nil {
			return err
		}

		tiers := []roomdomain.RateTier{
			{ID: node.Generate(), RoomID: room.ID, ThresholdMinutes: 60, PriceCents: 5000},
			{ID: node.Generate(), RoomID: room.ID, ThresholdMinutes: 180, PriceCents: 13500},
			{ID: node.Generate(), RoomID: room.ID, ThresholdMinutes: 360, PriceCents: 24000},
		}
		if err := tx.Create(&tiers).Error; err != nil {
			return err
		}

		overlay, err := json.Marshal([]roomdomain.TierInput{
			{ThresholdMinutes: 60, PriceCents: 8000},
		})
		if err != nil {
			return err
		}
		holidayStart := time.Date(now.Year(), time.December, 24, 0, 0, 0, 0, time.UTC)
		holidayEnd := time.Date(now.Year(), time.December, 27, 0, 0, 0, 0, time.UTC)
		override := roomdomain.Override{
			ID:        node.Generate(),
			RoomID:    room.ID,
			Name:      "Holiday rates",
			Kind:      "date",
			StartsAt:  &holidayStart,
			EndsAt:    &holidayEnd,
			Tiers:     overlay,
			CreatedAt: now,
		}
		if err := tx.Create(&override).Error; err != nil {
			return err
		}

		rules := []roomdomain.ModifierRule{
			{
				ID: node.Generate(), RoomID: room.ID,
				Kind:               "duration_discount",
				MinDurationMinutes: 360,
				PercentBps:         1000,
				CreatedAt:          now,
			},
			{
				ID: node.Generate(), RoomID: room.ID,
				Kind:       "guest_surcharge",
				MinGuests:  15,
				PercentBps: 1500,
				CreatedAt:  now,
			},
		}
		return tx.Create(&rules).Error
	})
}
