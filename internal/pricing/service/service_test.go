package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomlylabs/roomly/internal/clock"
	pricingdomain "github.com/roomlylabs/roomly/internal/pricing/domain"
	"github.com/roomlylabs/roomly/internal/pricing/service"
	roomdomain "github.com/roomlylabs/roomly/internal/room/domain"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(roomdomain.Models()...))
	return db
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func seedRoom(t *testing.T, db *gorm.DB, node *snowflake.Node) snowflake.ID {
	t.Helper()
	now := time.Now().UTC()
	room := roomdomain.Room{
		ID:                    node.Generate(),
		Slug:                  "test-loft",
		Name:                  "Test Loft",
		Currency:              "USD",
		GranularityMinutes:    60,
		IncludedGuests:        4,
		ExtraGuestChargeCents: 500,
		ConfigVersion:         1,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	require.NoError(t, db.Create(&room).Error)

	tiers := []roomdomain.RateTier{
		{ID: node.Generate(), RoomID: room.ID, ThresholdMinutes: 60, PriceCents: 5000},
		{ID: node.Generate(), RoomID: room.ID, ThresholdMinutes: 180, PriceCents: 13500},
	}
	require.NoError(t, db.Create(&tiers).Error)
	return room.ID
}

func quoteArgs(roomID snowflake.ID, start, end time.Time, guests int) pricingdomain.QuoteArgs {
	return pricingdomain.QuoteArgs{
		RoomID:   roomID.String(),
		StartsAt: start.Format(time.RFC3339),
		EndsAt:   end.Format(time.RFC3339),
		Guests:   guests,
	}
}

func TestQuoteThroughSnapshotCache(t *testing.T) {
	db := setupDB(t)
	mr, rdb := setupRedis(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	roomID := seedRoom(t, db, node)

	svc := service.NewService(service.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		Cache: rdb,
		Clock: clock.SystemClock{},
	})

	ctx := context.Background()
	start := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	q, err := svc.Quote(ctx, quoteArgs(roomID, start, start.Add(2*time.Hour), 6))
	require.NoError(t, err)
	assert.Equal(t, int64(5000), q.BasePrice.Amount)
	assert.Equal(t, int64(2000), q.Breakdown.ExtraPersonCharge.Amount)
	assert.Equal(t, int64(7000), q.FinalPrice.Amount)

	// first call populated the snapshot cache
	assert.True(t, mr.Exists(pricingdomain.SnapshotCacheKey(roomID)))

	// second call is served from the cached snapshot
	q2, err := svc.Quote(ctx, quoteArgs(roomID, start, start.Add(2*time.Hour), 6))
	require.NoError(t, err)
	assert.Equal(t, q.FinalPrice, q2.FinalPrice)
	assert.Equal(t, q.Breakdown, q2.Breakdown)
}

func TestQuoteWithoutCache(t *testing.T) {
	db := setupDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	roomID := seedRoom(t, db, node)

	svc := service.NewService(service.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.SystemClock{},
	})

	start := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	q, err := svc.Quote(context.Background(), quoteArgs(roomID, start, start.Add(4*time.Hour), 2))
	require.NoError(t, err)
	// 4 hours lands on the 3-hour flat block
	assert.Equal(t, int64(13500), q.BasePrice.Amount)
}

func TestQuoteRoomNotFound(t *testing.T) {
	db := setupDB(t)

	svc := service.NewService(service.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.SystemClock{},
	})

	start := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	_, err := svc.Quote(context.Background(),
		quoteArgs(snowflake.ID(424242), start, start.Add(time.Hour), 2))
	assert.ErrorIs(t, err, pricingdomain.ErrRoomNotFound)
}

func TestQuoteArgParsing(t *testing.T) {
	db := setupDB(t)
	svc := service.NewService(service.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.SystemClock{},
	})
	ctx := context.Background()

	_, err := svc.Quote(ctx, pricingdomain.QuoteArgs{
		RoomID: "not-a-snowflake", StartsAt: "2025-11-03T10:00:00Z", EndsAt: "2025-11-03T12:00:00Z", Guests: 2,
	})
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidRoomID)

	_, err = svc.Quote(ctx, pricingdomain.QuoteArgs{
		RoomID: "1", StartsAt: "yesterday", EndsAt: "2025-11-03T12:00:00Z", Guests: 2,
	})
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidWindow)
}

func TestQuoteNormalizesRequestOffset(t *testing.T) {
	db := setupDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	roomID := seedRoom(t, db, node)

	// Saturday 22:00 through Sunday 02:00, UTC weekly clock
	satStart, satEnd := 22*60, 2*60
	startDay, endDay := int(time.Saturday), int(time.Sunday)
	override := roomdomain.Override{
		ID:          node.Generate(),
		RoomID:      roomID,
		Name:        "late-night",
		Kind:        "day",
		StartDay:    &startDay,
		StartMinute: &satStart,
		EndDay:      &endDay,
		EndMinute:   &satEnd,
		Tiers:       []byte(`[{"threshold_minutes":60,"price_cents":6000}]`),
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, db.Create(&override).Error)

	svc := service.NewService(service.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.SystemClock{},
	})

	// Sat Dec 20 2025 23:00 UTC, sent once as UTC and once as UTC+3
	utcArgs := pricingdomain.QuoteArgs{
		RoomID:   roomID.String(),
		StartsAt: "2025-12-20T23:00:00Z",
		EndsAt:   "2025-12-21T01:00:00Z",
		Guests:   2,
	}
	offsetArgs := pricingdomain.QuoteArgs{
		RoomID:   roomID.String(),
		StartsAt: "2025-12-21T02:00:00+03:00",
		EndsAt:   "2025-12-21T04:00:00+03:00",
		Guests:   2,
	}

	ctx := context.Background()
	fromUTC, err := svc.Quote(ctx, utcArgs)
	require.NoError(t, err)
	fromOffset, err := svc.Quote(ctx, offsetArgs)
	require.NoError(t, err)

	require.NotNil(t, fromUTC.AppliedOverride)
	require.NotNil(t, fromOffset.AppliedOverride, "same instant must price identically")
	assert.Equal(t, fromUTC.AppliedOverride.ID, fromOffset.AppliedOverride.ID)
	assert.Equal(t, int64(6000), fromOffset.BasePrice.Amount)
	assert.Equal(t, fromUTC.FinalPrice, fromOffset.FinalPrice)
}

func TestQuoteUsesOverridesFromStore(t *testing.T) {
	db := setupDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	roomID := seedRoom(t, db, node)

	holidayStart := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	holidayEnd := time.Date(2025, 12, 27, 0, 0, 0, 0, time.UTC)
	override := roomdomain.Override{
		ID:        node.Generate(),
		RoomID:    roomID,
		Name:      "holiday",
		Kind:      "date",
		StartsAt:  &holidayStart,
		EndsAt:    &holidayEnd,
		Tiers:     []byte(`[{"threshold_minutes":60,"price_cents":8000}]`),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&override).Error)

	svc := service.NewService(service.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.SystemClock{},
	})

	start := time.Date(2025, 12, 25, 10, 0, 0, 0, time.UTC)
	q, err := svc.Quote(context.Background(), quoteArgs(roomID, start, start.Add(2*time.Hour), 2))
	require.NoError(t, err)
	require.NotNil(t, q.AppliedOverride)
	assert.Equal(t, override.ID, q.AppliedOverride.ID)
	assert.Equal(t, int64(8000), q.BasePrice.Amount)
}
