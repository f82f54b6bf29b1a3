package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomlylabs/roomly/internal/clock"
	"github.com/roomlylabs/roomly/internal/pricing/domain"
	"github.com/roomlylabs/roomly/internal/pricing/engine"
	"github.com/roomlylabs/roomly/internal/pricing/repository"
)

// snapshotTTL bounds how stale a cached pricing snapshot can get when an
// invalidation is missed. Writes from the room editor delete the key.
const snapshotTTL = time.Minute

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	cache *redis.Client
	clock clock.Clock
	eng   *engine.Engine
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cache *redis.Client `optional:"true"`
	Clock clock.Clock
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("pricing.service"),
		repo:  repository.Provide(),
		cache: p.Cache,
		clock: p.Clock,
		eng:   engine.New(p.Log),
	}
}

func (s *Service) Quote(ctx context.Context, args domain.QuoteArgs) (*domain.PriceQuote, error) {
	req, err := parseArgs(args)
	if err != nil {
		observeQuote(err)
		return nil, err
	}

	cfg, err := s.roomConfig(ctx, req.RoomID)
	if err != nil {
		observeQuote(err)
		return nil, err
	}
	if cfg == nil {
		observeQuote(domain.ErrRoomNotFound)
		return nil, domain.ErrRoomNotFound
	}

	quote, err := s.eng.Quote(req, *cfg, s.clock.Now(ctx))
	observeQuote(err)
	if err != nil {
		var ambiguous *domain.AmbiguousOverrideError
		if errors.As(err, &ambiguous) {
			// authoring defect, not a caller problem: keep the evidence
			s.log.Error("ambiguous override configuration",
				zap.String("room_id", req.RoomID.String()),
				zap.String("first", ambiguous.FirstID.String()),
				zap.String("second", ambiguous.SecondID.String()),
			)
		}
		return nil, err
	}
	if len(quote.Warnings) > 0 {
		quotesClampedTotal.Inc()
	}
	return quote, nil
}

func parseArgs(args domain.QuoteArgs) (domain.QuoteRequest, error) {
	roomID, err := snowflake.ParseString(args.RoomID)
	if err != nil {
		return domain.QuoteRequest{}, domain.ErrInvalidRoomID
	}
	startsAt, err := time.Parse(time.RFC3339, args.StartsAt)
	if err != nil {
		return domain.QuoteRequest{}, fmt.Errorf("%w: bad starts_at", domain.ErrInvalidWindow)
	}
	endsAt, err := time.Parse(time.RFC3339, args.EndsAt)
	if err != nil {
		return domain.QuoteRequest{}, fmt.Errorf("%w: bad ends_at", domain.ErrInvalidWindow)
	}
	// callers may send any UTC offset; pricing evaluates in UTC
	return domain.QuoteRequest{
		RoomID: roomID,
		Window: domain.TimeWindow{StartsAt: startsAt.UTC(), EndsAt: endsAt.UTC()},
		Guests: args.Guests,
	}, nil
}

// roomConfig reads the pricing snapshot through the redis cache. Cache
// failures degrade to a direct repository read; they never fail a quote.
func (s *Service) roomConfig(ctx context.Context, roomID snowflake.ID) (*domain.RoomPricingConfig, error) {
	key := domain.SnapshotCacheKey(roomID)

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var cfg domain.RoomPricingConfig
			if jsonErr := json.Unmarshal(raw, &cfg); jsonErr == nil {
				return &cfg, nil
			}
			// poisoned entry: drop it and fall through to the repository
			s.cache.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn("pricing snapshot cache read failed", zap.Error(err))
		}
	}

	cfg, err := s.repo.GetRoomPricingConfig(ctx, s.db, roomID)
	if err != nil || cfg == nil {
		return cfg, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(cfg); err == nil {
			if err := s.cache.Set(ctx, key, raw, snapshotTTL).Err(); err != nil {
				s.log.Warn("pricing snapshot cache write failed", zap.Error(err))
			}
		}
	}
	return cfg, nil
}
