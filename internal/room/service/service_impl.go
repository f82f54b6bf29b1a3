package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomlylabs/roomly/internal/money"
	pricingdomain "github.com/roomlylabs/roomly/internal/pricing/domain"
	roomdomain "github.com/roomlylabs/roomly/internal/room/domain"
	"github.com/roomlylabs/roomly/internal/room/repository"
	"github.com/roomlylabs/roomly/pkg/db/pagination"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  roomdomain.Repository
	cache *redis.Client
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Cache *redis.Client `optional:"true"`
}

func NewService(p ServiceParam) roomdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("room.service"),
		genID: p.GenID,
		repo:  repository.Provide(),
		cache: p.Cache,
	}
}

func (s *Service) CreateRoom(ctx context.Context, req roomdomain.CreateRoomRequest) (*roomdomain.RoomDetail, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, roomdomain.ErrInvalidName
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, roomdomain.ErrInvalidCurrency
	}
	if err := validateTable(req.Tiers, req.IncludedGuests, req.ExtraGuestChargeCents, currency); err != nil {
		return nil, err
	}

	room := &roomdomain.Room{
		ID:                    s.genID.Generate(),
		Name:                  name,
		Currency:              currency,
		GranularityMinutes:    req.GranularityMinutes,
		IncludedGuests:        req.IncludedGuests,
		ExtraGuestChargeCents: req.ExtraGuestChargeCents,
		ConfigVersion:         1,
		CreatedAt:             time.Now().UTC(),
		UpdatedAt:             time.Now().UTC(),
	}
	if room.GranularityMinutes <= 0 {
		room.GranularityMinutes = 60
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roomSlug, err := s.resolveSlug(ctx, tx, name, room.ID)
		if err != nil {
			return err
		}
		room.Slug = roomSlug

		if err := s.repo.InsertRoom(ctx, tx, room); err != nil {
			return err
		}
		return s.repo.ReplaceTiers(ctx, tx, room.ID, s.buildTiers(room.ID, req.Tiers))
	})
	if err != nil {
		return nil, err
	}

	return s.detail(ctx, room)
}

func (s *Service) GetRoom(ctx context.Context, id string) (*roomdomain.RoomDetail, error) {
	room, err := s.findRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, room)
}

func (s *Service) ListRooms(ctx context.Context, page pagination.Pagination) (*roomdomain.ListRoomsResponse, error) {
	rooms, err := s.repo.ListRooms(ctx, s.db, page)
	if err != nil {
		return nil, err
	}

	resp := &roomdomain.ListRoomsResponse{
		Rooms:    rooms,
		PageInfo: pagination.PageInfo{PageSize: page.Limit()},
	}
	if len(rooms) == page.Limit() {
		resp.PageInfo.NextPageToken = rooms[len(rooms)-1].ID.String()
	}
	return resp, nil
}

func (s *Service) UpdateRoom(ctx context.Context, id string, req roomdomain.UpdateRoomRequest) (*roomdomain.Room, error) {
	room, err := s.findRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, roomdomain.ErrInvalidName
		}
		room.Name = name
	}
	if req.GranularityMinutes != nil {
		if *req.GranularityMinutes < 1 || *req.GranularityMinutes > 24*60 {
			return nil, pricingdomain.ErrInvalidWindow
		}
		room.GranularityMinutes = *req.GranularityMinutes
	}
	room.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateRoom(ctx, tx, room); err != nil {
			return err
		}
		return s.repo.BumpConfigVersion(ctx, tx, room.ID)
	})
	if err != nil {
		return nil, err
	}
	room.ConfigVersion++

	s.invalidateSnapshot(ctx, room.ID)
	return room, nil
}

func (s *Service) ReplaceRateTable(ctx context.Context, id string, req roomdomain.ReplaceRateTableRequest) (*roomdomain.RoomDetail, error) {
	room, err := s.findRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateTable(req.Tiers, req.IncludedGuests, req.ExtraGuestChargeCents, room.Currency); err != nil {
		return nil, err
	}

	room.IncludedGuests = req.IncludedGuests
	room.ExtraGuestChargeCents = req.ExtraGuestChargeCents
	room.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateRoom(ctx, tx, room); err != nil {
			return err
		}
		if err := s.repo.ReplaceTiers(ctx, tx, room.ID, s.buildTiers(room.ID, req.Tiers)); err != nil {
			return err
		}
		return s.repo.BumpConfigVersion(ctx, tx, room.ID)
	})
	if err != nil {
		return nil, err
	}
	room.ConfigVersion++

	s.invalidateSnapshot(ctx, room.ID)
	return s.detail(ctx, room)
}

func (s *Service) AddOverride(ctx context.Context, roomID string, req roomdomain.CreateOverrideRequest) (*roomdomain.Override, error) {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	row, err := buildOverride(s.genID.Generate(), room, req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertOverride(ctx, tx, row); err != nil {
			return err
		}
		return s.repo.BumpConfigVersion(ctx, tx, room.ID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSnapshot(ctx, room.ID)
	return row, nil
}

func (s *Service) ListOverrides(ctx context.Context, roomID string) ([]roomdomain.Override, error) {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListOverrides(ctx, s.db, room.ID)
}

func (s *Service) DeleteOverride(ctx context.Context, roomID, overrideID string) error {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return err
	}
	id, err := snowflake.ParseString(overrideID)
	if err != nil {
		return roomdomain.ErrOverrideNotFound
	}

	var deleted bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err = s.repo.DeleteOverride(ctx, tx, room.ID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return roomdomain.ErrOverrideNotFound
		}
		return s.repo.BumpConfigVersion(ctx, tx, room.ID)
	})
	if err != nil {
		return err
	}

	s.invalidateSnapshot(ctx, room.ID)
	return nil
}

func (s *Service) AddRule(ctx context.Context, roomID string, req roomdomain.CreateRuleRequest) (*roomdomain.ModifierRule, error) {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	row := &roomdomain.ModifierRule{
		ID:                 s.genID.Generate(),
		RoomID:             room.ID,
		Kind:               req.Kind,
		MinDurationMinutes: req.MinDurationMinutes,
		MinGuests:          req.MinGuests,
		MaxGuests:          req.MaxGuests,
		PercentBps:         req.PercentBps,
		AmountCents:        req.AmountCents,
		CreatedAt:          time.Now().UTC(),
	}
	if err := ruleFromRow(row, room.Currency).Validate(); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertRule(ctx, tx, row); err != nil {
			return err
		}
		return s.repo.BumpConfigVersion(ctx, tx, room.ID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSnapshot(ctx, room.ID)
	return row, nil
}

func (s *Service) ListRules(ctx context.Context, roomID string) ([]roomdomain.ModifierRule, error) {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRules(ctx, s.db, room.ID)
}

func (s *Service) DeleteRule(ctx context.Context, roomID, ruleID string) error {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return err
	}
	id, err := snowflake.ParseString(ruleID)
	if err != nil {
		return roomdomain.ErrRuleNotFound
	}

	var deleted bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err = s.repo.DeleteRule(ctx, tx, room.ID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return roomdomain.ErrRuleNotFound
		}
		return s.repo.BumpConfigVersion(ctx, tx, room.ID)
	})
	if err != nil {
		return err
	}

	s.invalidateSnapshot(ctx, room.ID)
	return nil
}

func (s *Service) findRoom(ctx context.Context, id string) (*roomdomain.Room, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, roomdomain.ErrRoomNotFound
	}
	room, err := s.repo.FindRoomByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, roomdomain.ErrRoomNotFound
	}
	return room, nil
}

func (s *Service) detail(ctx context.Context, room *roomdomain.Room) (*roomdomain.RoomDetail, error) {
	tiers, err := s.repo.ListTiers(ctx, s.db, room.ID)
	if err != nil {
		return nil, err
	}
	overrides, err := s.repo.ListOverrides(ctx, s.db, room.ID)
	if err != nil {
		return nil, err
	}
	rules, err := s.repo.ListRules(ctx, s.db, room.ID)
	if err != nil {
		return nil, err
	}
	return &roomdomain.RoomDetail{Room: *room, Tiers: tiers, Overrides: overrides, Rules: rules}, nil
}

func (s *Service) resolveSlug(ctx context.Context, tx *gorm.DB, name string, id snowflake.ID) (string, error) {
	base := slug.Make(name)
	existing, err := s.repo.FindRoomBySlug(ctx, tx, base)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return base, nil
	}
	return base + "-" + id.String(), nil
}

func (s *Service) buildTiers(roomID snowflake.ID, inputs []roomdomain.TierInput) []roomdomain.RateTier {
	tiers := make([]roomdomain.RateTier, 0, len(inputs))
	for _, in := range inputs {
		tiers = append(tiers, roomdomain.RateTier{
			ID:               s.genID.Generate(),
			RoomID:           roomID,
			ThresholdMinutes: in.ThresholdMinutes,
			PriceCents:       in.PriceCents,
		})
	}
	return tiers
}

func (s *Service) invalidateSnapshot(ctx context.Context, roomID snowflake.ID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, pricingdomain.SnapshotCacheKey(roomID)).Err(); err != nil {
		s.log.Warn("snapshot invalidation failed",
			zap.String("room_id", roomID.String()), zap.Error(err))
	}
}

// validateTable runs the authored table through the same invariants the
// quote engine enforces, so defects surface at authoring time.
func validateTable(inputs []roomdomain.TierInput, includedGuests int, extraCents int64, currency string) error {
	table := pricingdomain.RateTable{
		IncludedGuests:          includedGuests,
		ExtraGuestChargePerHour: moneyOf(extraCents, currency),
	}
	for _, in := range inputs {
		table.Tiers = append(table.Tiers, pricingdomain.HourlyTier{
			ThresholdMinutes: in.ThresholdMinutes,
			PricePerBooking:  moneyOf(in.PriceCents, currency),
		})
	}
	return table.Validate()
}

// buildOverride validates the request as a pricing-domain override and
// returns its stored form.
func buildOverride(id snowflake.ID, room *roomdomain.Room, req roomdomain.CreateOverrideRequest) (*roomdomain.Override, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, roomdomain.ErrInvalidName
	}

	probe := pricingdomain.PricingOverride{
		ID:     id,
		RoomID: room.ID,
		Name:   name,
		Kind:   pricingdomain.OverrideKind(req.Kind),
	}
	row := &roomdomain.Override{
		ID:                    id,
		RoomID:                room.ID,
		Name:                  name,
		Kind:                  req.Kind,
		IncludedGuests:        req.IncludedGuests,
		ExtraGuestChargeCents: req.ExtraGuestChargeCents,
		CreatedAt:             time.Now().UTC(),
	}

	switch probe.Kind {
	case pricingdomain.OverrideKindDate:
		startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			return nil, pricingdomain.ErrInvalidWindow
		}
		endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return nil, pricingdomain.ErrInvalidWindow
		}
		startsAt, endsAt = startsAt.UTC(), endsAt.UTC()
		probe.Date = &pricingdomain.DateRule{StartsAt: startsAt, EndsAt: endsAt}
		row.StartsAt, row.EndsAt = &startsAt, &endsAt
	case pricingdomain.OverrideKindDay:
		if req.StartDay == nil || req.StartMinute == nil || req.EndDay == nil || req.EndMinute == nil {
			return nil, pricingdomain.ErrInvalidKind
		}
		probe.Day = &pricingdomain.DayRule{
			StartDay:    time.Weekday(*req.StartDay),
			StartMinute: *req.StartMinute,
			EndDay:      time.Weekday(*req.EndDay),
			EndMinute:   *req.EndMinute,
		}
		row.StartDay, row.StartMinute = req.StartDay, req.StartMinute
		row.EndDay, row.EndMinute = req.EndDay, req.EndMinute
	default:
		return nil, pricingdomain.ErrInvalidKind
	}

	if len(req.Tiers) > 0 {
		for _, in := range req.Tiers {
			probe.Overlay.Tiers = append(probe.Overlay.Tiers, pricingdomain.HourlyTier{
				ThresholdMinutes: in.ThresholdMinutes,
				PricePerBooking:  moneyOf(in.PriceCents, room.Currency),
			})
		}
		raw, err := json.Marshal(req.Tiers)
		if err != nil {
			return nil, err
		}
		row.Tiers = raw
	}
	probe.Overlay.IncludedGuests = req.IncludedGuests
	if req.ExtraGuestChargeCents != nil {
		charge := moneyOf(*req.ExtraGuestChargeCents, room.Currency)
		probe.Overlay.ExtraGuestChargePerHour = &charge
	}

	if err := probe.Validate(); err != nil {
		return nil, err
	}
	return row, nil
}

func moneyOf(cents int64, currency string) money.Money {
	return money.New(cents, currency)
}

func ruleFromRow(row *roomdomain.ModifierRule, currency string) pricingdomain.ModifierRule {
	rule := pricingdomain.ModifierRule{
		ID:                 row.ID,
		RoomID:             row.RoomID,
		Kind:               pricingdomain.ModifierKind(row.Kind),
		MinDurationMinutes: row.MinDurationMinutes,
		MinGuests:          row.MinGuests,
		MaxGuests:          row.MaxGuests,
		PercentBps:         row.PercentBps,
	}
	if row.AmountCents != nil {
		amount := moneyOf(*row.AmountCents, currency)
		rule.Amount = &amount
	}
	return rule
}
