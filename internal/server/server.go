package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomlylabs/roomly/internal/config"
	pricingdomain "github.com/roomlylabs/roomly/internal/pricing/domain"
	roomdomain "github.com/roomlylabs/roomly/internal/room/domain"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(RunHTTP),
)

type Server struct {
	engine     *gin.Engine
	log        *zap.Logger
	db         *gorm.DB
	cache      *redis.Client
	roomSvc    roomdomain.Service
	pricingSvc pricingdomain.Service
}

type ServerParam struct {
	fx.In

	Engine     *gin.Engine
	Log        *zap.Logger
	DB         *gorm.DB
	Cache      *redis.Client `optional:"true"`
	RoomSvc    roomdomain.Service
	PricingSvc pricingdomain.Service
}

func NewEngine(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log), requestMetrics())
	return engine
}

func NewServer(p ServerParam) *Server {
	return &Server{
		engine:     p.Engine,
		log:        p.Log.Named("server"),
		db:         p.DB,
		cache:      p.Cache,
		roomSvc:    p.RoomSvc,
		pricingSvc: p.PricingSvc,
	}
}

func (s *Server) RegisterRoutes() {
	s.engine.GET("/healthz", s.Healthz)
	s.engine.GET("/readyz", s.Readyz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api/v1")

	api.POST("/rooms/:id/quote", s.QuoteRoom)

	api.POST("/rooms", s.CreateRoom)
	api.GET("/rooms", s.ListRooms)
	api.GET("/rooms/:id", s.GetRoom)
	api.PATCH("/rooms/:id", s.UpdateRoom)
	api.PUT("/rooms/:id/rate-table", s.ReplaceRateTable)

	api.POST("/rooms/:id/overrides", s.AddOverride)
	api.GET("/rooms/:id/overrides", s.ListOverrides)
	api.DELETE("/rooms/:id/overrides/:override_id", s.DeleteOverride)

	api.POST("/rooms/:id/modifier-rules", s.AddRule)
	api.GET("/rooms/:id/modifier-rules", s.ListRules)
	api.DELETE("/rooms/:id/modifier-rules/:rule_id", s.DeleteRule)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.Server.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
