package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/venuetrack/checkin-system/internal/api"
	"github.com/venuetrack/checkin-system/internal/core/service"
	"github.com/venuetrack/checkin-system/internal/infrastructure/config"
	mongodb "github.com/venuetrack/checkin-system/internal/infrastructure/db/mongo"
	redisdb "github.com/venuetrack/checkin-system/internal/infrastructure/db/redis"
	"github.com/venuetrack/checkin-system/internal/infrastructure/queue"
	"github.com/venuetrack/checkin-system/pkg/logger"
	"github.com/venuetrack/checkin-system/pkg/qrcode"
)

// Issued tokens expire one hour after login.
const tokenTTL = time.Hour

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// The signing secret is injected configuration; refuse to start
	// without it rather than fall back to a baked-in value.
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store readiness is established once, here: both connections ping
	// before any request is routed.
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// Repositories
	clientRepo := mongodb.NewClientRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	visitRepo := mongodb.NewVisitEventRepository(db)

	if err := clientRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create client indexes")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	// Audit trail workers
	dispatcher := queue.NewAuditDispatcher(cfg.CheckinWorkers, visitRepo, log)
	dispatcher.Start(ctx)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, tokenTTL)
	clientService := service.NewClientService(clientRepo, qrcode.NewGenerator(), log)
	userService := service.NewUserService(userRepo, log)
	checkinService := service.NewCheckinService(clientRepo, redisdb.NewVisitDedup(rdb), dispatcher, log)

	e := api.NewRouter(api.Services{
		Auth:    authService,
		Clients: clientService,
		Users:   userService,
		Checkin: checkinService,
	}, db, rdb, log)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting check-in API")
	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
