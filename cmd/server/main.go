package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/api"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/service"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/infrastructure/config"
	mongodb "github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/infrastructure/db/mongo"
	redisdb "github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/infrastructure/db/redis"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/infrastructure/queue"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/token"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Post Management API
// @version      1.0
// @description  Multi-user post service with JWT authentication.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; this is the one place stderr is used directly.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A bad signing secret is a configuration error: refuse to start rather
	// than mint unverifiable tokens.
	codec, err := token.NewCodec(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid JWT configuration")
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":        userRepo.EnsureIndexes,
		"posts":        postRepo.EnsureIndexes,
		"audit_events": auditRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// The role set must exist before the first registration; seeding is
	// idempotent so restarts are safe.
	if err := service.SeedRoles(ctx, roleRepo); err != nil {
		log.Fatal().Err(err).Msg("role seeding failed")
	}

	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, codec, dispatcher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
