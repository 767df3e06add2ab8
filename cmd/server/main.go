// @title                       Text Submission API
// @version                     1.0
// @description                 Authenticated text submissions with role-based user administration and a real-time feed.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/actowiz/text-submission-api/docs"
	"github.com/actowiz/text-submission-api/internal/api"
	"github.com/actowiz/text-submission-api/internal/api/handler"
	"github.com/actowiz/text-submission-api/internal/core/ports"
	"github.com/actowiz/text-submission-api/internal/core/service"
	"github.com/actowiz/text-submission-api/internal/infrastructure/db/mongo"
	"github.com/actowiz/text-submission-api/internal/infrastructure/db/redis"
	"github.com/actowiz/text-submission-api/internal/infrastructure/queue"
	"github.com/actowiz/text-submission-api/internal/infrastructure/realtime"
	"github.com/actowiz/text-submission-api/internal/pkg/config"
	"github.com/actowiz/text-submission-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; fall back to defaults to report it.
		logger.Init(logger.Options{Service: "text-submission-api"})
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "text-submission-api",
	})

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "text-submission-api",
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	userRepo := mongo.NewUserRepository(db)
	submissionRepo := mongo.NewSubmissionRepository(db)
	if err := mongo.EnsureIndexes(ctx, userRepo, submissionRepo); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	readiness := map[string]handler.DependencyCheck{
		"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
	}

	// --- Real-time fan-out ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	hub := realtime.NewHub(logger.Component("realtime"))
	go hub.Run(workerCtx)

	var publisher ports.EventPublisher = hub
	if cfg.RedisEnabled() {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()

		relay := redis.NewRelay(rdb, cfg.Redis.Channel, hub, logger.Component("relay"))
		go func() {
			if err := relay.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("redis relay stopped")
			}
		}()
		publisher = relay
		readiness["redis"] = redisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Str("channel", cfg.Redis.Channel).Msg("redis relay enabled")
	}

	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, cfg.Notify.Buffer, publisher, logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, logger.Component("auth"))
	userService := service.NewUserService(userRepo, submissionRepo, logger.Component("users"))
	submissionService := service.NewSubmissionService(submissionRepo, userRepo, dispatcher, logger.Component("submissions"))

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		created, err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return err
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("admin account created")
		}
	}

	e := api.NewRouter(api.Dependencies{
		AuthService:       authService,
		UserService:       userService,
		SubmissionService: submissionService,
		Users:             userRepo,
		Listeners:         hub,
		ReadinessChecks:   readiness,
		JWTSecret:         cfg.JWTSecret,
		AllowedOrigins:    cfg.AllowedOrigins(),
		Logger:            logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	cancelWorkers()
	dispatcher.Wait()
	log.Info().Msg("server stopped")
	return nil
}

func redisCheck(rdb *goredis.Client) handler.DependencyCheck {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
