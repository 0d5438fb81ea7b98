package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"togglekit/internal/api"
	"togglekit/internal/auth"
	"togglekit/internal/config"
	"togglekit/internal/metrics"
	"togglekit/internal/repository"
	"togglekit/internal/service"
	"togglekit/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.Server.Environment)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("application startup failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage clients and repositories, driver-switched. Both drivers
	// satisfy the same repository contract.
	var (
		toggleRepo repository.ToggleInterface
		auditRepo  repository.AuditInterface
		tenantRepo repository.TenantInterface
		health     func(ctx context.Context) error
		rdb        *redis.Client
	)

	switch cfg.Storage.Driver {
	case "redis":
		var err error
		rdb, err = initRedis(cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()

		toggleRepo = repository.NewRedisToggleRepository(rdb)
		auditRepo = repository.NewRedisAuditRepository(rdb)
		tenantRepo = repository.NewRedisTenantRepository(rdb)
		health = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	case "mongo":
		client, err := initMongo(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer disconnectCancel()
			_ = client.Disconnect(disconnectCtx)
		}()

		db := client.Database(cfg.Mongo.Database)
		toggleRepo = repository.NewMongoToggleRepository(db)
		auditRepo = repository.NewMongoAuditRepository(db)
		tenantRepo = repository.NewMongoTenantRepository(db)
		health = func(ctx context.Context) error { return client.Ping(ctx, nil) }

	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// Identity provider metadata and signing keys load once, here.
	verifier := auth.NewVerifier()
	if cfg.Auth.Enabled {
		configureCtx, configureCancel := context.WithTimeout(ctx, 10*time.Second)
		defer configureCancel()
		if err := verifier.Configure(configureCtx, cfg.Auth.Authority, cfg.Auth.Audience); err != nil {
			return err
		}
	}

	observer := metrics.NewPrometheusObserver()
	toggleSvc := service.NewFeatureToggleService(toggleRepo, auditRepo, cfg.Authorization.Enabled, observer)
	tenantSvc := service.NewTenantService(auditRepo, tenantRepo)

	r := api.RegisterRoutes(
		api.NewToggleHandler(toggleSvc),
		api.NewAuditHandler(auditRepo),
		api.NewTenantHandler(tenantSvc),
		tenantRepo,
		verifier,
		rdb,
		api.RouterConfig{
			MultiTenancyEnabled: cfg.MultiTenancy.Enabled,
			RequestsPerSecond:   cfg.RateLimit.RequestsPerSecond,
			Health:              health,
		},
	)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("env", cfg.Server.Environment),
			zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited properly")
	return nil
}

// -- Infrastructure Initializers --

func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func initMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}
