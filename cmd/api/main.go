package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/leaddesk-backend/api/routes"
	"github.com/angelmondragon/leaddesk-backend/internal/agents"
	"github.com/angelmondragon/leaddesk-backend/internal/auth"
	"github.com/angelmondragon/leaddesk-backend/internal/tasks"
	"github.com/angelmondragon/leaddesk-backend/internal/upload"
	"github.com/angelmondragon/leaddesk-backend/internal/users"
	"github.com/angelmondragon/leaddesk-backend/pkg/config"
	"github.com/angelmondragon/leaddesk-backend/pkg/db"
	"github.com/angelmondragon/leaddesk-backend/pkg/env"
	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
	"github.com/angelmondragon/leaddesk-backend/pkg/metrics"
	"github.com/angelmondragon/leaddesk-backend/pkg/migrate"
	"github.com/angelmondragon/leaddesk-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured; login rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	uploadMetrics := metrics.NewUploadMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		return err
	}
	agentsService, err := agents.NewService(agents.ServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}
	tasksService, err := tasks.NewService(tasks.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	uploadService, err := upload.NewService(upload.ServiceParams{
		DB:      dbClient,
		Dir:     cfg.Upload.Dir,
		Metrics: uploadMetrics,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		userRepo,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		routes.Services{
			Auth:   authService,
			Agents: agentsService,
			Tasks:  tasksService,
			Upload: uploadService,
		},
	)

	addr := ":" + env.Get("PORT", cfg.App.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(logCtx, "shutting down api server")
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
