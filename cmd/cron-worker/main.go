package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/leaddesk-backend/internal/cron"
	"github.com/angelmondragon/leaddesk-backend/pkg/config"
	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
	"github.com/angelmondragon/leaddesk-backend/pkg/metrics"
	"github.com/angelmondragon/leaddesk-backend/pkg/redis"
)

const lockName = "upload-sweep"

func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	metricsAddr := flag.String("metrics-addr", "", "serve /metrics on this address (disabled when empty)")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})
	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	if err := run(ctx, cfg, logg, *once, *metricsAddr); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, once bool, metricsAddr string) error {
	if !cfg.Redis.Enabled() {
		return errors.New("cron worker requires redis for its lock")
	}
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	lock, err := cron.NewRedisLock(redisClient, lockName, 2*cfg.Cron.Interval)
	if err != nil {
		return err
	}
	sweep, err := cron.NewUploadSweepJob(cron.UploadSweepJobParams{
		Logger: logg,
		Dir:    cfg.Upload.Dir,
		MaxAge: cfg.Upload.Retention,
	})
	if err != nil {
		return err
	}
	registry, err := cron.NewRegistry(sweep)
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(promRegistry),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		return err
	}

	if once {
		ran, err := service.RunOnce(ctx)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "ran", ran), "cron single run finished")
		return nil
	}

	logg.Info(logg.WithField(ctx, "interval", cfg.Cron.Interval.String()), "starting cron worker")
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return service.Run(groupCtx)
	})
	if metricsAddr != "" {
		server := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		group.Go(func() error {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}
	return group.Wait()
}
