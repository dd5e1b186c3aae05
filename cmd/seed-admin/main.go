package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/leaddesk-backend/internal/auth"
	"github.com/angelmondragon/leaddesk-backend/pkg/config"
	"github.com/angelmondragon/leaddesk-backend/pkg/db"
	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
	"github.com/angelmondragon/leaddesk-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed-admin"})
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	req := auth.SeedRequestFromConfig(cfg.Seed)
	flag.StringVar(&req.Email, "email", req.Email, "admin email")
	flag.StringVar(&req.Name, "name", req.Name, "admin display name")
	flag.StringVar(&req.Mobile, "mobile", req.Mobile, "admin mobile number")
	flag.StringVar(&req.Password, "password", req.Password, "admin password")
	flag.Parse()

	logg = logger.New(logger.Options{
		ServiceName: "seed-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":   cfg.App.Env,
		"email": req.Email,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to prepare schema", err)
		os.Exit(1)
	}

	seeder, err := auth.NewAdminSeeder(auth.AdminSeederParams{DB: dbClient, PasswordConfig: cfg.Password})
	if err != nil {
		logg.Error(ctx, "failed to build seeder", err)
		os.Exit(1)
	}

	result, err := seeder.Seed(ctx, req)
	if err != nil {
		logg.Error(ctx, "failed to seed admin", err)
		os.Exit(1)
	}
	if !result.Created {
		logg.Info(ctx, "admin already exists")
		return
	}
	logg.Info(logg.WithField(ctx, "user_id", result.User.ID.String()), "admin created")
}
