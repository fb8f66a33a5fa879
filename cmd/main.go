package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/yadneshx17/Auth-Api/config"
	"github.com/yadneshx17/Auth-Api/db"
	"github.com/yadneshx17/Auth-Api/internal/auth/handler"
	"github.com/yadneshx17/Auth-Api/internal/auth/password"
	repo "github.com/yadneshx17/Auth-Api/internal/auth/repository/postgres"
	"github.com/yadneshx17/Auth-Api/internal/auth/service"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	tokenService, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	if err != nil {
		log.Error("failed to configure token service", "error", err)
		os.Exit(1)
	}

	userRepo := repo.NewPostgresRepository(dbPool)
	hasher := password.NewHasher(password.DefaultParams)
	userService := service.NewUserService(userRepo, tokenService, hasher, log)
	authHandler := handler.NewAuthHandler(userService, tokenService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	log.Info("starting server", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
