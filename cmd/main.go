package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/HenriqueSagawa/auth-service/config"
	"github.com/HenriqueSagawa/auth-service/db"
	"github.com/HenriqueSagawa/auth-service/internal/auth/handler"
	repo "github.com/HenriqueSagawa/auth-service/internal/auth/repository/postgres"
	"github.com/HenriqueSagawa/auth-service/internal/auth/service"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()

	if err := db.Migrate(cfg.DBURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	dbPool, err := db.NewPostgresPool(context.Background(), cfg.DBURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()

	userRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	userService := service.NewUserService(userRepo, tokenService, cfg, service.WithLogger(log))
	authHandler := handler.NewAuthHandler(userService)

	app := fiber.New()
	app.Use(recover.New())
	handler.RegisterRoutes(app, authHandler)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth service listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
