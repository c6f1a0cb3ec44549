package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ehotels/account"
	"ehotels/apperr"
	"ehotels/auth"
	"ehotels/config"
	"ehotels/metrics"
	"ehotels/storage"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("EHOTELS_CONFIG"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Fatal().Msg("set auth.jwt_secret in config or JWT_KEY in the environment")
	}
	auth.Init(cfg.Auth.JWTSecret, cfg.TokenTTL())

	db, err := storage.Connect(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	if err := storage.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	if cfg.Seed.ChainEmail != "" {
		err = account.SeedHotelChain(db, cfg.Seed.ChainName, cfg.Seed.ChainEmail, cfg.Seed.ChainPhone, cfg.Seed.Password)
		if err != nil {
			logger.Fatal().Err(err).Msg("seeding hotel chain failed")
		}
	}

	if cfg.Monitoring.MetricsEnabled {
		metrics.Register()
		go startMetricsServer(cfg.Monitoring.MetricsPort, &logger)
	}

	app := fiber.New(fiber.Config{
		AppName:      "EHOTELS",
		ErrorHandler: apperr.Handler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	app.Use(requestLogger(&logger))

	setupRoutes(app)

	logger.Info().Str("address", cfg.Server.Address).Msg("server started")
	if err := app.Listen(cfg.Server.Address); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func requestLogger(logger *zerolog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("X-Request-Id", requestID)

		err := c.Next()

		logger.Info().
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("address", addr).Msg("metrics server started")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
