package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/transit-pass-api/auth"
	"github.com/kendall-kelly/transit-pass-api/config"
	"github.com/kendall-kelly/transit-pass-api/events"
	"github.com/kendall-kelly/transit-pass-api/logger"
	"github.com/kendall-kelly/transit-pass-api/routes"
	"github.com/kendall-kelly/transit-pass-api/services"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Env: "development", Level: "info"})
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.New(logger.Config{Env: cfg.GoEnv, Level: cfg.LogLevel})
	log.Info().Str("env", cfg.GoEnv).Msg("Starting Transit Pass API server...")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := config.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Msg("Database migration completed successfully")

	hasher := auth.NewPasswordHasher(cfg.BcryptCost, cfg.HashConcurrency)
	seed, err := seedData(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid seed configuration")
	}
	if err := services.Seed(ctx, db, hasher, seed); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed database")
	}

	deps := routes.Dependencies{
		Config:    cfg,
		DB:        db,
		Hasher:    hasher,
		Tokens:    auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL),
		Redis:     config.NewRedisClient(ctx, cfg),
		Publisher: newPublisher(cfg),
	}
	defer deps.Publisher.Close()
	if deps.Redis != nil {
		defer deps.Redis.Close()
	}

	if cfg.S3Enabled() {
		storage, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		deps.Storage = storage
	} else {
		log.Info().Msg("AWS_S3_BUCKET not set, order export disabled")
	}

	router := routes.SetupRouter(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// newPublisher connects to RabbitMQ when RABBITMQ_URL is set. Without a broker
// order events are dropped.
func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.RabbitMQURL == "" {
		log.Info().Msg("RABBITMQ_URL not set, order events disabled")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.OrderEventsQueue)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, order events disabled")
		return events.NoopPublisher{}
	}
	return publisher
}

// seedData builds the startup seed from ADMIN_* and SEED_PROMOTIONS
func seedData(cfg *config.Config) (services.SeedData, error) {
	promotions, err := services.ParsePromotionSeeds(cfg.SeedPromotions)
	if err != nil {
		return services.SeedData{}, err
	}

	data := services.SeedData{Promotions: promotions}
	if cfg.SeedAdmin() {
		data.Admin = &services.RegisterUserInput{
			FirstName: cfg.AdminFirstName,
			LastName:  cfg.AdminLastName,
			Email:     cfg.AdminEmail,
			Password:  cfg.AdminPassword,
		}
	}
	return data, nil
}
