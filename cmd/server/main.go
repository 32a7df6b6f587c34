package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"

	"github.com/tmfg/garden/internal/config"
	"github.com/tmfg/garden/internal/database"
	"github.com/tmfg/garden/internal/notify"
	"github.com/tmfg/garden/internal/server"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// Load .env file (ignore error if the file doesn't exist)
	// Use Overload to force overwriting any existing environment variables
	if err := godotenv.Overload(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	stripe.Key = cfg.StripeSecretKey

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	notifier := notify.New(
		notify.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom),
		notify.NewGetOTPSender(cfg.GetOTPAPIKey, cfg.GetOTPAppID),
		cfg.AdminEmail,
		log,
	)

	srv := server.New(cfg, db, notifier, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("starting server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
