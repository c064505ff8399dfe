package main

import (
	"context"
	"fmt"

	"customer-manager/internal/bootstrap"
	"customer-manager/internal/config"
	applog "customer-manager/internal/logger"
	"customer-manager/internal/seed"
	customersvc "customer-manager/internal/service/customer"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := applog.New("info", "json")
		log.Fatal().Err(err).Msg("load config")
	}
	logger := applog.New(cfg.LogLevel, cfg.LogFormat).With().Str("cmd", "seed").Logger()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	repo, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open customer store: %w", err)
	}
	defer closeStore()

	created, err := seed.Apply(ctx, customersvc.New(repo, nil, logger), logger)
	if err != nil {
		return fmt.Errorf("seed apply: %w", err)
	}

	logger.Info().Int("created", created).Msg("seed applied")
	return nil
}
