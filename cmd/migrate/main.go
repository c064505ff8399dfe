package main

import (
	"context"
	"fmt"

	"customer-manager/internal/config"
	"customer-manager/internal/db"
	applog "customer-manager/internal/logger"
	"customer-manager/internal/migrate"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := applog.New("info", "json")
		log.Fatal().Err(err).Msg("load config")
	}
	logger := applog.New(cfg.LogLevel, cfg.LogFormat).With().Str("cmd", "migrate").Str("store", cfg.Store).Logger()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("migrate failed")
	}
	logger.Info().Msg("migrations applied")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString, logger, false)
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		defer pool.Close()

		if err := migrate.Apply(ctx, pool, logger); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}

	case config.StoreMongo:
		client, err := db.ConnectMongo(ctx, cfg.MongoURL, logger)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer client.Disconnect(context.Background())

		coll := client.Database(cfg.MongoDatabase).Collection(db.CustomersCollection)
		if err := db.EnsureCustomerIndexes(ctx, coll); err != nil {
			return fmt.Errorf("ensure customer indexes: %w", err)
		}

	default:
		return fmt.Errorf("unknown store %q", cfg.Store)
	}
	return nil
}
