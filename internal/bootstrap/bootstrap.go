// Package bootstrap opens the configured customer store and event publisher.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"customer-manager/internal/config"
	"customer-manager/internal/db"
	"customer-manager/internal/events"
	custrepo "customer-manager/internal/repository/customer"
	"github.com/rs/zerolog"
)

const disconnectTimeout = 5 * time.Second

// OpenStore connects to the backend named by cfg.Store and returns the
// customer repository with a func releasing its connections.
func OpenStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (custrepo.Repository, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString, logger, cfg.Env == "local")
		if err != nil {
			return nil, nil, err
		}
		return custrepo.NewPostgres(pool, logger), pool.Close, nil

	case config.StoreMongo:
		client, err := db.ConnectMongo(ctx, cfg.MongoURL, logger)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.MongoDatabase).Collection(db.CustomersCollection)
		if err := db.EnsureCustomerIndexes(ctx, coll); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ensure customer indexes: %w", err)
		}
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				logger.Warn().Err(err).Msg("mongo disconnect failed")
			}
		}
		return custrepo.NewMongo(coll, logger), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// OpenPublisher returns an AMQP publisher when an AMQP URL is configured and
// a no-op publisher otherwise.
func OpenPublisher(cfg *config.Config, logger zerolog.Logger) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		logger.Info().Msg("no amqp url configured, customer events disabled")
		return events.NopPublisher{}, nil
	}
	return events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsExchange, logger)
}
