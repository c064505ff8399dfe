package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"customer-manager/internal/bootstrap"
	"customer-manager/internal/config"
	"customer-manager/internal/importer"
	applog "customer-manager/internal/logger"
	customersvc "customer-manager/internal/service/customer"
	"github.com/rs/zerolog"
)

func main() {
	var (
		filePath string
		publish  bool
	)
	flag.StringVar(&filePath, "file", "", "Path to customer CSV file (header: name,surname,email,initials,mobile)")
	flag.BoolVar(&publish, "publish-events", false, "Publish customer.created events for imported rows")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log := applog.New("info", "json")
		log.Fatal().Err(err).Msg("load config")
	}
	logger := applog.New(cfg.LogLevel, cfg.LogFormat).With().Str("cmd", "importer").Logger()

	if err := run(context.Background(), cfg, logger, filePath, publish); err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, filePath string, publish bool) error {
	repo, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open customer store: %w", err)
	}
	defer closeStore()

	svc := customersvc.New(repo, nil, logger)
	if publish {
		publisher, err := bootstrap.OpenPublisher(cfg, logger)
		if err != nil {
			return fmt.Errorf("open event publisher: %w", err)
		}
		defer publisher.Close()
		svc = customersvc.New(repo, publisher, logger)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	res, err := importer.NewCSVImporter(f, svc, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("after %d imported: %w", res.Imported, err)
	}

	logger.Info().
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Dur("took", time.Since(start).Truncate(time.Millisecond)).
		Msg("import finished")
	return nil
}
