package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"customer-manager/internal/bootstrap"
	"customer-manager/internal/config"
	"customer-manager/internal/httpserver"
	applog "customer-manager/internal/logger"
	custrepo "customer-manager/internal/repository/customer"
	customersvc "customer-manager/internal/service/customer"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type storeOpener func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (custrepo.Repository, func(), error)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := applog.New("info", "json")
		log.Fatal().Err(err).Msg("load config")
	}
	logger := applog.New(cfg.LogLevel, cfg.LogFormat).With().Str("cmd", "api").Str("env", cfg.Env).Logger()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	if err := run(context.Background(), cfg, logger, bootstrap.OpenStore, stopCh); err != nil {
		logger.Fatal().Err(err).Msg("api stopped")
	}
}

// run serves until a signal arrives on stopCh or the server fails. Every
// resource it opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, openStore storeOpener, stopCh <-chan os.Signal) error {
	repo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open customer store (%s): %w", cfg.Store, err)
	}
	defer closeStore()

	publisher, err := bootstrap.OpenPublisher(cfg, logger)
	if err != nil {
		return fmt.Errorf("open event publisher: %w", err)
	}
	defer publisher.Close()

	customerService := customersvc.New(repo, publisher, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		CustomerSvc:        customerService,
		Store:              repo,
		AuthUsers:          cfg.AuthUsers,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		runErr = fmt.Errorf("server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(runErr, fmt.Errorf("graceful shutdown: %w", err))
	}
	logger.Info().Msg("server stopped")
	return runErr
}
