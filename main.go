package main

import (
	"catalog_server/api"
	"catalog_server/config"
	"catalog_server/database"
	"catalog_server/services"
	"catalog_server/structs"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
)

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger and database
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := database.Initialize(); err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
}

func main() {
	ctx := context.Background()

	if err := initSentry(cfg.Sentry); err != nil {
		logger.Warn("Failed to initialize Sentry", gecho.Field("error", err))
	}
	defer sentry.Flush(2 * time.Second)

	db := database.GetInstance()
	defer database.CloseInstance()

	if cfg.Database.RunMigrations {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Failed to run migrations", gecho.Field("error", err))
		}
	}

	sm, err := services.NewServiceManager(ctx, logger, cfg, db)
	if err != nil {
		logger.Fatal("Failed to initialize services", gecho.Field("error", err))
	}
	defer sm.Close()

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Setup graceful shutdown BEFORE starting the server
	done := setupGracefulShutdown(logger, server, cfg.Server.ShutdownTimeout)

	logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))

	// Start server
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to start server", gecho.Field("error", err))
		return
	}

	<-done
	logger.Info("Server stopped")
}

func initSentry(sentryCfg *structs.SentryConfig) error {
	if sentryCfg.DSN == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              sentryCfg.DSN,
		Environment:      sentryCfg.Environment,
		Release:          sentryCfg.Release,
		TracesSampleRate: sentryCfg.TracesSampleRate,
	})
}

// setupGracefulShutdown drains the server on SIGINT or SIGTERM; the returned
// channel closes once shutdown has finished
func setupGracefulShutdown(logger *gecho.Logger, server *http.Server, timeout time.Duration) <-chan struct{} {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})

	logger.Info("Graceful shutdown handler initialized")

	go func() {
		defer close(done)

		sig := <-c
		logger.Info("Received shutdown signal", gecho.Field("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", gecho.Field("error", err))
		}
	}()

	return done
}
