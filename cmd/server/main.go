/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the commission engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment configuration (.env supported), apply flag overrides
  2. Build the structured logger
  3. Build the engine from the built-in table or RATE_TABLE_PATH
  4. Initialize SQLite store
  5. Create API handler and router
  6. Start the payables digest (unless DIGEST_SCHEDULE is empty)
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port    HTTP server port (PORT, default: 8080)
  -db      SQLite database path (DATABASE_PATH, default: commission.db)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the digest scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  ./server -db="./data/commission.db"
  RATE_TABLE_PATH=rates.yaml LOG_PRETTY=true ./server -port=3000

SEE ALSO:
  - config/config.go: Environment keys
  - api/server.go: Router configuration
  - factory/rates.go: Rate documents
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/warp/commission-engine/api"
	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/config"
	"github.com/warp/commission-engine/factory"
	"github.com/warp/commission-engine/logger"
	"github.com/warp/commission-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DatabasePath, "SQLite database path")
	flag.Parse()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	engine, err := buildEngine(cfg.RateTablePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build commission engine")
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dbPath).Msg("Failed to initialize database")
	}
	defer store.Close()

	handler := api.NewHandler(store, engine, log)
	handler.Workers = cfg.DigestWorkers
	router := api.NewRouter(handler)

	var digest *api.DigestScheduler
	if cfg.DigestSchedule != "" {
		digest = api.NewDigestScheduler(handler.Resolver, engine, log)
		digest.Workers = cfg.DigestWorkers
		if err := digest.Start(cfg.DigestSchedule); err != nil {
			log.Fatal().Err(err).Msg("Failed to start digest scheduler")
		}
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", *port).Str("db", *dbPath).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	if digest != nil {
		digest.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func buildEngine(rateTablePath string, log zerolog.Logger) (*commission.Engine, error) {
	if rateTablePath == "" {
		log.Info().Msg("Using built-in rate table")
		return commission.DefaultEngine(), nil
	}

	cfg, err := factory.NewConfigFactory().ParseFile(rateTablePath)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("path", rateTablePath).
		Int("rates", cfg.Rates.Len()).
		Ints("periods", cfg.Rates.Periods()).
		Msg("Loaded rate table")
	return commission.NewEngine(cfg)
}
