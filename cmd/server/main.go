package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/zjttbkd/simple-accounting-book/internal/adapter/http"
	"github.com/zjttbkd/simple-accounting-book/internal/adapter/http/handler"
	postgresRepo "github.com/zjttbkd/simple-accounting-book/internal/adapter/repository/postgres"
	redisRepo "github.com/zjttbkd/simple-accounting-book/internal/adapter/repository/redis"
	"github.com/zjttbkd/simple-accounting-book/internal/infrastructure/config"
	"github.com/zjttbkd/simple-accounting-book/internal/infrastructure/logging"
	"github.com/zjttbkd/simple-accounting-book/internal/infrastructure/metrics"
	"github.com/zjttbkd/simple-accounting-book/internal/infrastructure/postgres"
	"github.com/zjttbkd/simple-accounting-book/internal/infrastructure/redis"
	"github.com/zjttbkd/simple-accounting-book/internal/infrastructure/signing"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.LogFormat != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()
	signer := signing.NewSHA256Signer()
	appLogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	instructionRepo := postgresRepo.NewInstructionRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(m, appLogger)

	settlementUC := usecase.NewSettlementUseCase(txManager, instructionRepo, accountRepo, entryRepo, signer, idGen, m)
	accountUC := usecase.NewAccountUseCase(accountRepo, signer, m)
	entryUC := usecase.NewEntryUseCase(entryRepo)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    handler.NewAccountHandler(accountUC),
		SettlementHandler: handler.NewSettlementHandler(settlementUC, retrier),
		EntryHandler:      handler.NewEntryHandler(entryUC),
		LedgerHandler:     handler.NewLedgerHandler(ledgerUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		Metrics:           m,
		Logger:            log.Logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
