package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blended-settlement/config"
	"blended-settlement/internal/adapter/events"
	httpHandler "blended-settlement/internal/adapter/http/handler"
	"blended-settlement/internal/adapter/provider"
	pgStorage "blended-settlement/internal/adapter/storage/postgres"
	redisStorage "blended-settlement/internal/adapter/storage/redis"
	"blended-settlement/internal/core/ports"
	"blended-settlement/internal/service"
	"blended-settlement/pkg/logger"
	"blended-settlement/pkg/obfuscate"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting blended settlement service")

	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize event publisher; settlement works without NATS, events are
	// best-effort.
	var publisher ports.EventPublisher = events.NopPublisher{}
	if cfg.NATS.URL != "" {
		natsPub, err := events.Connect(cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("NATS unavailable, transaction events disabled")
		} else {
			defer natsPub.Close()
			publisher = natsPub
		}
	}

	// Initialize repositories
	customerRepo := pgStorage.NewCustomerRepo(pool)
	orderRepo := pgStorage.NewOrderRepo(pool)
	clientRepo := pgStorage.NewAPIClientRepo(pool)

	// Initialize the per-customer ledger guard
	guard := redisStorage.NewMutationGuard(rdb, cfg.Credit.GuardTTL)

	// Initialize the provider adapter
	providerClient := provider.NewClient(cfg.Provider, logger.Component(log, "provider"))
	couponResolver := provider.NewCouponResolver(providerClient)

	// Obfuscation codec for external transaction ids
	codec, err := obfuscate.NewCodec(cfg.Obfuscate.Secret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize id codec")
	}

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	maxPositive, maxNegative, maxAmount, err := cfg.Credit.Limits()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid credit limits")
	}

	// Initialize business services
	authSvc := service.NewAuthService(clientRepo, hashSvc, tokenSvc)
	ledgerSvc := service.NewLedgerService(
		customerRepo,
		guard,
		couponResolver,
		maxPositive,
		maxNegative,
		logger.Component(log, "ledger"),
	)
	txnSvc := service.NewTransactionService(
		customerRepo,
		orderRepo,
		ledgerSvc,
		providerClient,
		publisher,
		maxAmount,
		cfg.Credit.Currency,
		logger.Component(log, "settlement"),
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.NewRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		TxnSvc:         txnSvc,
		LedgerSvc:      ledgerSvc,
		CustomerRepo:   customerRepo,
		TokenSvc:       tokenSvc,
		Codec:          codec,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
