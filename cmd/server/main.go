package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/peerledger/internal/adapter/http"
	"github.com/iho/peerledger/internal/adapter/http/handler"
	postgresRepo "github.com/iho/peerledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/peerledger/internal/adapter/repository/redis"
	"github.com/iho/peerledger/internal/infrastructure/config"
	"github.com/iho/peerledger/internal/infrastructure/logger"
	"github.com/iho/peerledger/internal/infrastructure/metrics"
	"github.com/iho/peerledger/internal/infrastructure/postgres"
	"github.com/iho/peerledger/internal/infrastructure/redis"
	"github.com/iho/peerledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	registry := prometheus.NewRegistry()
	appMetrics := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	postRepo := postgresRepo.NewPostRepository(pool)
	commentRepo := postgresRepo.NewCommentRepository(pool)
	courseRepo := postgresRepo.NewCourseRepository(pool)
	assignmentRepo := postgresRepo.NewAssignmentRepository(pool)
	courseUserRepo := postgresRepo.NewCourseUserRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, transactionRepo, auditRepo, idGen, appMetrics)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, transactionRepo, auditRepo, idGen, appMetrics).
		WithRetrier(retrier)
	boardUC := usecase.NewBoardUseCase(txManager, postRepo, commentRepo)
	courseUC := usecase.NewCourseUseCase(txManager, courseRepo, assignmentRepo, courseUserRepo)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	transactionHandler := handler.NewTransactionHandler(ledgerUC)
	boardHandler := handler.NewBoardHandler(boardUC)
	courseHandler := handler.NewCourseHandler(courseUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		BoardHandler:       boardHandler,
		CourseHandler:      courseHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		Metrics:            appMetrics,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:             appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
