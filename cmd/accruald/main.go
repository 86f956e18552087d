package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	pkgkafka "github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/kafka"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/observability"
	pkgpostgres "github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/postgres"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/application/usecase"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/infrastructure/cache"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/infrastructure/config"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/infrastructure/kafka"
	pgRepo "github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/infrastructure/persistence/postgres"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/infrastructure/scheduler"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/presentation/rest"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slog.SetDefault(logger)

	logger.Info("starting accrual engine",
		"http_port", cfg.HTTPPort,
		"accrual_schedule", cfg.Accrual.Schedule,
	)

	// Metrics.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pgCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(pgCfg.DSN(), "file://internal/infrastructure/persistence/postgres/migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	loanRepo := pgRepo.NewLoanRepo(pool)
	ledgerRepo := pgRepo.NewLedgerRepo(pool)
	paymentRepo := pgRepo.NewPaymentRepo(pool)
	jobRepo := pgRepo.NewAccrualJobRepo(pool)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := kafka.NewEventPublisher(kafkaProducer, cfg.Kafka.Topic, logger)

	var calcCache port.Cache = cache.NewNoopCache()
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// The cache is best-effort; run without it rather than refuse to start.
			logger.Warn("redis unreachable, running without calculation cache", "error", err)
			redisClient = nil
		} else {
			calcCache = cache.NewRedisCache(redisClient, logger)
			logger.Info("connected to redis")
		}
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Domain services.
	rates := service.NewRateResolver(nil)
	interestCalc := service.NewProRataInterestCalculator(rates)
	emiCalc := service.NewEMICalculator()
	penaltyCalc := service.NewPenaltyCalculator(0)
	allocator := service.NewPaymentAllocator()

	// Wire use cases.
	interestUC := usecase.NewComputeInterestUseCase(loanRepo, paymentRepo, calcCache, interestCalc)
	scheduleUC := usecase.NewGenerateScheduleUseCase(loanRepo, emiCalc)
	penaltyUC := usecase.NewComputePenaltyUseCase(loanRepo, penaltyCalc)
	duesUC := usecase.NewProjectDuesUseCase(loanRepo, interestCalc)
	paymentUC := usecase.NewAllocatePaymentUseCase(loanRepo, paymentRepo, ledgerRepo, calcCache, publisher, allocator)
	accrualUC := usecase.NewRunDailyAccrualUseCase(
		loanRepo, ledgerRepo, jobRepo, calcCache, publisher,
		rates, interestCalc, logger, cfg.Accrual.Workers,
	)
	ledgerUC := usecase.NewGetLedgerUseCase(loanRepo, ledgerRepo)
	portfolioUC := usecase.NewPortfolioSnapshotUseCase(loanRepo, interestCalc)

	// Daily accrual schedule.
	accrualScheduler := scheduler.NewAccrualScheduler(accrualUC, logger)
	if err := accrualScheduler.Start(cfg.Accrual.Schedule); err != nil {
		logger.Error("failed to start accrual scheduler", "error", err)
		os.Exit(1)
	}
	defer accrualScheduler.Stop()

	// HTTP server.
	mux := http.NewServeMux()
	readiness := map[string]rest.ReadinessCheck{
		"postgres": func(ctx context.Context) error {
			return pkgpostgres.HealthCheck(ctx, pool)
		},
	}
	rest.NewHealthHandler(logger, readiness).RegisterRoutes(mux)
	rest.NewAccrualHandler(
		interestUC, scheduleUC, penaltyUC, duesUC,
		paymentUC, accrualUC, ledgerUC, portfolioUC, logger,
	).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("accrual engine stopped")
}
