package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"
	"vagaMatch/business/recommendation"
	"vagaMatch/domain"
	psqlRepo "vagaMatch/internal/repository/postgres"
	"vagaMatch/pkg/config"
	"vagaMatch/pkg/database"
	"vagaMatch/pkg/logger"
	"vagaMatch/pkg/metrics"

	"github.com/google/uuid"
)

// The worker keeps stored recommendations warm: one full pass at startup,
// then stale users every refresh interval, plus a daily purge of rows that
// outlived the retention window.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting VagaMatch recommendation worker", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	userRepo := psqlRepo.NewUserRepository(db)
	opportunityRepo := psqlRepo.NewOpportunityRepository(db)
	interestRepo := psqlRepo.NewInterestRepository(db)
	applicationRepo := psqlRepo.NewApplicationRepository(db)
	recommendationRepo := psqlRepo.NewRecommendationRepository(db)

	engine := recommendation.NewEngine(
		recommendation.NewCommonInterestsStrategy(interestRepo, opportunityRepo, applicationRepo),
		recommendation.NewPopularityStrategy(applicationRepo),
	)

	svc := recommendation.NewService(
		engine,
		recommendationRepo,
		userRepo,
		opportunityRepo,
		applicationRepo,
		recommendation.Options{
			DefaultLimit:   cfg.Recommendation.DefaultLimit,
			MaxAge:         cfg.Recommendation.MaxAge,
			InterUserDelay: cfg.Recommendation.InterUserDelay,
			Retention:      cfg.Recommendation.Retention,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// First pass rebuilds everyone so a fresh deployment serves immediately.
	runCycle(ctx, svc, true)

	refreshTicker := time.NewTicker(cfg.Recommendation.RefreshInterval)
	defer refreshTicker.Stop()

	purgeTimer := time.NewTimer(untilNextPurge(time.Now(), cfg.Recommendation.PurgeHour))
	defer purgeTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Recommendation worker stopped")
			return

		case <-refreshTicker.C:
			runCycle(ctx, svc, false)

		case <-purgeTimer.C:
			if _, err := svc.PurgeInactive(ctx); err != nil {
				logger.Error("Purge failed", err)
			}
			purgeTimer.Reset(untilNextPurge(time.Now(), cfg.Recommendation.PurgeHour))
		}
	}
}

func runCycle(ctx context.Context, svc *recommendation.Service, full bool) {
	if ctx.Err() != nil {
		return
	}

	ctx = recommendation.ContextWithTraceID(ctx, uuid.NewString())
	start := time.Now()

	var (
		result domain.BatchResult
		err    error
	)

	if full {
		result, err = svc.RecomputeAllUsers(ctx)
	} else {
		result, err = svc.RefreshStaleUsers(ctx)
	}

	metrics.WorkerCycleDuration.Observe(time.Since(start).Seconds())
	metrics.WorkerUsersTotal.WithLabelValues("success").Add(float64(result.Success))
	metrics.WorkerUsersTotal.WithLabelValues("failed").Add(float64(result.Failed))

	if err != nil {
		metrics.WorkerCyclesTotal.WithLabelValues("failed").Inc()
		logger.Error("Batch cycle failed", err)
		return
	}

	metrics.WorkerCyclesTotal.WithLabelValues("success").Inc()
	logger.Info("Batch cycle finished",
		"full", full,
		"success", result.Success,
		"failed", result.Failed,
		"took", time.Since(start).String(),
	)
}

// untilNextPurge returns the wait until the next purge hour, local time.
func untilNextPurge(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
