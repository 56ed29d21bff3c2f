package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	"vagaMatch/app/echo-server/metrics"
	"vagaMatch/app/echo-server/router"
	applicationService "vagaMatch/business/application"
	interestsService "vagaMatch/business/interests"
	opportunityService "vagaMatch/business/opportunity"
	"vagaMatch/business/recommendation"
	userService "vagaMatch/business/user"
	"vagaMatch/internal/middleware"
	"vagaMatch/internal/repository/notification"
	psqlRepo "vagaMatch/internal/repository/postgres"
	redisRepo "vagaMatch/internal/repository/redis"
	"vagaMatch/internal/rest"
	"vagaMatch/pkg/config"
	"vagaMatch/pkg/database"
	redisdb "vagaMatch/pkg/database/redis"
	"vagaMatch/pkg/logger"
	"vagaMatch/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting VagaMatch", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	// Server-lifetime context: cancelled on SIGINT/SIGTERM so detached
	// work (admin batch recomputes) stops with the server.
	serverCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close Redis client", err)
		}
	}()

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	opportunityRepo := psqlRepo.NewOpportunityRepository(db)
	interestRepo := psqlRepo.NewInterestRepository(db)
	applicationRepo := psqlRepo.NewApplicationRepository(db)
	recommendationRepo := psqlRepo.NewRecommendationRepository(db)
	sessionRepo := redisRepo.NewSessionRepository(redisClient)

	// Init recommendation engine
	engine := recommendation.NewEngine(
		recommendation.NewCommonInterestsStrategy(interestRepo, opportunityRepo, applicationRepo),
		recommendation.NewPopularityStrategy(applicationRepo),
	)

	recommendationService := recommendation.NewService(
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

	// Init service
	usrService := userService.NewUserService(userRepo, validate, mailjetEmail, sessionRepo, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	intService := interestsService.NewInterestsService(interestRepo, recommendationService)
	oppService := opportunityService.NewOpportunityService(opportunityRepo, interestRepo, recommendationService, validate)
	appService := applicationService.NewApplicationService(applicationRepo, opportunityRepo, recommendationService)

	// Init handler
	userHandler := rest.NewUserHandler(usrService)
	interestsHandler := rest.NewInterestsHandler(intService)
	opportunityHandler := rest.NewOpportunityHandler(oppService)
	applicationHandler := rest.NewApplicationHandler(appService)
	recommendationHandler := rest.NewRecommendationHandler(recommendationService)
	recommendationAdminHandler := rest.NewRecommendationAdminHandler(recommendationService, serverCtx)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(usrService)
	studentOnly := middleware.StudentOnly()
	staffOnly := middleware.StaffOnly()
	selfOrStaff := middleware.SelfOrStaff()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, selfOrStaff)
	router.SetupInterestRoutes(api, interestsHandler, authRequired)
	router.SetupOpportunityRoutes(api, opportunityHandler, authRequired, staffOnly)
	router.SetupApplicationRoutes(api, applicationHandler, authRequired, studentOnly)
	router.SetupRecommendationRoutes(api, recommendationHandler, authRequired, studentOnly)
	router.SetupRecommendationAdminRoutes(api, recommendationAdminHandler, authRequired, staffOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	<-serverCtx.Done()

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
