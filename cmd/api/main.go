package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ecopoints/kiosk_api/internal/cache"
	"github.com/ecopoints/kiosk_api/internal/config"
	"github.com/ecopoints/kiosk_api/internal/database"
	"github.com/ecopoints/kiosk_api/internal/handler"
	"github.com/ecopoints/kiosk_api/internal/middleware"
	"github.com/ecopoints/kiosk_api/internal/repository"
	"github.com/ecopoints/kiosk_api/internal/service"
)

// main is the application entrypoint for the EcoPoints kiosk API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting kiosk api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize Redis-backed caches
	scanGuard := cache.NewScanGuard(redisClient)
	statsCache := cache.NewStatsCache(redisClient, cfg.Kiosk.StatsCacheTTL)

	// 4. Initialize repositories
	studentRepo := repository.NewStudentRepository(db)
	productRepo := repository.NewProductRepository(db)
	scanLogRepo := repository.NewScanLogRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// 5. Initialize services
	sectionSvc := service.NewSectionService(cfg.Kiosk.Sections)
	ledgerSvc := service.NewLedgerService(studentRepo, sectionSvc)
	sessionMgr := service.NewSessionManager(cfg.Kiosk.SessionTTL)
	scanSvc := service.NewScanService(productRepo, scanGuard, ledgerSvc, sessionMgr, cfg.Kiosk.ScanCooldown)
	adminAuthSvc := service.NewAdminAuthService(&cfg.Admin, cfg.JWTSecret)
	productSvc := service.NewProductService(productRepo)
	engagementSvc := service.NewEngagementService(engagementRepo, ledgerSvc)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, scanLogRepo, studentRepo, statsCache, cfg.Kiosk.SemesterGoal)

	// 6. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(cfg.JWTSecret)
	pinLimiter := middleware.NewPinRateLimiter()

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:     handler.NewHealthHandler(db, redisClient),
		Scan:       handler.NewScanHandler(scanSvc, sectionSvc),
		Student:    handler.NewStudentHandler(ledgerSvc),
		Product:    handler.NewProductHandler(productSvc),
		Engagement: handler.NewEngagementHandler(engagementSvc),
		Analytics:  handler.NewAnalyticsHandler(analyticsSvc),
		Auth:       handler.NewAuthHandler(adminAuthSvc, pinLimiter),
	}

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 9. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health     *handler.HealthHandler
	Scan       *handler.ScanHandler
	Student    *handler.StudentHandler
	Product    *handler.ProductHandler
	Engagement *handler.EngagementHandler
	Analytics  *handler.AnalyticsHandler
	Auth       *handler.AuthHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Kiosk session lifecycle and scanning
	sessions := router.Group("/v1/sessions")
	{
		sessions.POST("", handlers.Scan.OpenSession)
		sessions.DELETE("/:id", handlers.Scan.CloseSession)
		sessions.POST("/:id/account", handlers.Scan.BindAccount)
		sessions.POST("/:id/scan/identity", handlers.Scan.ScanIdentity)
		sessions.POST("/:id/scan/item", handlers.Scan.ScanItem)
	}

	// Student accounts and redemption
	router.GET("/v1/students/:lrn", handlers.Student.GetStudent)
	router.POST("/v1/students", handlers.Student.Register)
	router.POST("/v1/redemptions", handlers.Student.Redeem)

	// Public kiosk support endpoints
	router.GET("/v1/products", handlers.Product.ListProducts)
	router.GET("/v1/sections/normalize", handlers.Scan.NormalizeSection)
	router.GET("/v1/stats/global", handlers.Analytics.GetGlobalStats)

	// Voluntary post-deposit prompts
	router.POST("/v1/suggestions", handlers.Engagement.Suggest)
	router.POST("/v1/engagement/sentiment", handlers.Engagement.RecordSentiment)
	router.POST("/v1/engagement/trivia", handlers.Engagement.RecordTrivia)

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	admin.Use(jwtMiddleware.Handle())
	{
		// Whitelist management
		admin.POST("/products", handlers.Product.CreateProduct)
		admin.DELETE("/products/:barcode", handlers.Product.DeleteProduct)

		// Engagement review
		admin.GET("/suggestions", handlers.Engagement.ListSuggestions)
		admin.DELETE("/suggestions/:id", handlers.Engagement.DeleteSuggestion)
		admin.GET("/sentiment", handlers.Engagement.ListSentiment)
		admin.GET("/trivia", handlers.Engagement.ListTrivia)

		// Dashboard analytics
		admin.GET("/analytics/daily-scans", handlers.Analytics.GetDailyScans)
		admin.GET("/analytics/top-contributors", handlers.Analytics.GetTopContributors)
		admin.GET("/analytics/section-rankings", handlers.Analytics.GetSectionRankings)
		admin.GET("/analytics/peak-hours", handlers.Analytics.GetPeakHours)
		admin.GET("/analytics/economy", handlers.Analytics.GetEconomy)
		admin.GET("/analytics/registrations", handlers.Analytics.GetRegistrations)
		admin.GET("/analytics/semester-goal", handlers.Analytics.GetSemesterGoal)
		admin.GET("/analytics/recent-scans", handlers.Analytics.GetRecentScans)

		// Scan log maintenance
		admin.DELETE("/scans", handlers.Analytics.ClearScanLogs)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
