package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	_ "github.com/otakupedia/catalog-api/api/swagger"
	"github.com/otakupedia/catalog-api/internal/handler"
	"github.com/otakupedia/catalog-api/internal/middleware"
	"github.com/otakupedia/catalog-api/internal/repository"
	"github.com/otakupedia/catalog-api/internal/server"
	"github.com/otakupedia/catalog-api/internal/service"
	"github.com/otakupedia/catalog-api/pkg/cache"
	"github.com/otakupedia/catalog-api/pkg/config"
	"github.com/otakupedia/catalog-api/pkg/database"
	"github.com/otakupedia/catalog-api/pkg/jobs"
	"github.com/otakupedia/catalog-api/pkg/logger"
	corsmiddleware "github.com/otakupedia/catalog-api/pkg/middleware/cors"
	reqidmiddleware "github.com/otakupedia/catalog-api/pkg/middleware/requestid"
	"github.com/otakupedia/catalog-api/pkg/storage"
)

// @title Otakupedia Catalog API
// @version 1.0.0
// @description Media catalog and community contribution backend
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	sugar := logr.Sugar()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		sugar.Warnw("redis unavailable, search caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	contributionRepo := repository.NewContributionRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	studioRepo := repository.NewStudioRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	voiceActorRepo := repository.NewVoiceActorRepository(db)
	scanlationRepo := repository.NewScanlationRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	rankingRepo := repository.NewRankingRepository(db)

	var cacheService *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Search.CacheTTL, logr, true)
	}

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "catalog-api",
	})

	notificationService := service.NewNotificationService(notificationRepo, redisClient, logr, jobs.QueueConfig{
		Workers:    cfg.Notifications.WorkerConcurrency,
		MaxRetries: cfg.Notifications.WorkerRetries,
		Logger:     logr,
	})

	applier := service.NewContributionApplier(mediaRepo, genreRepo, studioRepo, staffRepo, characterRepo, voiceActorRepo, logr)

	contributionService := service.NewContributionService(contributionRepo, userRepo, applier, notificationService, validate, logr)
	moderationService := service.NewModerationService(contributionRepo, userRepo, applier, notificationService, service.ModerationPoints{
		FullContribution: cfg.Contributions.ApprovalPoints,
		EditContribution: cfg.Contributions.EditApprovalPoints,
	}, logr)

	lookupService := service.NewLookupService(genreRepo, studioRepo, staffRepo, characterRepo, voiceActorRepo,
		cacheService, validate, logr, service.LookupConfig{
			DefaultLimit: cfg.Search.DefaultLimit,
			MaxLimit:     cfg.Search.MaxLimit,
		})

	scanlationService := service.NewScanlationService(scanlationRepo, mediaRepo, notificationService, validate, logr)
	reviewService := service.NewReviewService(reviewRepo, validate, logr)
	rankingService := service.NewRankingService(rankingRepo, userRepo, metricsService, logr, cfg.Cron.RefreshInterval)

	var exportService *service.ExportService
	if cfg.Exports.Enabled {
		fileStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			sugar.Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService = service.NewExportService(contributionRepo, fileStorage, signer, userRepo, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, validate, logr, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationService.Start(ctx)
	defer notificationService.Stop()
	if exportService != nil {
		exportService.Start(ctx)
		defer exportService.Stop()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())

	handlers := server.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Contributions: handler.NewContributionHandler(contributionService),
		Moderation:    handler.NewModerationHandler(moderationService),
		Lookups:       handler.NewLookupHandler(lookupService),
		Scanlation:    handler.NewScanlationHandler(scanlationService),
		Reviews:       handler.NewReviewHandler(reviewService),
		Notifications: handler.NewNotificationHandler(notificationService),
		Cron:          handler.NewCronHandler(rankingService, cfg.Cron.Secret),
		Metrics:       handler.NewMetricsHandler(metricsService),
	}
	if exportService != nil {
		handlers.Exports = handler.NewExportHandler(exportService)
	}

	server.RegisterRoutes(r, cfg, handlers, authService, userRepo)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
}
