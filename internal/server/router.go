package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/otakupedia/catalog-api/internal/handler"
	"github.com/otakupedia/catalog-api/internal/middleware"
	"github.com/otakupedia/catalog-api/internal/models"
	"github.com/otakupedia/catalog-api/internal/repository"
	"github.com/otakupedia/catalog-api/internal/service"
	"github.com/otakupedia/catalog-api/pkg/config"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Contributions *handler.ContributionHandler
	Moderation    *handler.ModerationHandler
	Lookups       *handler.LookupHandler
	Scanlation    *handler.ScanlationHandler
	Reviews       *handler.ReviewHandler
	Notifications *handler.NotificationHandler
	Cron          *handler.CronHandler
	Exports       *handler.ExportHandler
	Metrics       *handler.MetricsHandler
}

// RegisterRoutes mounts the API surface on the engine. Route groups share the
// configured prefix; health, readiness, and metrics stay unprefixed.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, h Handlers, authService *service.AuthService, userRepo *repository.UserRepository) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", middleware.JWT(authService), h.Auth.Logout)
		auth.GET("/me", middleware.JWT(authService), h.Auth.Me)
	}

	userContributions := api.Group("/user/contributions", middleware.JWT(authService))
	{
		userContributions.POST("", h.Contributions.SubmitNew)
		userContributions.GET("", h.Contributions.ListMine)
		userContributions.GET("/:id", h.Contributions.Get)
	}
	api.POST("/content-contributions", middleware.JWT(authService), h.Contributions.SubmitEdit)

	moderation := api.Group("/moderation/contributions",
		middleware.JWT(authService),
		middleware.RequireRoles(models.RoleModerator, models.RoleAdmin))
	{
		moderation.GET("", h.Moderation.List)
		moderation.GET("/counts", h.Moderation.Counts)
		moderation.GET("/:id", h.Moderation.Detail)
		moderation.PATCH("/:id",
			middleware.Audit(userRepo, "moderation.decide", "contribution"),
			h.Moderation.Decide)
	}

	api.GET("/genres", h.Lookups.SearchGenres)
	api.GET("/studios", h.Lookups.SearchStudios)
	api.GET("/staff", h.Lookups.SearchStaff)
	api.GET("/characters", h.Lookups.SearchCharacters)
	api.GET("/voice-actors", h.Lookups.SearchVoiceActors)

	authed := api.Group("", middleware.JWT(authService))
	{
		authed.POST("/genres", middleware.RequireRoles(models.RoleAdmin), h.Lookups.CreateGenre)
		authed.POST("/studios", h.Lookups.CreateStudio)
		authed.POST("/staff", h.Lookups.CreateStaff)
		authed.POST("/characters", h.Lookups.CreateCharacter)
		authed.POST("/voice-actors", h.Lookups.CreateVoiceActor)
	}

	scan := api.Group("/scan")
	{
		scan.GET("/groups", h.Scanlation.SearchGroups)
		scan.GET("/projects", h.Scanlation.ListProjects)

		scanAuthed := scan.Group("", middleware.JWT(authService))
		{
			scanAuthed.POST("/groups", h.Scanlation.CreateGroup)
			scanAuthed.POST("/projects", h.Scanlation.RegisterProject)
			scanAuthed.PUT("/projects/:id", h.Scanlation.UpdateProject)
			scanAuthed.DELETE("/projects/:id", h.Scanlation.DeleteProject)
			scanAuthed.GET("/link-requests", h.Scanlation.ListLinkRequests)
			scanAuthed.POST("/link-requests", h.Scanlation.CreateLinkRequest)
			scanAuthed.PATCH("/link-requests/:id", h.Scanlation.DecideLinkRequest)
		}
	}

	api.GET("/reviews", h.Reviews.List)
	reviews := api.Group("/reviews", middleware.JWT(authService))
	{
		reviews.POST("", h.Reviews.Upsert)
		reviews.POST("/:id/helpful", h.Reviews.MarkHelpful)
		reviews.DELETE("/:id", h.Reviews.Delete)
	}

	notifications := api.Group("/notifications", middleware.JWT(authService))
	{
		notifications.GET("", h.Notifications.List)
		notifications.POST("/:id/read", h.Notifications.MarkRead)
		notifications.POST("/read-all", h.Notifications.MarkAllRead)
	}

	api.GET("/cron/refresh-rankings", h.Cron.RefreshScheduled)
	api.POST("/cron/refresh-rankings", h.Cron.RefreshManual)

	if h.Exports != nil {
		exports := api.Group("/admin/exports",
			middleware.JWT(authService),
			middleware.RequireRoles(models.RoleAdmin))
		{
			exports.POST("", h.Exports.Request)
			exports.GET("/:id", h.Exports.Status)
		}
		api.GET("/export/:token", h.Exports.Download)
	}

	api.GET("/system/metrics",
		middleware.JWT(authService),
		middleware.RequireRoles(models.RoleAdmin),
		h.Metrics.Snapshot)
}
