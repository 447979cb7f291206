// Package routes defines HTTP routes for the listings API.
package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/manojtanwar99/stayvira/docs"
	"github.com/manojtanwar99/stayvira/internal/config"
	"github.com/manojtanwar99/stayvira/internal/handlers"
	"github.com/manojtanwar99/stayvira/internal/metrics"
	"github.com/manojtanwar99/stayvira/internal/middleware"
	"github.com/manojtanwar99/stayvira/internal/models"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Listing *handlers.ListingHandler
	User    *handlers.UserHandler
	Health  *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, authenticator middleware.Authenticator, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) {
	router.Use(
		middleware.RequestLogger(logger),
		m.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// Uploaded images are served directly only when they are kept on disk.
	if cfg.Storage.Driver == config.StorageDisk {
		router.Static("/uploads", cfg.Storage.UploadDir)
	}

	authenticated := middleware.Authenticate(authenticator, m)
	can := middleware.RequireCapability

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.GET("/token-status", authenticated, h.Auth.TokenStatus)
	}

	listings := api.Group("/listings", authenticated)
	{
		listings.GET("", can(models.CapListingsRead), h.Listing.List)
		listings.GET("/stats", can(models.CapListingsRead), h.Listing.Stats)
		listings.GET("/:id", can(models.CapListingsRead), h.Listing.Get)
		listings.POST("", can(models.CapListingsWrite), h.Listing.Create)
		listings.PUT("/:id", can(models.CapListingsWrite), h.Listing.Update)
		listings.DELETE("/:id", can(models.CapListingsWrite), h.Listing.Delete)
	}

	users := api.Group("/users", authenticated)
	{
		users.GET("/profile", h.User.Profile)
		users.PUT("/profile", can(models.CapProfileWrite), h.User.UpdateProfile)
		users.POST("/upload-image", can(models.CapProfileWrite), h.User.UploadImage)

		users.GET("", can(models.CapUsersRead), h.User.List)
		users.GET("/:id", can(models.CapUsersRead), h.User.Get)
		users.POST("", can(models.CapUsersWrite), h.User.Create)
		users.PUT("/:id", can(models.CapUsersWrite), h.User.Update)
		users.DELETE("/:id", can(models.CapUsersWrite), h.User.Delete)
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.Server.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.Server.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
