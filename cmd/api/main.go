// Package main is the entry point for the listings API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/manojtanwar99/stayvira/docs"
	"github.com/manojtanwar99/stayvira/internal/config"
	"github.com/manojtanwar99/stayvira/internal/database"
	"github.com/manojtanwar99/stayvira/internal/handlers"
	"github.com/manojtanwar99/stayvira/internal/metrics"
	"github.com/manojtanwar99/stayvira/internal/repository"
	"github.com/manojtanwar99/stayvira/internal/routes"
	"github.com/manojtanwar99/stayvira/internal/service"
	"github.com/manojtanwar99/stayvira/internal/storage"
	"github.com/manojtanwar99/stayvira/internal/validation"
	"golang.org/x/sync/errgroup"
)

// @title Stayvira Listings API
// @version 1.0
// @description Property listings and account management for the Stayvira admin dashboard
// @host localhost:5000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("service stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Initialize storage
	images, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)

	// Initialize services
	tokens, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	authService, err := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	userService := service.NewUserService(userRepo, images, cfg.Auth.BcryptCost, logger)
	listingService := service.NewListingService(listingRepo, images, logger)

	if cfg.Auth.SeedAdminEmail != "" {
		created, err := userService.EnsureAdmin(ctx, cfg.Auth.SeedAdminEmail, cfg.Auth.SeedAdminPassword, cfg.Auth.SeedAdminName)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		logger.Info("admin account ready", "email", cfg.Auth.SeedAdminEmail, "created", created)
	}

	if err := validation.Setup(); err != nil {
		return err
	}
	m := metrics.New()

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Storage.MaxUploadSize

	routes.Setup(router, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, m),
		Listing: handlers.NewListingHandler(listingService),
		User:    handlers.NewUserHandler(userService),
		Health:  handlers.NewHealthHandler(database.Pinger{DB: db}),
	}, authService, cfg, m, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server with errgroup for graceful shutdown
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting listings API", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exited properly")
	return nil
}

func newImageStore(ctx context.Context, cfg config.StorageConfig) (storage.ImageStore, error) {
	switch cfg.Driver {
	case config.StorageS3:
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.S3.PublicBaseURL,
			UsePathStyle:  cfg.S3.UsePathStyle,
			MaxSize:       cfg.MaxUploadSize,
			Prefix:        "uploads",
		})
	default:
		return storage.NewDiskStore(cfg.UploadDir, "/uploads", cfg.MaxUploadSize)
	}
}
