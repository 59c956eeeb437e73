package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/assistant"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/config"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/database"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/handlers"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/repository"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/services"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/session"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/storage"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting SmartInvest API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to apply database schema", err, nil)
	}

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Sessions live in Redis
	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis", err, map[string]interface{}{
			"address": cfg.Redis.Address,
		})
	}
	defer rdb.Close()
	sessions := session.NewRedisStore(rdb.Client, cfg.Auth.SessionTTL)

	images, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to configure image storage", err, map[string]interface{}{
			"bucket": cfg.Storage.Bucket,
		})
	}

	// The assistant stays mounted without a key and answers 503.
	var provider assistant.Provider
	if cfg.AssistantEnabled() {
		gemini, err := assistant.NewGeminiProvider(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model)
		if err != nil {
			log.Fatal("Failed to create assistant provider", err, nil)
		}
		provider = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set, AI assistant disabled", nil)
	}
	asker := assistant.NewService(provider, log)

	// Initialize repository and service layers
	profileRepo := repository.NewProfileRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	advisorRepo := repository.NewAdvisorRepository(db)

	authService := services.NewAuthService(profileRepo, sessions, cfg.Auth.AdminEmail, log)
	propertyService := services.NewPropertyService(propertyRepo, log)
	advisorService := services.NewAdvisorService(advisorRepo, propertyRepo, log)
	dealService := services.NewDealService(propertyService, log)

	if cfg.Auth.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			log.Fatal("Failed to bootstrap admin account", err, map[string]interface{}{
				"email": cfg.Auth.AdminEmail,
			})
		}
	}

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(log, sessions, cfg.CORS.Origins, routeHandlers{
		health:   handlers.NewHealthHandler(db, rdb, cfg.Server.Env),
		auth:     handlers.NewAuthHandler(authService, log),
		property: handlers.NewPropertyHandler(propertyService, images, asker, log),
		analyzer: handlers.NewAnalyzerHandler(dealService, log),
		advisor:  handlers.NewAdvisorHandler(advisorService, log),
		upload:   handlers.NewUploadHandler(images, log),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
