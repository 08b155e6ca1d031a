package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/meditrack/meditrack-backend/internal/auth"
	"github.com/meditrack/meditrack-backend/internal/cache"
	"github.com/meditrack/meditrack-backend/internal/config"
	"github.com/meditrack/meditrack-backend/internal/database"
	"github.com/meditrack/meditrack-backend/internal/handlers"
	"github.com/meditrack/meditrack-backend/internal/middleware"
	"github.com/meditrack/meditrack-backend/internal/repository"
	"github.com/meditrack/meditrack-backend/internal/services"
	"github.com/meditrack/meditrack-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting MediTrack backend")

	// Connect to database
	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	}

	if err := database.Connect(dbConfig); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory cache initialized")
	}

	// Initialize identity verifier
	var verifier auth.Verifier = auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	if cfg.Cache.Enabled {
		verifier = auth.NewCachedVerifier(verifier, cacheImpl, cfg.Cache.IdentityTTL)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	auditRepo := repository.NewAuditRepository()

	// Initialize services
	accountService := services.NewAccountService(userRepo, auditRepo)
	prescriptionService := services.NewPrescriptionService(prescriptionRepo, auditRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	accountHandler := handlers.NewAccountHandler(accountService)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionService)

	// Auth gate
	authGate := middleware.NewAuth(verifier, userRepo)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics)
	}
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Unauthenticated endpoints
	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Account API. Creation admits callers with no directory record yet;
	// everything else requires a registered user.
	r.Route("/api", func(r chi.Router) {
		r.With(authGate.RequireToken).Post("/create-user", accountHandler.CreateUser)
		r.With(authGate.RequireUser).Get("/profile", accountHandler.Profile)
	})

	// Prescription API
	r.Route("/prescriptions", func(r chi.Router) {
		r.Use(authGate.RequireUser)

		r.Get("/", prescriptionHandler.List)
		r.Post("/", prescriptionHandler.Create)
		r.Put("/{id}/approve", prescriptionHandler.Approve)
		r.Put("/{id}/reject", prescriptionHandler.Reject)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
