package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"codeassist-be/internal/config"
	"codeassist-be/internal/container"
	"codeassist-be/internal/handler"
	"codeassist-be/internal/middleware"
	"codeassist-be/internal/repository"
	"codeassist-be/internal/service/identity"
	"codeassist-be/pkg/logger"
	"codeassist-be/pkg/redis"
)

// Resources holds all resources that need cleanup
type Resources struct {
	firestoreClient *firestore.Client
	redisClient     *redis.Client
	server          *http.Server
	log             *logger.Logger
	mu              sync.Mutex
	closed          bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errors []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errors = append(errors, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	// Close Redis connection with health check
	if r.redisClient != nil {
		r.log.Info("Closing Redis connection...")

		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.redisClient.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Redis health check failed before closing")
		}
		healthCancel()

		if err := r.redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errors = append(errors, fmt.Errorf("Redis close: %w", err))
		} else {
			r.log.Info("Redis connection closed successfully")
		}
	}

	// Close Firestore client
	if r.firestoreClient != nil {
		r.log.Info("Closing Firestore client...")
		if err := r.firestoreClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Firestore client")
			errors = append(errors, fmt.Errorf("Firestore close: %w", err))
		} else {
			r.log.Info("Firestore client closed successfully")
		}
	}

	if len(errors) > 0 {
		r.log.WithField("error_count", len(errors)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errors), errors)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting codeassist-be server")

	if cfg.UsingDefaultJWTSecret() {
		log.Warn("JWT_SECRET not set, using default signing secret. Do not run like this in production")
	}

	ctx := context.Background()

	// Initialize Firebase app and derived clients
	firebaseApp, err := identity.NewFirebaseApp(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize Firebase app")
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize Firebase Auth client")
	}

	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize Firestore client")
	}

	// Initialize Redis connection; caching is optional
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to connect to Redis, proceeding without caching")
			redisClient = nil
		}
	}

	// Create dependency injection container
	identityProvider := identity.NewService(authClient, log)
	profileRepo := repository.NewFirestoreProfileRepository(firestoreClient, log)
	container := container.New(cfg, log, identityProvider, profileRepo, redisClient)

	// Setup router
	router := setupRouter(container)

	// Create HTTP server. Write timeout leaves headroom above the 15s
	// external call timeout.
	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Create resources manager for cleanup
	resources := &Resources{
		firestoreClient: firestoreClient,
		redisClient:     redisClient,
		server:          server,
		log:             log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(container *container.Container) *chi.Mux {
	cfg := container.GetConfig()
	log := container.GetLogger()
	sessionService := container.GetSessionService()

	r := chi.NewRouter()

	// Setup CORS middleware
	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	// Setup middlewares
	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Create handlers
	healthHandler := handler.NewHealthHandler(container)
	authHandler := handler.NewAuthHandler(container)
	lintHandler := handler.NewLintHandler(container)
	suggestHandler := handler.NewSuggestHandler(container)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Health)

	// Public auth routes: registration and the identity-to-session exchange
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/session", authHandler.ExchangeSession)
		r.Post("/logout", authHandler.Logout)
	})

	// Protected routes (require a valid session token)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessionService, log))

		r.Post("/lint", lintHandler.Lint)
		r.Post("/suggest", suggestHandler.Suggest)

		r.Route("/user", func(r chi.Router) {
			r.Get("/profile", authHandler.GetProfile)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Endpoint not found"}`))
	})

	log.Info("Router configured successfully")
	return r
}
