// Package main is the entry point for the Session Tracker API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/white/session-tracker/config"
	"github.com/white/session-tracker/internal/events"
	"github.com/white/session-tracker/internal/handlers"
	"github.com/white/session-tracker/internal/middleware"
	"github.com/white/session-tracker/internal/repositories"
	"github.com/white/session-tracker/internal/services"
	"github.com/white/session-tracker/internal/session"
	"github.com/white/session-tracker/pkg/kafka"
	"github.com/white/session-tracker/pkg/mongodb"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "session-tracker").Logger()

	// Load environment variables (ignore error in dev)
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// MongoDB connection
	db, err := mongodb.NewClient(mongodb.Config{
		URI:         cfg.MongoDB.URI,
		Database:    cfg.MongoDB.Database,
		MaxPoolSize: cfg.MongoDB.MaxPoolSize,
		MinPoolSize: cfg.MongoDB.MinPoolSize,
		MaxRetries:  cfg.MongoDB.MaxRetries,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	logger.Info().Str("database", cfg.MongoDB.Database).Msg("Connected to MongoDB")

	userRepo := repositories.NewMongoUserRepository(db)
	activityRepo := repositories.NewMongoActivityRepository(db)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 15*time.Second)
	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Warn().Err(err).Msg("Failed to ensure users indexes")
	}
	if err := activityRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Warn().Err(err).Msg("Failed to ensure activities indexes")
	}
	cancelIndex()

	// Kafka producer for auth lifecycle events (best-effort: the API
	// runs fine without a broker)
	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		logger.Warn().Err(err).Msg("Kafka producer unavailable, auth events disabled")
		producer = nil
	}
	publisher := events.NewAuthPublisher(producer, cfg.Kafka.Topics, logger)

	// In-memory keyed session store with idle expiry
	sessionStore := session.NewStore(cfg.Session.TTL(), cfg.Session.SweepInterval(), logger)

	activityService := services.NewActivityService(activityRepo, logger)
	authService := services.NewAuthService(userRepo, activityService, logger)

	authHandler := handlers.NewAuthHandler(
		authService,
		sessionStore,
		publisher,
		cfg.Session.CookieName,
		cfg.Session.TTL(),
		cfg.Session.SecureCookies,
		logger,
	)
	sessionHandler := handlers.NewSessionHandler(sessionStore, activityService, logger)
	preferencesHandler := handlers.NewPreferencesHandler(authService, logger)
	activityHandler := handlers.NewActivityHandler(activityService, logger)
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Version)

	// Initialize router
	router := mux.NewRouter()

	// Add CORS middleware (must be first to handle preflight OPTIONS requests)
	router.Use(corsMiddleware)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Endpoint not found"}`))
	})

	// Health check endpoint
	router.HandleFunc("/health", healthHandler.GetOverallHealth).Methods("GET", "OPTIONS")

	// Swagger ui endpoint - API documentation
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:"+cfg.Server.Port+"/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST", "OPTIONS")

	// Routes behind the session guard
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.RequireSession(sessionStore, cfg.Session.CookieName))
	protected.HandleFunc("/preferences", preferencesHandler.UpdatePreferences).Methods("POST", "OPTIONS")
	protected.HandleFunc("/session/page", sessionHandler.RecordPageVisit).Methods("POST", "OPTIONS")
	protected.HandleFunc("/session", sessionHandler.GetSession).Methods("GET", "OPTIONS")
	protected.HandleFunc("/activities", activityHandler.ListActivities).Methods("GET", "OPTIONS")

	// HTTP server configuration
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	sessionStore.Close()
	if producer != nil {
		producer.Close()
	}
	if err := db.Close(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
	}

	logger.Info().Msg("Server stopped")
}

// corsMiddleware adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowedOrigins := []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}

		for _, allowed := range allowedOrigins {
			if origin == allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
