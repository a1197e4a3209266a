package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventregistry/config"
	_ "eventregistry/docs"
	"eventregistry/internal/adapters/auth"
	httpdelivery "eventregistry/internal/delivery/http"
	"eventregistry/internal/delivery/http/controllers"
	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/repository/postgres"
	"eventregistry/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title Event Registry API
// @version 1.0
// @description Event hosting and registration platform: organizers create capacity-bounded events, attendees register subject to capacity, approval, and the 24-hour cancellation window.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}
	cancel()

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokenIssuer, tokenVerifier := auth.NewJWTCodec(cfg.JWTSecret)

	userService := services.NewUserService(userRepo, hasher, tokenIssuer, cfg.TokenExpiry, serviceTimeout)
	eventService := services.NewEventService(eventRepo, serviceTimeout)
	registrationService := services.NewRegistrationService(eventRepo, registrationRepo, serviceTimeout)

	authController := controllers.NewAuthController(logger, userService)
	userController := controllers.NewUserController(logger, userService)
	eventController := controllers.NewEventController(logger, eventService)
	registrationController := controllers.NewRegistrationController(logger, registrationService)

	mux := httpdelivery.NewRouter(logger, tokenVerifier, authController, userController, eventController, registrationController)

	var handler http.Handler = mux
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	}
	handler = middleware.LoggingMiddleware(logger, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: serviceTimeout,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
