package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventregistry/internal/delivery/http/controllers"
	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Mutating routes and "my resources" queries are wrapped with RequireAuth;
// event browsing, user lookup, and the global registration listing are open,
// matching the reference system's surface.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Users
	mux.HandleFunc("GET /users", userController.ListUsers)
	mux.HandleFunc("GET /users/{userID}", userController.GetUser)
	mux.HandleFunc("PATCH /users/me", auth(userController.UpdateProfile))
	mux.HandleFunc("DELETE /users/me", auth(userController.DeleteAccount))

	// Events
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("PATCH /events/{eventID}", auth(eventController.UpdateEvent))
	mux.HandleFunc("POST /events/{eventID}/cancel", auth(eventController.CancelEvent))
	mux.HandleFunc("GET /my/events", auth(eventController.ListMyEvents))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(registrationController.Register))
	mux.HandleFunc("GET /events/{eventID}/registrations", auth(registrationController.ListForEvent))
	mux.HandleFunc("GET /my/registrations", auth(registrationController.ListMine))
	mux.HandleFunc("GET /registrations", registrationController.ListAll)
	mux.HandleFunc("POST /registrations/{registrationID}/approve", auth(registrationController.Approve))
	mux.HandleFunc("DELETE /registrations/{registrationID}", auth(registrationController.Cancel))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
