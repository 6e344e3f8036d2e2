package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/liteauth/liteauth-be/internal/api/handlers"
	"github.com/liteauth/liteauth-be/internal/auth"
	"github.com/liteauth/liteauth-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(userService services.UserServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Post("/check-username", authHandler.CheckUsername)
			r.Post("/check-email", authHandler.CheckEmail)
			r.Post("/check-password", authHandler.CheckPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(auth.JWTMiddleware())
			r.Get("/me", userHandler.GetMe)

			// Admin-only user management
			r.Group(func(r chi.Router) {
				r.Use(auth.AdminOnly())
				r.Get("/", userHandler.List)
				r.Put("/", userHandler.UpdateRole)
			})
		})
	})

	return r
}
