package api

import (
	"github.com/beardtrust/user-service/internal/api/handlers"
	"github.com/beardtrust/user-service/internal/auth"
	"github.com/beardtrust/user-service/internal/config"
	"github.com/beardtrust/user-service/internal/models"
	"github.com/beardtrust/user-service/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, userService services.UserServiceProvider, tokens *auth.TokenManager, authorizer *auth.Authorizer) *chi.Mux {
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
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", cfg.RoleHeaderName},
		ExposedHeaders:   []string{cfg.TokenHeaderName, "BTUID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Token verification runs on every request; anonymous requests pass
	// through and the route guards below reject them where required.
	r.Use(authorizer.Middleware)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	authHandler := handlers.NewAuthHandler(userService, tokens, cfg)
	adminHandler := handlers.NewAdminHandler(userService)

	requireAdmin := auth.RequireRole(models.RoleAdmin)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", userHandler.Health)

		// Anonymous endpoints
		r.Post("/users", userHandler.Register)
		r.Post("/login", authHandler.Login)

		// Self-service endpoints
		r.Route("/users/{id}", func(r chi.Router) {
			r.Use(auth.RequireSelfOrAdmin)
			r.Get("/", userHandler.Get)
			r.Put("/", userHandler.Update)
			r.Delete("/", userHandler.Delete)
		})

		// Administrative endpoints
		r.Route("/admin/users", func(r chi.Router) {
			r.With(requireAdmin).Get("/", adminHandler.List)
			r.With(requireAdmin).Post("/", adminHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.With(auth.RequireSelfOrAdmin).Get("/", userHandler.Get)
				r.With(requireAdmin).Put("/", userHandler.Update)
				r.With(auth.RequireSelfOrAdmin).Delete("/", userHandler.Delete)
			})
		})
	})

	return r
}
