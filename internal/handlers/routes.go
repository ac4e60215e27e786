package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"sareehouse/internal/middleware"
	"sareehouse/internal/services"
)

// Set groups the API handlers so they can be mounted together.
type Set struct {
	Auth        *AuthHandler
	Products    *ProductHandler
	Users       *UserHandler
	Collections *CollectionHandler

	// AuthRateLimit, when set, guards the /auth routes.
	AuthRateLimit fiber.Handler
}

// Mount registers the /api/v1 routes on router. Public routes come first.
// Authentication is attached only under the prefixes that need it, so an
// unknown /api/v1 path still answers 404. The /products prefix gets the
// auth and admin checks after the public catalog routes, so they only see
// requests those routes did not answer.
func (s Set) Mount(router fiber.Router, authService *services.AuthService, log *slog.Logger) {
	apiV1 := router.Group("/api/v1")

	if s.AuthRateLimit != nil {
		apiV1.Use("/auth", s.AuthRateLimit)
	}
	s.Auth.RegisterRoutes(apiV1)
	s.Products.RegisterRoutes(apiV1)

	authRequired := middleware.AuthRequired(authService, log)
	apiV1.Use("/users", authRequired)
	s.Users.RegisterRoutes(apiV1)
	apiV1.Use("/me", authRequired)
	s.Collections.RegisterRoutes(apiV1)

	apiV1.Use("/products", authRequired, middleware.RequireAdmin())
	s.Products.RegisterAdminRoutes(apiV1)
}
