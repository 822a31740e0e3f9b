package auth

import (
	"github.com/bookhive/bookhive/pkg/config"
	"github.com/bookhive/bookhive/pkg/sessions"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all auth routes and returns the middleware other
// route groups hang their session requirements on.
func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config) *Middleware {
	sessionService := sessions.NewService(db, cfg.SessionTTL)
	authService := NewService(db, sessionService, nil)
	authMiddleware := NewMiddleware(sessionService, cfg.SessionSecret)

	h := &handler{
		authService: authService,
		secret:      cfg.SessionSecret,
	}

	e.POST("/register", h.register)
	e.POST("/login", h.login)
	e.GET("/logout", h.logout)
	e.POST("/logout", h.logout)
	e.GET("/me", h.me, authMiddleware.AuthenticateOptional)

	return authMiddleware
}
