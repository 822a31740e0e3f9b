package reviews

import (
	"github.com/bookhive/bookhive/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all the review routes. Submitting a review
// requires an authenticated session.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	h := handler{
		reviewService: NewService(db),
	}

	e.POST("/submit_review", h.submit, authMiddleware.Authenticate)
}
