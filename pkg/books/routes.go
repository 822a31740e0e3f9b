package books

import (
	"github.com/bookhive/bookhive/pkg/config"
	"github.com/bookhive/bookhive/pkg/ratings"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the public catalog routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config) {
	h := &handler{
		bookService:   NewService(db),
		ratingsClient: ratings.NewClient(cfg.RatingsBaseURL, cfg.RatingsTimeout),
	}

	e.GET("/search", h.search)
	e.POST("/search", h.search)
	e.GET("/book", h.retrieve)
	e.GET("/api/:isbn", h.summary)
}
