package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bookhive/bookhive/pkg/auth"
	"github.com/bookhive/bookhive/pkg/binder"
	"github.com/bookhive/bookhive/pkg/books"
	"github.com/bookhive/bookhive/pkg/config"
	"github.com/bookhive/bookhive/pkg/errcodes"
	"github.com/bookhive/bookhive/pkg/reviews"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	// Auth routes come first so the other groups can hang session
	// requirements off the returned middleware.
	authMiddleware := auth.RegisterRoutes(e, db, cfg)

	books.RegisterRoutes(e, db, cfg)
	reviews.RegisterRoutes(e, db, authMiddleware)

	e.GET("/", landing, authMiddleware.AuthenticateOptional)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// landing points clients at the routes available to them. An authenticated
// session gets the catalog links; an anonymous request gets the auth links.
func landing(c echo.Context) error {
	if session, ok := auth.SessionFromContext(c); ok {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message":  fmt.Sprintf("Welcome back, %s.", session.Username),
			"username": session.Username,
			"links": map[string]string{
				"search": "/search",
				"logout": "/logout",
			},
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Welcome to BookHive.",
		"links": map[string]string{
			"register": "/register",
			"login":    "/login",
		},
	})
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
