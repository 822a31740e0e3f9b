package auth

import (
	"net/http"

	"github.com/bookhive/bookhive/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	authService *Service
	secret      string
}

// register creates an account and logs the new user straight in.
func (h *handler) register(c echo.Context) error {
	ctx := c.Request().Context()

	params := RegisterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, session, err := h.authService.Register(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	c.SetCookie(newSessionCookie(c, SignToken(h.secret, session.Token)))

	return c.JSON(http.StatusCreated, MeResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// login authenticates and starts a session.
func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, session, err := h.authService.Login(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	c.SetCookie(newSessionCookie(c, SignToken(h.secret, session.Token)))

	return c.JSON(http.StatusOK, MeResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// logout removes the server-side session and clears the cookie. Safe to call
// without a session.
func (h *handler) logout(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		if token, ok := verifyToken(h.secret, cookie.Value); ok {
			if err := h.authService.Logout(ctx, token); err != nil {
				return err
			}
		}
	}

	c.SetCookie(expiredSessionCookie(c))

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// me returns the current session's user.
func (h *handler) me(c echo.Context) error {
	session, ok := SessionFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Not authenticated")
	}

	return c.JSON(http.StatusOK, MeResponse{
		ID:       session.UserID,
		Username: session.Username,
	})
}
