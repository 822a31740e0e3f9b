package auth

import (
	"github.com/bookhive/bookhive/pkg/errcodes"
	"github.com/bookhive/bookhive/pkg/models"
	"github.com/bookhive/bookhive/pkg/sessions"
	"github.com/labstack/echo/v4"
)

// Middleware resolves the session cookie to a logged-in user.
type Middleware struct {
	sessionService *sessions.Service
	secret         string
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(sessionService *sessions.Service, secret string) *Middleware {
	return &Middleware{
		sessionService: sessionService,
		secret:         secret,
	}
}

// Authenticate requires a valid session. The cookie signature is checked
// first, then the token is resolved against the server-side store. If either
// fails, it returns 401 so the caller can redirect to login.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := m.resolveSession(c)
		if err != nil {
			return err
		}
		if session == nil {
			return errcodes.Unauthorized("Authentication required")
		}

		setSessionContext(c, session)
		return next(c)
	}
}

// AuthenticateOptional resolves the session if one is present but lets
// anonymous requests through.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := m.resolveSession(c)
		if err != nil {
			return err
		}
		if session != nil {
			setSessionContext(c, session)
		}
		return next(c)
	}
}

func (m *Middleware) resolveSession(c echo.Context) (*models.Session, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	token, ok := verifyToken(m.secret, cookie.Value)
	if !ok {
		return nil, nil
	}

	return m.sessionService.Get(c.Request().Context(), token)
}

func setSessionContext(c echo.Context, session *models.Session) {
	c.Set("session", session)
	c.Set("user_id", session.UserID)
	c.Set("username", session.Username)
}

// SessionFromContext retrieves the session from the Echo context, if any.
func SessionFromContext(c echo.Context) (*models.Session, bool) {
	session, ok := c.Get("session").(*models.Session)
	return session, ok
}

// UsernameFromContext retrieves the logged-in username from the Echo context.
func UsernameFromContext(c echo.Context) (string, bool) {
	username, ok := c.Get("username").(string)
	return username, ok
}
