package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bookhive/bookhive/pkg/errcodes"
	"github.com/bookhive/bookhive/pkg/sessions"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newMiddlewareContext(t *testing.T, cookieValue string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookieValue})
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestMiddlewareAuthenticate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	sessionService := sessions.NewService(db, time.Hour)
	m := NewMiddleware(sessionService, testSecret)

	session, err := sessionService.Create(context.Background(), 7, "alice")
	require.NoError(t, err)

	c := newMiddlewareContext(t, SignToken(testSecret, session.Token))

	err = m.Authenticate(func(c echo.Context) error {
		username, ok := UsernameFromContext(c)
		require.True(t, ok)
		assert.Equal(t, "alice", username)

		got, ok := SessionFromContext(c)
		require.True(t, ok)
		assert.Equal(t, 7, got.UserID)
		return okHandler(c)
	})(c)
	require.NoError(t, err)
}

func TestMiddlewareAuthenticateRejects(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	sessionService := sessions.NewService(db, time.Hour)
	m := NewMiddleware(sessionService, testSecret)

	session, err := sessionService.Create(context.Background(), 7, "alice")
	require.NoError(t, err)

	tests := []struct {
		name        string
		cookieValue string
	}{
		{"no cookie", ""},
		{"unsigned token", session.Token},
		{"wrong secret", SignToken("other-secret", session.Token)},
		{"unknown token", SignToken(testSecret, "not-a-session")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newMiddlewareContext(t, tt.cookieValue)

			err := m.Authenticate(okHandler)(c)
			require.Error(t, err)

			var codeErr *errcodes.Error
			require.ErrorAs(t, err, &codeErr)
			assert.Equal(t, http.StatusUnauthorized, codeErr.HTTPCode)
		})
	}
}

func TestMiddlewareAuthenticateOptional(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	sessionService := sessions.NewService(db, time.Hour)
	m := NewMiddleware(sessionService, testSecret)

	// Anonymous requests pass through without a session in context.
	c := newMiddlewareContext(t, "")
	err := m.AuthenticateOptional(func(c echo.Context) error {
		_, ok := SessionFromContext(c)
		assert.False(t, ok)
		return okHandler(c)
	})(c)
	require.NoError(t, err)

	session, err := sessionService.Create(context.Background(), 7, "alice")
	require.NoError(t, err)

	c = newMiddlewareContext(t, SignToken(testSecret, session.Token))
	err = m.AuthenticateOptional(func(c echo.Context) error {
		username, ok := UsernameFromContext(c)
		require.True(t, ok)
		assert.Equal(t, "alice", username)
		return okHandler(c)
	})(c)
	require.NoError(t, err)
}
