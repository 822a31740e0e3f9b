package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bookhive/bookhive/pkg/binder"
	"github.com/bookhive/bookhive/pkg/config"
	"github.com/bookhive/bookhive/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestApp(t *testing.T, db *bun.DB) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutes(e, db, config.NewForTest())

	return e
}

func doJSON(e *echo.Echo, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func findSessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	res := rr.Result()
	defer res.Body.Close()
	for _, cookie := range res.Cookies() {
		if cookie.Name == CookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestRegisterLoginFlow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	e := newTestApp(t, db)

	rr := doJSON(e, http.MethodPost, "/register", `{"username":"alice","password":"pw123"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	me := MeResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
	assert.NotZero(t, me.ID)

	// Registration logs the user straight in.
	cookie := findSessionCookie(t, rr)
	assert.True(t, cookie.HttpOnly)

	rr = doJSON(e, http.MethodGet, "/me", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	me = MeResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)

	// A fresh login works with the same credentials.
	rr = doJSON(e, http.MethodPost, "/login", `{"username":"alice","password":"pw123"}`)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	e := newTestApp(t, db)

	rr := doJSON(e, http.MethodPost, "/register", `{"username":"alice","password":"pw123"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(e, http.MethodPost, "/register", `{"username":"alice","password":"other"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Username already taken")
}

func TestLoginBadCredentials(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	e := newTestApp(t, db)

	rr := doJSON(e, http.MethodPost, "/register", `{"username":"alice","password":"pw123"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	wrongPassword := doJSON(e, http.MethodPost, "/login", `{"username":"alice","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)

	unknownUser := doJSON(e, http.MethodPost, "/login", `{"username":"mallory","password":"pw123"}`)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)

	// Identical bodies for both failure modes.
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	e := newTestApp(t, db)

	rr := doJSON(e, http.MethodPost, "/login", `{"username":"alice"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	e := newTestApp(t, db)

	rr := doJSON(e, http.MethodPost, "/register", `{"username":"alice","password":"pw123"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	cookie := findSessionCookie(t, rr)

	rr = doJSON(e, http.MethodPost, "/logout", "", cookie)
	assert.Equal(t, http.StatusOK, rr.Code)

	cleared := findSessionCookie(t, rr)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)

	// The old cookie no longer resolves to a session, and the failure uses
	// the standard error envelope.
	rr = doJSON(e, http.MethodGet, "/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	envelope := map[string]map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Equal(t, "unauthorized", envelope["error"]["code"])
	assert.Equal(t, "Not authenticated", envelope["error"]["message"])

	// Logging out without a session is fine.
	rr = doJSON(e, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}
