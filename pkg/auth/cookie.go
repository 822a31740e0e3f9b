package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CookieName is the name of the session cookie.
const CookieName = "bookhive_session"

// SignToken appends an HMAC-SHA256 signature to the session token. The token
// itself is opaque; the signature lets the middleware reject forged or
// truncated cookie values without a database read. The secret comes from
// config and is never hardcoded.
func SignToken(secret, token string) string {
	return token + "." + signature(secret, token)
}

// verifyToken checks the signature on a cookie value and returns the bare
// session token.
func verifyToken(secret, value string) (string, bool) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(signature(secret, token))) {
		return "", false
	}
	return token, true
}

func signature(secret, token string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// newSessionCookie builds the session cookie. No MaxAge is set, so the cookie
// is scoped to the browsing session by default; the server-side expiry bounds
// it regardless.
func newSessionCookie(c echo.Context, value string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(c),
		SameSite: http.SameSiteLaxMode,
	}
}

// expiredSessionCookie clears the session cookie.
func expiredSessionCookie(c echo.Context) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecureRequest(c),
		SameSite: http.SameSiteLaxMode,
	}
}

func isSecureRequest(c echo.Context) bool {
	return c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https"
}
