package auth

import (
	"net/http"
	"strings"
	"time"
)

const AccessTokenCookie = "access_token"

// ExtractAccessToken reads the session cookie first and falls back to an
// Authorization bearer header.
func ExtractAccessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AccessCookie carries token for ttl. A non-positive ttl expires the cookie.
func AccessCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if ttl <= 0 {
		token, maxAge = "", -1
	}
	return &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
