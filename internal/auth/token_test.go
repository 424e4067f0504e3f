package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractAccessToken(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"Cookie wins over header", "cookie_token", "Bearer header_token", "cookie_token"},
		{"Header fallback", "", "Bearer header_token", "header_token"},
		{"Scheme is case insensitive", "", "bearer  header_token ", "header_token"},
		{"Basic auth is ignored", "", "Basic user:pass", ""},
		{"Bare token is ignored", "", "header_token", ""},
		{"Nothing sent", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			assert.Equal(t, tt.want, ExtractAccessToken(req))
		})
	}
}

func TestAccessCookie(t *testing.T) {
	t.Run("Session", func(t *testing.T) {
		c := AccessCookie("tok", time.Hour, true)

		assert.Equal(t, AccessTokenCookie, c.Name)
		assert.Equal(t, "tok", c.Value)
		assert.Equal(t, 3600, c.MaxAge)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("Expired", func(t *testing.T) {
		c := AccessCookie("tok", -time.Second, false)

		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	})
}
