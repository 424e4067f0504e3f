package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paulapastas-be/internal/auth"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCors(t *testing.T) {
	handler := CORS("http://localhost:3000")(okHandler())

	t.Run("OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuth(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)

	t.Run("Missing Token", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetUserIDFromContext(r.Context())
			assert.False(t, ok, "Context should not contain user ID")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()

		AuthMiddleware(tokens)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid Token is anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		var sawUser bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, sawUser = utils.GetUserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		AuthMiddleware(tokens)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, sawUser)
	})

	t.Run("Token from a rotated secret", func(t *testing.T) {
		stale, err := auth.NewManager("old-secret", time.Hour).Generate(3, "USER", "old@example.com")
		require.NoError(t, err)

		paths := []string{"/api/products", "/api/cart/items", "/api/auth/logout", "/api/webhooks/mercadopago"}
		for _, path := range paths {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: stale})
			w := httptest.NewRecorder()

			AuthMiddleware(tokens)(okHandler()).ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: stale})
		w := httptest.NewRecorder()
		AuthMiddleware(tokens)(RequireAuth(okHandler())).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid Token", func(t *testing.T) {
		tokenString, err := tokens.Generate(1, "USER", "ana@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: tokenString})
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, uint(1), userID)
			assert.Equal(t, "ana@example.com", utils.GetUserEmailFromContext(r.Context()))
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(tokens)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.CustomClaims{
			UserID: 1,
			Role:   "USER",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		tokenString, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		AuthMiddleware(tokens)(RequireAuth(okHandler())).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAuthAndAdmin(t *testing.T) {
	tests := []struct {
		name       string
		ctx        context.Context
		wrap       func(http.Handler) http.Handler
		wantStatus int
	}{
		{"anonymous on auth route", context.Background(), RequireAuth, http.StatusUnauthorized},
		{"user on auth route", utils.SetUserContext(context.Background(), 7, "a@b.c", "USER"), RequireAuth, http.StatusOK},
		{"anonymous on admin route", context.Background(), RequireAdmin, http.StatusUnauthorized},
		{"user on admin route", utils.SetUserContext(context.Background(), 7, "a@b.c", "USER"), RequireAdmin, http.StatusForbidden},
		{"admin on admin route", utils.SetUserContext(context.Background(), 1, "paula@example.com", utils.RoleAdmin), RequireAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil).WithContext(tt.ctx)
			w := httptest.NewRecorder()

			tt.wrap(okHandler()).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("Strict tier blocks after burst", func(t *testing.T) {
		rl := NewRateLimiter("")
		handler := rl.Middleware(okHandler())

		var last int
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/checkout/create-preference", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			last = w.Code
		}

		assert.Equal(t, http.StatusTooManyRequests, last)
	})

	t.Run("Tiers use separate buckets", func(t *testing.T) {
		rl := NewRateLimiter("")
		handler := rl.Middleware(okHandler())

		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = "10.0.0.2:1234"
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Internal key selects internal tier", func(t *testing.T) {
		rl := NewRateLimiter("internal-key")
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Service-Auth", "internal-key")

		limit, burst, tier := rl.resolveRateTier(req)

		assert.Equal(t, limitInternal, limit)
		assert.Equal(t, burstInternal, burst)
		assert.Equal(t, "internal", tier)
	})

	t.Run("Internal callers are marked in context", func(t *testing.T) {
		rl := NewRateLimiter("internal-key")
		var internal bool
		handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			internal = utils.IsInternalRequest(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.Header.Set("X-Service-Auth", "internal-key")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.True(t, internal)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products", nil))
		assert.False(t, internal)
	})

	t.Run("Evicts idle visitors", func(t *testing.T) {
		rl := NewRateLimiter("")
		now := time.Now()
		rl.now = func() time.Time { return now }
		rl.getVisitor("ip:1:general", limitGeneral, burstGeneral)

		now = now.Add(visitorTTL + time.Second)
		rl.evictIdle()

		assert.Empty(t, rl.visitors)
	})

	t.Run("Cleanup stops with context", func(t *testing.T) {
		rl := NewRateLimiter("")
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			rl.Cleanup(ctx)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("cleanup did not stop")
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	defer logger.Replace(zap.New(core))()

	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/home", nil)
	req = req.WithContext(logger.WithRequestID(req.Context(), "req-1"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	logs := observed.TakeAll()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	fields := logs[0].ContextMap()
	assert.Equal(t, int64(http.StatusBadGateway), fields["status"])
	assert.Equal(t, "/api/home", fields["path"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestChain(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(okHandler(), mw("outer"), mw("inner")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}
