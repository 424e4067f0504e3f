package main

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paulapastas-be/internal/auth"
	"paulapastas-be/internal/config"
	"paulapastas-be/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppPort:    "8080",
		AppEnv:     "test",
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
		CORSOrigin: "http://localhost:3000",
		Currency:   "ARS",
		KafkaTopic: "orders",
	}
}

func TestNewServer(t *testing.T) {
	db, err := sql.Open("mock_driver_main", "")
	require.NoError(t, err)
	defer db.Close()

	srv := newServer(testConfig(), db)
	defer srv.Close()
	require.NotNil(t, srv)

	t.Run("Health Check", func(t *testing.T) {
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "OK")
		assert.NotEmpty(t, rr.Header().Get(logger.RequestIDHeader))
	})

	t.Run("Request ID is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(logger.RequestIDHeader, "req-123")
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)

		assert.Equal(t, "req-123", rr.Header().Get(logger.RequestIDHeader))
	})

	t.Run("CORS preflight", func(t *testing.T) {
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/checkout", nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Metrics require admin", func(t *testing.T) {
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Admin routes are guarded", func(t *testing.T) {
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Stale token does not block logout", func(t *testing.T) {
		stale, err := auth.NewManager("rotated-secret", time.Hour).Generate(9, "USER", "old@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: stale})
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.AccessTokenCookie, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Less(t, cookies[0].MaxAge, 0)
	})

	t.Run("Stale token still fails protected routes", func(t *testing.T) {
		stale, err := auth.NewManager("rotated-secret", time.Hour).Generate(9, "USER", "old@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: stale})
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("GraphQL endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ __typename }"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"data":{"__typename":"Query"}}`, rr.Body.String())
	})

	t.Run("GraphQL admin fields need a session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ adminOrders { id } }"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"UNAUTHENTICATED"`)
	})

	t.Run("Playground outside production", func(t *testing.T) {
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/graphql/playground", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	})

	t.Run("Login validates before touching the store", func(t *testing.T) {
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGatewayConfig(t *testing.T) {
	cfg := testConfig()
	cfg.MPAccessToken = "token"
	cfg.MPWebhookSecret = "whsec"

	gc := gatewayConfig(cfg)
	assert.Equal(t, "token", gc.AccessToken)
	assert.Equal(t, "whsec", gc.WebhookSecret)
	assert.Equal(t, "ARS", gc.Currency)
	assert.False(t, gc.RequireSignature)

	cfg.AppEnv = "production"
	assert.True(t, gatewayConfig(cfg).RequireSignature)
}

func TestStartServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- startServer(ctx, srv) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// --- Mock Driver for Testing ---
type mockDriver struct{}

func (m *mockDriver) Open(name string) (driver.Conn, error)         { return &mockConn{}, nil }
func (c *mockConn) Prepare(query string) (driver.Stmt, error)       { return &mockStmt{}, nil }
func (c *mockConn) Close() error                                    { return nil }
func (c *mockConn) Begin() (driver.Tx, error)                       { return nil, nil }
func (s *mockStmt) Close() error                                    { return nil }
func (s *mockStmt) NumInput() int                                   { return 0 }
func (s *mockStmt) Exec(args []driver.Value) (driver.Result, error) { return nil, nil }
func (s *mockStmt) Query(args []driver.Value) (driver.Rows, error)  { return nil, nil }

type mockConn struct{}
type mockStmt struct{}

func init() {
	sql.Register("mock_driver_main", &mockDriver{})
}

func TestRun(t *testing.T) {
	origInitDB := initDBFunc
	defer func() { initDBFunc = origInitDB }()
	initDBFunc = func(cfg *config.Config) *sql.DB {
		db, _ := sql.Open("mock_driver_main", "")
		return db
	}

	var gotAddr string
	origStartServer := startServerFunc
	defer func() { startServerFunc = origStartServer }()
	startServerFunc = func(ctx context.Context, srv *http.Server) error {
		gotAddr = srv.Addr
		return nil
	}

	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "user")
	t.Setenv("DB_PASSWORD", "pass")
	t.Setenv("DB_NAME", "db")
	t.Setenv("RECONCILE_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", "")

	assert.NoError(t, run())
	assert.Equal(t, ":9090", gotAddr)
}
