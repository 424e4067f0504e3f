package db

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"paulapastas-be/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "localhost",
		DBUser:     "pasta",
		DBPassword: "secret",
		DBName:     "paulapastas",
		DBPort:     "5432",
	}

	expected := "host=localhost user=pasta password=secret dbname=paulapastas port=5432 sslmode=disable"
	assert.Equal(t, expected, buildDSN(cfg))

	cfg.DBSSLMode = "require"
	assert.Contains(t, buildDSN(cfg), "sslmode=require")
}

func TestNewDatabase_InvalidDriver(t *testing.T) {
	db, err := newDatabaseWithDriver(&config.Config{}, "invalid_driver_name")

	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to connect to DB")
}

func TestNewDatabase_PingFailure(t *testing.T) {
	db, err := newDatabaseWithDriver(&config.Config{}, "mock_driver_failing")

	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to ping DB")
}

func TestNewDatabase_Success(t *testing.T) {
	db, err := newDatabaseWithDriver(&config.Config{DBHost: "localhost"}, "mock_driver_success")
	assert.NoError(t, err)
	assert.NotNil(t, db)
	_ = db.Close()
}

// --- mock drivers ---

type mockDriver struct{ fail bool }

func (m *mockDriver) Open(name string) (driver.Conn, error) {
	if m.fail {
		return nil, driver.ErrBadConn
	}
	return &mockConn{}, nil
}

type mockConn struct{}

func (c *mockConn) Prepare(query string) (driver.Stmt, error) { return &mockStmt{}, nil }
func (c *mockConn) Close() error                              { return nil }
func (c *mockConn) Begin() (driver.Tx, error)                 { return nil, nil }

type mockStmt struct{}

func (s *mockStmt) Close() error                                    { return nil }
func (s *mockStmt) NumInput() int                                   { return 0 }
func (s *mockStmt) Exec(args []driver.Value) (driver.Result, error) { return nil, nil }
func (s *mockStmt) Query(args []driver.Value) (driver.Rows, error)  { return nil, nil }

func init() {
	sql.Register("mock_driver_success", &mockDriver{})
	sql.Register("mock_driver_failing", &mockDriver{fail: true})
}
