// Package migrate applies the embedded schema migrations with golang-migrate.
package migrate

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

const (
	ModeUp   = "up"
	ModeDown = "down"
)

var ErrUnknownMode = errors.New("unknown migration mode")

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("init iofs: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("init db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	return m, nil
}

// Run applies every pending migration (ModeUp) or rolls all of them back
// (ModeDown) and returns the resulting schema version. Nothing to do is not
// an error. Run closes db when it returns.
func Run(db *sql.DB, mode string) (uint, error) {
	if mode != ModeUp && mode != ModeDown {
		return 0, fmt.Errorf("%w: %q (use %q or %q)", ErrUnknownMode, mode, ModeUp, ModeDown)
	}

	m, err := newMigrator(db)
	if err != nil {
		return 0, err
	}
	defer func() { _, _ = m.Close() }()

	if mode == ModeUp {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("migrate %s: %w (every version needs both .up.sql and .down.sql)", mode, err)
		}
		return 0, fmt.Errorf("migrate %s: %w", mode, err)
	}

	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("read version: %w", err)
	case dirty:
		return v, fmt.Errorf("schema version %d is dirty", v)
	}
	return v, nil
}

// Files lists the embedded migration file names in lexical order.
func Files() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, "sql")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, nil
}
