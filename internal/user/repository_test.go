package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "email", "password", "name", "role", "created_at"}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users \(email, password, name, role\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id, created_at`).
			WithArgs("paula@example.com", "hashed", "Paula", "USER").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

		u := &User{Email: "paula@example.com", Password: "hashed", Name: "Paula", Role: RoleUser}
		require.NoError(t, repo.Create(ctx, u))
		assert.Equal(t, uint(1), u.ID)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		err := repo.Create(ctx, &User{Email: "paula@example.com"})
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(errors.New("db error"))

		err := repo.Create(ctx, &User{Email: "paula@example.com"})
		assert.EqualError(t, err, "db error")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("By email", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, email, password, name, role, created_at FROM users WHERE email = \$1`).
			WithArgs("paula@example.com").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "paula@example.com", "hashed", "Paula", "ADMIN", time.Now()))

		u, err := repo.FindByEmail(ctx, "paula@example.com")
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, u.Role)
	})

	t.Run("By id miss", func(t *testing.T) {
		mock.ExpectQuery(`FROM users WHERE id = \$1`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(userCols))

		u, err := repo.FindByID(ctx, 9)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, u)
	})
}
