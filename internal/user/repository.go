package user

import (
	"context"
	"database/sql"
	"errors"

	"paulapastas-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (email, password, name, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		u.Email, u.Password, u.Name, string(u.Role),
	).Scan(&u.ID, &u.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrEmailExists
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert user", zap.String("email", u.Email), zap.Error(err))
	}
	return err
}

const userColumns = "id, email, password, name, role, created_at"

func (r *repository) findOne(ctx context.Context, where string, arg any) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg).
		Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *repository) FindByID(ctx context.Context, id uint) (*User, error) {
	return r.findOne(ctx, "id = $1", id)
}
