package newsletter

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/utils"

	"go.uber.org/zap"
)

type Subscription struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubscribeInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type Repository interface {
	// Subscribe reports whether a new row was written.
	Subscribe(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]Subscription, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Subscribe(ctx context.Context, email string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO newsletter_subscriptions (email)
		VALUES ($1)
		ON CONFLICT (email) DO NOTHING
	`, email)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT email, created_at
		FROM newsletter_subscriptions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Subscription{}
	for rows.Next() {
		var s Subscription
		if err := rows.Scan(&s.Email, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type Service interface {
	Subscribe(ctx context.Context, input SubscribeInput) error
	List(ctx context.Context, limit, offset int) ([]Subscription, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Subscribe is idempotent: an address already on the list is a success.
func (s *service) Subscribe(ctx context.Context, input SubscribeInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}

	created, err := s.repo.Subscribe(ctx, input.Email)
	if err != nil {
		logger.FromCtx(ctx).Error("newsletter subscribe failed", zap.Error(err))
		return err
	}
	logger.FromCtx(ctx).Info("newsletter subscribe", zap.Bool("new", created))
	return nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Subscription, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}
