package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	List(ctx context.Context, f ListFilter) ([]Review, error)
	Moderate(ctx context.Context, id int64, in ModerateInput) (*Review, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const reviewColumns = `id, product_id, user_id, author_name, rating, text, approved, featured, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*Review, error) {
	var (
		r         Review
		productID sql.NullString
	)
	if err := row.Scan(&r.ID, &productID, &r.UserID, &r.AuthorName, &r.Rating,
		&r.Text, &r.Approved, &r.Featured, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.ProductID = productID.String
	return &r, nil
}

func (repo *repository) Create(ctx context.Context, r *Review) error {
	return repo.db.QueryRowContext(ctx, `
		INSERT INTO reviews (product_id, user_id, author_name, rating, text, approved, featured)
		VALUES ($1,$2,$3,$4,$5,FALSE,FALSE)
		RETURNING id, created_at
	`, sql.NullString{String: r.ProductID, Valid: r.ProductID != ""}, r.UserID, r.AuthorName, r.Rating, r.Text,
	).Scan(&r.ID, &r.CreatedAt)
}

func (repo *repository) List(ctx context.Context, f ListFilter) ([]Review, error) {
	var (
		where []string
		args  []any
	)
	if !f.IncludeUnapproved {
		where = append(where, "approved = TRUE")
	}
	if f.FeaturedOnly {
		where = append(where, "featured = TRUE")
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}

	query := "SELECT " + reviewColumns + " FROM reviews"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (repo *repository) Moderate(ctx context.Context, id int64, in ModerateInput) (*Review, error) {
	r, err := scanReview(repo.db.QueryRowContext(ctx, `
		UPDATE reviews
		SET approved = COALESCE($2, approved), featured = COALESCE($3, featured)
		WHERE id = $1
		RETURNING `+reviewColumns, id, in.Approved, in.Featured))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	return r, err
}

func (repo *repository) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
