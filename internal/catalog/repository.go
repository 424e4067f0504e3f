package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, name, slug, description, price, category, subcategory, image_url,
	available, featured, ingredients, nutritional_info, display_order,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var (
		p           Product
		subcategory sql.NullString
		description sql.NullString
		imageURL    sql.NullString
		nutrition   []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &description, &p.Price, &p.Category, &subcategory, &imageURL,
		&p.Available, &p.Featured, &p.Ingredients, &nutrition, &p.DisplayOrder,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.Subcategory = Subcategory(subcategory.String)
	p.ImageURL = imageURL.String
	if p.Ingredients == nil {
		p.Ingredients = pq.StringArray{}
	}
	if len(nutrition) > 0 {
		var info NutritionalInfo
		if err := json.Unmarshal(nutrition, &info); err != nil {
			return nil, fmt.Errorf("decode nutritional_info: %w", err)
		}
		p.Nutrition = &info
	}
	return &p, nil
}

func (r *repository) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Product, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if !f.IncludeUnavailable {
		where = append(where, "available = TRUE")
	}
	if f.Category != "" {
		add("category = $%d", string(f.Category))
	}
	if f.Subcategory != "" {
		add("subcategory = $%d", string(f.Subcategory))
	}
	if f.FeaturedOnly {
		where = append(where, "featured = TRUE")
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY display_order ASC, name ASC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.queryProducts(ctx, query, args...)
}

func (r *repository) getOne(ctx context.Context, column, value string) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE "+column+" = $1", value)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	return r.getOne(ctx, "id", id)
}

func (r *repository) GetByIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	return r.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ANY($1)", pq.Array(ids))
}

func nutritionValue(n *NutritionalInfo) (any, error) {
	if n == nil {
		return nil, nil
	}
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	nutrition, err := nutritionValue(p.Nutrition)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			id, name, slug, description, price, category, subcategory, image_url,
			available, featured, ingredients, nutritional_info, display_order
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at
	`,
		p.ID, p.Name, p.Slug, nullable(p.Description), p.Price, string(p.Category),
		nullable(string(p.Subcategory)), nullable(p.ImageURL), p.Available, p.Featured,
		pq.Array([]string(p.Ingredients)), nutrition, p.DisplayOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	nutrition, err := nutritionValue(p.Nutrition)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
		UPDATE products SET
			name = $2, slug = $3, description = $4, price = $5, category = $6,
			subcategory = $7, image_url = $8, available = $9, featured = $10,
			ingredients = $11, nutritional_info = $12, display_order = $13,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`,
		p.ID, p.Name, p.Slug, nullable(p.Description), p.Price, string(p.Category),
		nullable(string(p.Subcategory)), nullable(p.ImageURL), p.Available, p.Featured,
		pq.Array([]string(p.Ingredients)), nutrition, p.DisplayOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrProductNotFound
	case isUniqueViolation(err):
		return ErrSlugTaken
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
