package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type Repository interface {
	ListBanners(ctx context.Context, page string, includeInactive bool) ([]Banner, error)
	CreateBanner(ctx context.Context, b *Banner) error
	UpdateBanner(ctx context.Context, b *Banner) error
	DeleteBanner(ctx context.Context, id int64) error

	ListSections(ctx context.Context, includeInactive bool) ([]Section, error)
	CreateSection(ctx context.Context, s *Section) error
	UpdateSection(ctx context.Context, s *Section) error
	DeleteSection(ctx context.Context, id int64) error

	ListPosts(ctx context.Context, publishedOnly bool, limit int) ([]Post, error)
	GetPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*Post, error)
	CreatePost(ctx context.Context, p *Post) error
	UpdatePost(ctx context.Context, p *Post) error
	DeletePost(ctx context.Context, id int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func deleteByID(ctx context.Context, db *sql.DB, table string, id int64, notFound error) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound
	}
	return nil
}

// ----------------- Banners -----------------

const bannerColumns = `id, title, subtitle, image_url, link, page, display_order, active, created_at, updated_at`

func scanBanner(row rowScanner) (Banner, error) {
	var (
		b              Banner
		subtitle, link sql.NullString
	)
	err := row.Scan(&b.ID, &b.Title, &subtitle, &b.ImageURL, &link, &b.Page,
		&b.DisplayOrder, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	b.Subtitle = subtitle.String
	b.Link = link.String
	return b, err
}

func (r *repository) ListBanners(ctx context.Context, page string, includeInactive bool) ([]Banner, error) {
	query := "SELECT " + bannerColumns + " FROM page_banners WHERE ($1 = '' OR page = $1)"
	if !includeInactive {
		query += " AND active = TRUE"
	}
	query += " ORDER BY display_order ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, page)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Banner{}
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repository) CreateBanner(ctx context.Context, b *Banner) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO page_banners (title, subtitle, image_url, link, page, display_order, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at
	`, b.Title, nullable(b.Subtitle), b.ImageURL, nullable(b.Link), b.Page, b.DisplayOrder, b.Active,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *repository) UpdateBanner(ctx context.Context, b *Banner) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE page_banners
		SET title = $2, subtitle = $3, image_url = $4, link = $5, page = $6,
			display_order = $7, active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, b.ID, b.Title, nullable(b.Subtitle), b.ImageURL, nullable(b.Link), b.Page, b.DisplayOrder, b.Active,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBannerNotFound
	}
	return err
}

func (r *repository) DeleteBanner(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "page_banners", id, ErrBannerNotFound)
}

// ----------------- Home sections -----------------

const sectionColumns = `id, title, subtitle, image_url, link, display_order, active, created_at, updated_at`

func (r *repository) ListSections(ctx context.Context, includeInactive bool) ([]Section, error) {
	query := "SELECT " + sectionColumns + " FROM home_sections"
	if !includeInactive {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY display_order ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Section{}
	for rows.Next() {
		var (
			s                     Section
			subtitle, image, link sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Title, &subtitle, &image, &link,
			&s.DisplayOrder, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Subtitle, s.ImageURL, s.Link = subtitle.String, image.String, link.String
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) CreateSection(ctx context.Context, s *Section) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO home_sections (title, subtitle, image_url, link, display_order, active)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at
	`, s.Title, nullable(s.Subtitle), nullable(s.ImageURL), nullable(s.Link), s.DisplayOrder, s.Active,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *repository) UpdateSection(ctx context.Context, s *Section) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE home_sections
		SET title = $2, subtitle = $3, image_url = $4, link = $5,
			display_order = $6, active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, s.ID, s.Title, nullable(s.Subtitle), nullable(s.ImageURL), nullable(s.Link), s.DisplayOrder, s.Active,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSectionNotFound
	}
	return err
}

func (r *repository) DeleteSection(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "home_sections", id, ErrSectionNotFound)
}

// ----------------- Blog posts -----------------

const postColumns = `id, slug, title, excerpt, body, cover_image, published, published_at, created_at, updated_at`

func scanPost(row rowScanner) (*Post, error) {
	var (
		p              Post
		excerpt, cover sql.NullString
		publishedAt    sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &excerpt, &p.Body, &cover,
		&p.Published, &publishedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Excerpt = excerpt.String
	p.CoverImage = cover.String
	if publishedAt.Valid {
		t := publishedAt.Time
		p.PublishedAt = &t
	}
	return &p, nil
}

func (r *repository) ListPosts(ctx context.Context, publishedOnly bool, limit int) ([]Post, error) {
	query := "SELECT " + postColumns + " FROM blog_posts"
	if publishedOnly {
		query += " WHERE published = TRUE"
	}
	query += " ORDER BY COALESCE(published_at, created_at) DESC"
	var args []any
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		// Listings carry the excerpt only.
		p.Body = ""
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repository) GetPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*Post, error) {
	query := "SELECT " + postColumns + " FROM blog_posts WHERE slug = $1"
	if publishedOnly {
		query += " AND published = TRUE"
	}
	p, err := scanPost(r.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *repository) CreatePost(ctx context.Context, p *Post) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (slug, title, excerpt, body, cover_image, published, published_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at
	`, p.Slug, p.Title, nullable(p.Excerpt), p.Body, nullable(p.CoverImage), p.Published, p.PublishedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

// UpdatePost keeps the first publication time across edits and clears it
// when the post is unpublished.
func (r *repository) UpdatePost(ctx context.Context, p *Post) error {
	var publishedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		UPDATE blog_posts
		SET slug = $2, title = $3, excerpt = $4, body = $5, cover_image = $6,
			published = $7, published_at = CASE WHEN $7 THEN COALESCE(published_at, $8) END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING published_at, created_at, updated_at
	`, p.ID, p.Slug, p.Title, nullable(p.Excerpt), p.Body, nullable(p.CoverImage), p.Published, p.PublishedAt,
	).Scan(&publishedAt, &p.CreatedAt, &p.UpdatedAt)
	if publishedAt.Valid {
		t := publishedAt.Time
		p.PublishedAt = &t
	} else {
		p.PublishedAt = nil
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrPostNotFound
	case isUniqueViolation(err):
		return ErrSlugTaken
	}
	return err
}

func (r *repository) DeletePost(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "blog_posts", id, ErrPostNotFound)
}
