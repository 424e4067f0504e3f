package content

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

var (
	bannerCols  = []string{"id", "title", "subtitle", "image_url", "link", "page", "display_order", "active", "created_at", "updated_at"}
	sectionCols = []string{"id", "title", "subtitle", "image_url", "link", "display_order", "active", "created_at", "updated_at"}
	postCols    = []string{"id", "slug", "title", "excerpt", "body", "cover_image", "published", "published_at", "created_at", "updated_at"}
)

func newRepo(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

func TestRepository_ListBanners(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Active banners for a page", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`(?s)FROM page_banners WHERE \(\$1 = '' OR page = \$1\) AND active = TRUE ORDER BY display_order`).
			WithArgs("home").
			WillReturnRows(sqlmock.NewRows(bannerCols).
				AddRow(1, "Pastas frescas", nil, "https://cdn.example.com/b1.jpg", "/productos", "home", 1, true, now, now))

		banners, err := repo.ListBanners(ctx, "home", false)
		require.NoError(t, err)
		require.Len(t, banners, 1)
		assert.Equal(t, "", banners[0].Subtitle)
		assert.Equal(t, "/productos", banners[0].Link)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Admin sees inactive banners", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`FROM page_banners WHERE \(\$1 = '' OR page = \$1\) ORDER BY`).
			WithArgs("").
			WillReturnRows(sqlmock.NewRows(bannerCols))

		banners, err := repo.ListBanners(ctx, "", true)
		require.NoError(t, err)
		assert.NotNil(t, banners)
		assert.Empty(t, banners)
	})
}

func TestRepository_UpdateBanner_NotFound(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectQuery(`UPDATE page_banners`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

	err := repo.UpdateBanner(context.Background(), &Banner{ID: 9, Title: "x", ImageURL: "https://x", Page: "home"})
	assert.ErrorIs(t, err, ErrBannerNotFound)
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Removed", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectExec(`DELETE FROM home_sections WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteSection(ctx, 3))
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectExec(`DELETE FROM blog_posts WHERE id = \$1`).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeletePost(ctx, 4), ErrPostNotFound)
	})
}

func TestRepository_ListSections(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()
	now := time.Now()

	mock.ExpectQuery(`FROM home_sections WHERE active = TRUE ORDER BY display_order ASC, id ASC`).
		WillReturnRows(sqlmock.NewRows(sectionCols).
			AddRow(1, "Rellenas", "Sorrentinos y ravioles", "https://cdn.example.com/s.jpg", nil, 1, true, now, now))

	sections, err := repo.ListSections(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Sorrentinos y ravioles", sections[0].Subtitle)
	assert.Equal(t, "", sections[0].Link)
}

func TestRepository_CreateSection(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO home_sections`).
		WithArgs("Salsas", nil, nil, "/salsas", 2, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))

	s := &Section{Title: "Salsas", Link: "/salsas", DisplayOrder: 2, Active: true}
	require.NoError(t, repo.CreateSection(context.Background(), s))
	assert.Equal(t, int64(5), s.ID)
}

func TestRepository_Posts(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Published listing drops bodies", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`FROM blog_posts WHERE published = TRUE ORDER BY COALESCE\(published_at, created_at\) DESC LIMIT \$1`).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(postCols).
				AddRow(1, "como-cocinar-noquis", "Cómo cocinar ñoquis", "Tips", "Hervir...", nil, true, now, now, now))

		posts, err := repo.ListPosts(ctx, true, 5)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Empty(t, posts[0].Body)
		require.NotNil(t, posts[0].PublishedAt)
	})

	t.Run("Get by slug miss", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`FROM blog_posts WHERE slug = \$1 AND published = TRUE`).
			WithArgs("borrador").
			WillReturnRows(sqlmock.NewRows(postCols))

		p, err := repo.GetPostBySlug(ctx, "borrador", true)
		assert.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("Get by slug draft for admin", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`FROM blog_posts WHERE slug = \$1$`).
			WithArgs("borrador").
			WillReturnRows(sqlmock.NewRows(postCols).
				AddRow(2, "borrador", "Borrador", nil, "...", nil, false, nil, now, now))

		p, err := repo.GetPostBySlug(ctx, "borrador", false)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.False(t, p.Published)
		assert.Nil(t, p.PublishedAt)
	})

	t.Run("Create duplicate slug", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`INSERT INTO blog_posts`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.CreatePost(ctx, &Post{Slug: "dup", Title: "Dup", Body: "b"})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("Unpublish clears timestamp", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`(?s)UPDATE blog_posts .* CASE WHEN \$7 THEN COALESCE\(published_at, \$8\) END`).
			WithArgs(int64(2), "borrador", "Borrador", nil, "...", nil, false, nil).
			WillReturnRows(sqlmock.NewRows([]string{"published_at", "created_at", "updated_at"}).AddRow(nil, now, now))

		p := &Post{ID: 2, Slug: "borrador", Title: "Borrador", Body: "..."}
		require.NoError(t, repo.UpdatePost(ctx, p))
		assert.Nil(t, p.PublishedAt)
	})

	t.Run("Update db error", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`UPDATE blog_posts`).WillReturnError(errors.New("db down"))

		err := repo.UpdatePost(ctx, &Post{ID: 2, Slug: "x", Title: "x", Body: "x"})
		assert.EqualError(t, err, "db down")
	})
}
