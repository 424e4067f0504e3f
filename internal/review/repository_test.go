package review

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewCols = []string{"id", "product_id", "user_id", "author_name", "rating", "text", "approved", "featured", "created_at"}

func newRepo(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

func TestRepository_Create(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()
	now := time.Now()

	mock.ExpectQuery(`(?s)INSERT INTO reviews .* VALUES \(\$1,\$2,\$3,\$4,\$5,FALSE,FALSE\)`).
		WithArgs(nil, int64(7), "Marta", 5, "Riquísimos").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))

	r := &Review{UserID: 7, AuthorName: "Marta", Rating: 5, Text: "Riquísimos"}
	require.NoError(t, repo.Create(context.Background(), r))
	assert.Equal(t, int64(1), r.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Public by product", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`FROM reviews WHERE approved = TRUE AND featured = TRUE AND product_id = \$1 ORDER BY created_at DESC LIMIT \$2`).
			WithArgs("sorrentinos", 50).
			WillReturnRows(sqlmock.NewRows(reviewCols).
				AddRow(1, "sorrentinos", int64(7), "Marta", 5, "Riquísimos", true, true, now))

		reviews, err := repo.List(ctx, ListFilter{ProductID: "sorrentinos", FeaturedOnly: true})
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, uint(7), reviews[0].UserID)
	})

	t.Run("Admin sees everything with capped limit", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`FROM reviews ORDER BY created_at DESC LIMIT \$1`).
			WithArgs(200).
			WillReturnRows(sqlmock.NewRows(reviewCols).
				AddRow(2, nil, int64(8), "Juan", 3, "Bien", false, false, now))

		reviews, err := repo.List(ctx, ListFilter{IncludeUnapproved: true, Limit: 1000})
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Empty(t, reviews[0].ProductID)
	})
}

func TestRepository_Moderate(t *testing.T) {
	ctx := context.Background()
	approved := true

	t.Run("Partial update", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`(?s)UPDATE reviews SET approved = COALESCE\(\$2, approved\), featured = COALESCE\(\$3, featured\)`).
			WithArgs(int64(2), true, nil).
			WillReturnRows(sqlmock.NewRows(reviewCols).
				AddRow(2, nil, int64(8), "Juan", 3, "Bien", true, false, time.Now()))

		r, err := repo.Moderate(ctx, 2, ModerateInput{Approved: &approved})
		require.NoError(t, err)
		assert.True(t, r.Approved)
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`UPDATE reviews`).WillReturnRows(sqlmock.NewRows(reviewCols))

		_, err := repo.Moderate(ctx, 99, ModerateInput{Approved: &approved})
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectExec(`DELETE FROM reviews WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 4), ErrReviewNotFound)
}
