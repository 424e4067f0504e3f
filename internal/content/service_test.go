package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"paulapastas-be/internal/cache"
	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListBanners(ctx context.Context, page string, includeInactive bool) ([]Banner, error) {
	args := m.Called(ctx, page, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Banner), args.Error(1)
}

func (m *MockRepository) CreateBanner(ctx context.Context, b *Banner) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockRepository) UpdateBanner(ctx context.Context, b *Banner) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockRepository) DeleteBanner(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ListSections(ctx context.Context, includeInactive bool) ([]Section, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Section), args.Error(1)
}

func (m *MockRepository) CreateSection(ctx context.Context, s *Section) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockRepository) UpdateSection(ctx context.Context, s *Section) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockRepository) DeleteSection(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ListPosts(ctx context.Context, publishedOnly bool, limit int) ([]Post, error) {
	args := m.Called(ctx, publishedOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Post), args.Error(1)
}

func (m *MockRepository) GetPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*Post, error) {
	args := m.Called(ctx, slug, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockRepository) CreatePost(ctx context.Context, p *Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) UpdatePost(ctx context.Context, p *Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) DeletePost(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockFeatured struct {
	mock.Mock
}

func (m *MockFeatured) ListFeatured(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func homeFixture(repo *MockRepository, featured *MockFeatured) {
	featured.On("ListFeatured", mock.Anything, 0).Return([]catalog.Product{{ID: "sorrentinos"}}, nil)
	repo.On("ListSections", mock.Anything, false).Return([]Section{{ID: 1, Title: "Rellenas"}}, nil)
	repo.On("ListBanners", mock.Anything, PageHome, false).Return([]Banner{{ID: 2, Page: PageHome}}, nil)
}

func TestService_Home(t *testing.T) {
	ctx := context.Background()

	t.Run("Cached until a write", func(t *testing.T) {
		repo, featured := new(MockRepository), new(MockFeatured)
		homeFixture(repo, featured)
		repo.On("DeleteBanner", mock.Anything, int64(2)).Return(nil)

		svc := NewService(repo, featured, cache.NewTTL[Home](1, time.Hour))

		home, err := svc.Home(ctx)
		require.NoError(t, err)
		assert.Len(t, home.Featured, 1)
		assert.Len(t, home.Sections, 1)
		assert.Len(t, home.Banners, 1)

		_, err = svc.Home(ctx)
		require.NoError(t, err)
		featured.AssertNumberOfCalls(t, "ListFeatured", 1)

		require.NoError(t, svc.DeleteBanner(ctx, 2))
		_, err = svc.Home(ctx)
		require.NoError(t, err)
		featured.AssertNumberOfCalls(t, "ListFeatured", 2)
	})

	t.Run("Failure is not cached", func(t *testing.T) {
		repo, featured := new(MockRepository), new(MockFeatured)
		featured.On("ListFeatured", mock.Anything, 0).Return(nil, nil)
		repo.On("ListSections", mock.Anything, false).Return(nil, errors.New("db down")).Once()

		home := cache.NewTTL[Home](1, time.Hour)
		svc := NewService(repo, featured, home)

		_, err := svc.Home(ctx)
		assert.EqualError(t, err, "db down")
		assert.Equal(t, 0, home.Len())
	})

	t.Run("Without cache", func(t *testing.T) {
		repo, featured := new(MockRepository), new(MockFeatured)
		featured.On("ListFeatured", mock.Anything, 0).Return(nil, nil)
		repo.On("ListSections", mock.Anything, false).Return([]Section{}, nil)
		repo.On("ListBanners", mock.Anything, PageHome, false).Return([]Banner{}, nil)

		home, err := NewService(repo, featured, nil).Home(ctx)
		require.NoError(t, err)
		assert.NotNil(t, home.Featured)
	})
}

func TestService_CreateBanner(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults to active", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CreateBanner", ctx, mock.MatchedBy(func(b *Banner) bool { return b.Active })).Return(nil)

		b, err := NewService(repo, nil, nil).CreateBanner(ctx, BannerInput{
			Title: "Promo", ImageURL: "https://cdn.example.com/p.jpg", Page: PageHome,
		})
		require.NoError(t, err)
		assert.True(t, b.Active)
	})

	t.Run("Invalid input", func(t *testing.T) {
		repo := new(MockRepository)
		_, err := NewService(repo, nil, nil).CreateBanner(ctx, BannerInput{ImageURL: "not a url"})

		ve, ok := utils.IsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Details, "title is required")
		assert.Contains(t, ve.Details, "imageURL must be a valid URL")
		repo.AssertNotCalled(t, "CreateBanner", mock.Anything, mock.Anything)
	})
}

func TestService_UpdateSection_Invalidates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("UpdateSection", ctx, mock.MatchedBy(func(s *Section) bool {
		return s.ID == 7 && !s.Active
	})).Return(nil)

	home := cache.NewTTL[Home](1, time.Hour)
	home.Set(homeCacheKey, Home{})

	inactive := false
	_, err := NewService(repo, nil, home).UpdateSection(ctx, 7, SectionInput{Title: "Salsas", Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 0, home.Len())
}

func TestService_CreatePost(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Slug from title and publish time", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CreatePost", ctx, mock.AnythingOfType("*content.Post")).Return(nil)

		svc := NewService(repo, nil, nil).(*service)
		svc.now = func() time.Time { return clock }

		p, err := svc.CreatePost(ctx, PostInput{Title: "Salsa Bolognesa Casera", Body: "...", Published: true})
		require.NoError(t, err)
		assert.Equal(t, utils.Slugify("Salsa Bolognesa Casera"), p.Slug)
		require.NotNil(t, p.PublishedAt)
		assert.Equal(t, clock, *p.PublishedAt)
	})

	t.Run("Draft has no publish time", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CreatePost", ctx, mock.Anything).Return(nil)

		p, err := NewService(repo, nil, nil).CreatePost(ctx, PostInput{Slug: "borrador", Title: "Borrador", Body: "..."})
		require.NoError(t, err)
		assert.Nil(t, p.PublishedAt)
	})

	t.Run("Slug taken", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CreatePost", ctx, mock.Anything).Return(ErrSlugTaken)

		_, err := NewService(repo, nil, nil).CreatePost(ctx, PostInput{Title: "Dup", Body: "..."})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("Title without slug characters", func(t *testing.T) {
		repo := new(MockRepository)

		_, err := NewService(repo, nil, nil).CreatePost(ctx, PostInput{Title: "!!!", Body: "..."})
		ve, ok := utils.IsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"slug is required"}, ve.Details)
	})
}
