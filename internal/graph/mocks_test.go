package graph

import (
	"context"

	"paulapastas-be/internal/cart"
	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/content"
	"paulapastas-be/internal/newsletter"
	"paulapastas-be/internal/review"
	"paulapastas-be/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Catalog ---

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) products(args mock.Arguments) ([]catalog.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockCatalogService) product(args mock.Arguments) (*catalog.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalogService) ListAll(ctx context.Context) ([]catalog.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockCatalogService) ListByCategory(ctx context.Context, c catalog.Category) ([]catalog.Product, error) {
	return m.products(m.Called(ctx, c))
}

func (m *MockCatalogService) ListBySubcategory(ctx context.Context, s catalog.Subcategory) ([]catalog.Product, error) {
	return m.products(m.Called(ctx, s))
}

func (m *MockCatalogService) ListFeatured(ctx context.Context, limit int) ([]catalog.Product, error) {
	return m.products(m.Called(ctx, limit))
}

func (m *MockCatalogService) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return m.product(m.Called(ctx, slug))
}

func (m *MockCatalogService) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockCatalogService) GetByIDs(ctx context.Context, ids []string) (map[string]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]catalog.Product), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, input catalog.ProductInput) (*catalog.Product, error) {
	return m.product(m.Called(ctx, input))
}

func (m *MockCatalogService) Update(ctx context.Context, id string, input catalog.ProductInput) (*catalog.Product, error) {
	return m.product(m.Called(ctx, id, input))
}

func (m *MockCatalogService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Cart ---

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cart(args mock.Arguments) (*cart.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) Get(ctx context.Context, sessionID uuid.UUID) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, sessionID))
}

func (m *MockCartService) AddItem(ctx context.Context, sessionID uuid.UUID, productID string, quantity int) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, sessionID, productID, quantity))
}

func (m *MockCartService) UpdateItemQuantity(ctx context.Context, sessionID uuid.UUID, productID string, quantity int) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, sessionID, productID, quantity))
}

func (m *MockCartService) RemoveItem(ctx context.Context, sessionID uuid.UUID, productID string) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, sessionID, productID))
}

func (m *MockCartService) Clear(ctx context.Context, sessionID uuid.UUID) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockCartService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Content ---

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Home(ctx context.Context) (content.Home, error) {
	args := m.Called(ctx)
	return args.Get(0).(content.Home), args.Error(1)
}

func (m *MockContentService) ListBanners(ctx context.Context, page string, includeInactive bool) ([]content.Banner, error) {
	args := m.Called(ctx, page, includeInactive)
	return args.Get(0).([]content.Banner), args.Error(1)
}

func (m *MockContentService) CreateBanner(ctx context.Context, input content.BannerInput) (*content.Banner, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Banner), args.Error(1)
}

func (m *MockContentService) UpdateBanner(ctx context.Context, id int64, input content.BannerInput) (*content.Banner, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Banner), args.Error(1)
}

func (m *MockContentService) DeleteBanner(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContentService) ListSections(ctx context.Context, includeInactive bool) ([]content.Section, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]content.Section), args.Error(1)
}

func (m *MockContentService) CreateSection(ctx context.Context, input content.SectionInput) (*content.Section, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Section), args.Error(1)
}

func (m *MockContentService) UpdateSection(ctx context.Context, id int64, input content.SectionInput) (*content.Section, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Section), args.Error(1)
}

func (m *MockContentService) DeleteSection(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContentService) ListPosts(ctx context.Context, publishedOnly bool, limit int) ([]content.Post, error) {
	args := m.Called(ctx, publishedOnly, limit)
	return args.Get(0).([]content.Post), args.Error(1)
}

func (m *MockContentService) GetPost(ctx context.Context, slug string, publishedOnly bool) (*content.Post, error) {
	args := m.Called(ctx, slug, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Post), args.Error(1)
}

func (m *MockContentService) CreatePost(ctx context.Context, input content.PostInput) (*content.Post, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Post), args.Error(1)
}

func (m *MockContentService) UpdatePost(ctx context.Context, id int64, input content.PostInput) (*content.Post, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Post), args.Error(1)
}

func (m *MockContentService) DeletePost(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// --- Review ---

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, userID uint, input review.CreateInput) (*review.Review, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewService) ListPublic(ctx context.Context, productID string, featuredOnly bool, limit int) ([]review.Review, error) {
	args := m.Called(ctx, productID, featuredOnly, limit)
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewService) ListAll(ctx context.Context, limit int) ([]review.Review, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewService) Moderate(ctx context.Context, id int64, input review.ModerateInput) (*review.Review, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// --- User ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input user.RegisterInput) (*user.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Session), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, input user.LoginInput) (*user.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Session), args.Error(1)
}

func (m *MockUserService) Me(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// --- Newsletter ---

type MockNewsletterService struct {
	mock.Mock
}

func (m *MockNewsletterService) Subscribe(ctx context.Context, input newsletter.SubscribeInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockNewsletterService) List(ctx context.Context, limit, offset int) ([]newsletter.Subscription, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]newsletter.Subscription), args.Error(1)
}
