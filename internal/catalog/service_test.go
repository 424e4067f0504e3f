package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"paulapastas-be/internal/utils"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, f ListFilter) ([]Product, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Product), args.Error(1)
}

func (m *MockRepository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetByIDs(ctx context.Context, ids []string) ([]Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Product), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, p *Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) Update(ctx context.Context, p *Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate() { c.calls++ }

// --- Tests ---

func TestService_ListByCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Known category", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)
		expected := []Product{{ID: "ravioles-de-carne"}}
		repo.On("List", ctx, ListFilter{Category: CategoryPastasRellenas}).Return(expected, nil)

		res, err := svc.ListByCategory(ctx, CategoryPastasRellenas)
		assert.NoError(t, err)
		assert.Equal(t, expected, res)
	})

	t.Run("Unknown category is empty, not an error", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)

		res, err := svc.ListByCategory(ctx, Category("pizzas"))
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestService_ListBySubcategory(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil)
	repo.On("List", ctx, ListFilter{Category: CategoryNoquis, Subcategory: SubNoquisPapa}).Return([]Product{}, nil)

	res, err := svc.ListBySubcategory(ctx, SubNoquisPapa)
	assert.NoError(t, err)
	assert.Empty(t, res)

	res, err = svc.ListBySubcategory(ctx, Subcategory("calzone"))
	assert.NoError(t, err)
	assert.Empty(t, res)
	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestService_ListFeatured(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil)
	repo.On("List", ctx, ListFilter{FeaturedOnly: true, Limit: defaultFeaturedLimit}).Return([]Product{}, nil)

	_, err := svc.ListFeatured(ctx, 0)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_GetByIDs(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil)
	ids := []string{"ravioles-de-carne", "ghost"}
	repo.On("GetByIDs", ctx, ids).Return([]Product{{ID: "ravioles-de-carne"}}, nil)

	res, err := svc.GetByIDs(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, res, 1)
	_, ok := res["ghost"]
	assert.False(t, ok)
}

func validInput() ProductInput {
	return ProductInput{
		Name:        "Sorrentinos de Jamón y Queso",
		Price:       decimal.NewFromInt(3200),
		Category:    CategoryPastasRellenas,
		Subcategory: SubSorrentinos,
		Ingredients: []string{"jamón", "queso"},
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success busts cache and derives slug", func(t *testing.T) {
		repo := new(MockRepository)
		inv := &countingInvalidator{}
		svc := NewService(repo, inv)
		repo.On("Create", ctx, mock.MatchedBy(func(p *Product) bool {
			return p.ID == "sorrentinos-de-jamon-y-queso" && p.Slug == p.ID && p.Available
		})).Return(nil)

		p, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, "sorrentinos-de-jamon-y-queso", p.Slug)
		assert.Equal(t, 1, inv.calls)
	})

	t.Run("Invalid input", func(t *testing.T) {
		repo := new(MockRepository)
		inv := &countingInvalidator{}
		svc := NewService(repo, inv)

		input := validInput()
		input.Price = decimal.Zero
		input.Subcategory = SubTallarines

		_, err := svc.Create(ctx, input)
		ve, ok := utils.IsValidationError(err)
		require.True(t, ok)
		assert.Len(t, ve.Details, 2)
		assert.Equal(t, 0, inv.calls)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Repo error leaves cache alone", func(t *testing.T) {
		repo := new(MockRepository)
		inv := &countingInvalidator{}
		svc := NewService(repo, inv)
		repo.On("Create", ctx, mock.Anything).Return(ErrSlugTaken)

		_, err := svc.Create(ctx, validInput())
		assert.ErrorIs(t, err, ErrSlugTaken)
		assert.Equal(t, 0, inv.calls)
	})
}

func TestService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	inv := &countingInvalidator{}
	svc := NewService(repo, inv)

	repo.On("Update", ctx, mock.MatchedBy(func(p *Product) bool { return p.ID == "sorrentinos" })).Return(nil)
	repo.On("Delete", ctx, "sorrentinos").Return(nil)
	repo.On("Delete", ctx, "ghost").Return(ErrProductNotFound)

	_, err := svc.Update(ctx, "sorrentinos", validInput())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "sorrentinos"))
	assert.True(t, errors.Is(svc.Delete(ctx, "ghost"), ErrProductNotFound))
	assert.Equal(t, 2, inv.calls)
}
