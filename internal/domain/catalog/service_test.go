package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

type fakeRemote struct {
	categories []api.Category
	products   []api.Product
	rewards    []api.RewardItem
	err        error
	calls      int
}

func (f *fakeRemote) Categories(ctx context.Context) ([]api.Category, error) {
	f.calls++
	return f.categories, f.err
}

func (f *fakeRemote) Products(ctx context.Context) ([]api.Product, error) {
	f.calls++
	return f.products, f.err
}

func (f *fakeRemote) Rewards(ctx context.Context) ([]api.RewardItem, error) {
	f.calls++
	return f.rewards, f.err
}

type memoryCache struct {
	categories []api.Category
	products   []api.Product
	rewards       []api.RewardItem
	failLoad      bool
	invalidations int
}

var errMiss = errors.New("miss")

func (m *memoryCache) LoadCategories(ctx context.Context) ([]api.Category, error) {
	if m.failLoad || m.categories == nil {
		return nil, errMiss
	}
	return m.categories, nil
}

func (m *memoryCache) SaveCategories(ctx context.Context, c []api.Category) error {
	m.categories = c
	return nil
}

func (m *memoryCache) LoadProducts(ctx context.Context) ([]api.Product, error) {
	if m.failLoad || m.products == nil {
		return nil, errMiss
	}
	return m.products, nil
}

func (m *memoryCache) SaveProducts(ctx context.Context, p []api.Product) error {
	m.products = p
	return nil
}

func (m *memoryCache) LoadRewards(ctx context.Context) ([]api.RewardItem, error) {
	if m.failLoad || m.rewards == nil {
		return nil, errMiss
	}
	return m.rewards, nil
}

func (m *memoryCache) SaveRewards(ctx context.Context, r []api.RewardItem) error {
	m.rewards = r
	return nil
}

func (m *memoryCache) InvalidateCatalog(ctx context.Context) error {
	m.invalidations++
	m.categories, m.products, m.rewards = nil, nil, nil
	return nil
}

func TestCategoriesUsesSnapshot(t *testing.T) {
	remote := &fakeRemote{categories: []api.Category{{ID: 1, Name: "Drinks"}}}
	svc := NewService(&memoryCache{}, nil)

	for i := 0; i < 3; i++ {
		cats, err := svc.Categories(context.Background(), remote)
		require.NoError(t, err)
		assert.Len(t, cats, 1)
	}
	assert.Equal(t, 1, remote.calls)
}

func TestCacheFailureDegradesToFetch(t *testing.T) {
	remote := &fakeRemote{products: []api.Product{{ID: 1, Name: "Tea"}}}
	svc := NewService(&memoryCache{failLoad: true}, nil)

	_, err := svc.Products(context.Background(), remote)
	require.NoError(t, err)
	_, err = svc.Products(context.Background(), remote)
	require.NoError(t, err)
	assert.Equal(t, 2, remote.calls)
}

func TestProductByID(t *testing.T) {
	remote := &fakeRemote{products: []api.Product{
		{ID: 1, Name: "Tea", Price: decimal.RequireFromString("10.00"), Image: "/uploads/tea.png", CategoryID: 2},
	}}
	svc := NewService(nil, nil)

	p, err := svc.ProductByID(context.Background(), remote, 1)
	require.NoError(t, err)
	assert.Equal(t, "Tea", p.Title)
	assert.True(t, p.UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "/uploads/tea.png", p.ImageRef)

	_, err = svc.ProductByID(context.Background(), remote, 9)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductByIDRefreshesStaleSnapshot(t *testing.T) {
	cache := &memoryCache{
		categories: []api.Category{{ID: 1, Name: "Drinks"}},
		products:   []api.Product{{ID: 1, Name: "Tea"}},
	}
	remote := &fakeRemote{products: []api.Product{{ID: 1, Name: "Tea"}, {ID: 2, Name: "Coffee"}}}
	svc := NewService(cache, nil)

	p, err := svc.ProductByID(context.Background(), remote, 1)
	require.NoError(t, err)
	assert.Equal(t, "Tea", p.Title)
	assert.Zero(t, cache.invalidations)

	p, err = svc.ProductByID(context.Background(), remote, 2)
	require.NoError(t, err)
	assert.Equal(t, "Coffee", p.Title)
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, 1, cache.invalidations)
	assert.Len(t, cache.products, 2)
	assert.Nil(t, cache.categories)
}

func TestProductsByCategory(t *testing.T) {
	remote := &fakeRemote{products: []api.Product{{ID: 1, CategoryID: 2}, {ID: 2, CategoryID: 3}}}
	svc := NewService(nil, nil)

	products, err := svc.ProductsByCategory(context.Background(), remote, 3)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 2, products[0].ID)
}

func TestRewardByID(t *testing.T) {
	remote := &fakeRemote{rewards: []api.RewardItem{{ID: 4, Name: "Mug", Points: 30}}}
	svc := NewService(&memoryCache{}, nil)

	r, err := svc.RewardByID(context.Background(), remote, 4)
	require.NoError(t, err)
	assert.Equal(t, 30, r.PointsPerUnit)

	_, err = svc.RewardByID(context.Background(), remote, 5)
	assert.ErrorIs(t, err, ErrRewardNotFound)
	assert.Equal(t, 1, remote.calls)
}

func TestRemoteErrorPropagates(t *testing.T) {
	remote := &fakeRemote{err: &api.NetworkError{Err: errors.New("down")}}
	svc := NewService(&memoryCache{}, nil)

	_, err := svc.Categories(context.Background(), remote)
	var netErr *api.NetworkError
	assert.ErrorAs(t, err, &netErr)
}
