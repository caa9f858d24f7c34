package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

func newStore(t *testing.T) (*SnapshotStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSnapshotStore(NewFromClient(rdb), time.Hour, 10*time.Minute), mr
}

func TestCartSnapshotRoundTrip(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	l := ledger.New()
	require.NoError(t, l.AdjustLine(ledger.Product{ID: 1, Title: "Tea", UnitPrice: decimal.RequireFromString("2.50")}, 3))

	require.NoError(t, store.SaveCart(ctx, 7, l.Snapshot(7)))
	assert.True(t, mr.Exists("cart:account:7"))
	assert.Equal(t, time.Hour, mr.TTL("cart:account:7"))

	snap, err := store.LoadCart(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, snap.AccountID)
	require.Len(t, snap.Cart, 1)
	assert.True(t, snap.Cart[0].UnitPrice.Equal(decimal.RequireFromString("2.5")))

	require.NoError(t, store.DeleteCart(ctx, 7))
	_, err = store.LoadCart(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartSnapshotExpires(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCart(ctx, 1, ledger.New().Snapshot(1)))
	mr.FastForward(2 * time.Hour)

	_, err := store.LoadCart(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogSnapshotIndependentExpiry(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProducts(ctx, []api.Product{{ID: 1, Name: "Tea", Price: decimal.NewFromInt(2)}}))
	require.NoError(t, store.SaveCategories(ctx, []api.Category{{ID: 1, Name: "Drinks"}}))
	require.NoError(t, store.SaveCart(ctx, 1, ledger.New().Snapshot(1)))

	mr.FastForward(11 * time.Minute)

	_, err := store.LoadProducts(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.LoadCategories(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.LoadCart(ctx, 1)
	assert.NoError(t, err)
}

func TestCatalogSnapshotRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRewards(ctx, []api.RewardItem{{ID: 4, Name: "Mug", Points: 30}}))
	rewards, err := store.LoadRewards(ctx)
	require.NoError(t, err)
	assert.Equal(t, []api.RewardItem{{ID: 4, Name: "Mug", Points: 30}}, rewards)

	require.NoError(t, store.InvalidateCatalog(ctx))
	_, err = store.LoadRewards(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetJSONDecodeError(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, mr.Set("catalog:products", "not json"))

	_, err := store.LoadProducts(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
