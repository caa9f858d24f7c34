// internal/infrastructure/database/redis/snapshot.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

const (
	cartKeyPrefix        = "cart:account:"
	catalogCategoriesKey = "catalog:categories"
	catalogProductsKey   = "catalog:products"
	catalogRewardsKey    = "catalog:rewards"

	opTimeout = 3 * time.Second
)

// SnapshotStore keeps the cart and catalog snapshots. Snapshots only spare
// network fetches; they are never authoritative.
type SnapshotStore struct {
	client     *Client
	cartTTL    time.Duration
	catalogTTL time.Duration
}

// NewSnapshotStore creates a store with independent expiry per snapshot kind
func NewSnapshotStore(client *Client, cartTTL, catalogTTL time.Duration) *SnapshotStore {
	return &SnapshotStore{
		client:     client,
		cartTTL:    cartTTL,
		catalogTTL: catalogTTL,
	}
}

// SaveCart writes the ledger snapshot of an account
func (s *SnapshotStore) SaveCart(ctx context.Context, accountID int, snap ledger.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.SetJSON(ctx, cartKey(accountID), snap, s.cartTTL)
}

// LoadCart reads the ledger snapshot of an account; ErrNotFound when absent
func (s *SnapshotStore) LoadCart(ctx context.Context, accountID int) (ledger.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var snap ledger.Snapshot
	if err := s.client.GetJSON(ctx, cartKey(accountID), &snap); err != nil {
		return ledger.Snapshot{}, err
	}
	return snap, nil
}

// DeleteCart drops the ledger snapshot of an account
func (s *SnapshotStore) DeleteCart(ctx context.Context, accountID int) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.Del(ctx, cartKey(accountID))
}

// SaveCategories writes the category snapshot
func (s *SnapshotStore) SaveCategories(ctx context.Context, categories []api.Category) error {
	return s.saveCatalog(ctx, catalogCategoriesKey, categories)
}

// LoadCategories reads the category snapshot
func (s *SnapshotStore) LoadCategories(ctx context.Context) ([]api.Category, error) {
	var out []api.Category
	if err := s.loadCatalog(ctx, catalogCategoriesKey, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveProducts writes the product snapshot
func (s *SnapshotStore) SaveProducts(ctx context.Context, products []api.Product) error {
	return s.saveCatalog(ctx, catalogProductsKey, products)
}

// LoadProducts reads the product snapshot
func (s *SnapshotStore) LoadProducts(ctx context.Context) ([]api.Product, error) {
	var out []api.Product
	if err := s.loadCatalog(ctx, catalogProductsKey, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveRewards writes the reward catalog snapshot
func (s *SnapshotStore) SaveRewards(ctx context.Context, rewards []api.RewardItem) error {
	return s.saveCatalog(ctx, catalogRewardsKey, rewards)
}

// LoadRewards reads the reward catalog snapshot
func (s *SnapshotStore) LoadRewards(ctx context.Context) ([]api.RewardItem, error) {
	var out []api.RewardItem
	if err := s.loadCatalog(ctx, catalogRewardsKey, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InvalidateCatalog drops every catalog snapshot
func (s *SnapshotStore) InvalidateCatalog(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.Del(ctx, catalogCategoriesKey, catalogProductsKey, catalogRewardsKey)
}

func cartKey(accountID int) string {
	return cartKeyPrefix + strconv.Itoa(accountID)
}

func (s *SnapshotStore) saveCatalog(ctx context.Context, key string, value interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.client.SetJSON(ctx, key, value, s.catalogTTL); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *SnapshotStore) loadCatalog(ctx context.Context, key string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	err := s.client.GetJSON(ctx, key, dest)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	return err
}
