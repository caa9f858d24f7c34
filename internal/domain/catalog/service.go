// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrRewardNotFound  = errors.New("reward not found")
)

// Fetcher reads the catalog from the remote API
type Fetcher interface {
	Categories(ctx context.Context) ([]api.Category, error)
	Products(ctx context.Context) ([]api.Product, error)
	Rewards(ctx context.Context) ([]api.RewardItem, error)
}

// Cache holds catalog snapshots. A miss is any error.
type Cache interface {
	LoadCategories(ctx context.Context) ([]api.Category, error)
	SaveCategories(ctx context.Context, categories []api.Category) error
	LoadProducts(ctx context.Context) ([]api.Product, error)
	SaveProducts(ctx context.Context, products []api.Product) error
	LoadRewards(ctx context.Context) ([]api.RewardItem, error)
	SaveRewards(ctx context.Context, rewards []api.RewardItem) error
	InvalidateCatalog(ctx context.Context) error
}

// Service serves catalog reads from the snapshot when fresh and from the
// remote API otherwise
type Service struct {
	cache  Cache
	logger *logrus.Logger
}

// NewService creates a catalog service; a nil cache always fetches
func NewService(cache Cache, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{cache: cache, logger: logger}
}

// Categories returns the category list
func (s *Service) Categories(ctx context.Context, remote Fetcher) ([]api.Category, error) {
	if s.cache != nil {
		if cached, err := s.cache.LoadCategories(ctx); err == nil {
			return cached, nil
		}
	}

	categories, err := remote.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SaveCategories(ctx, categories); err != nil {
			s.logger.WithError(err).Warn("Failed to cache categories")
		}
	}
	return categories, nil
}

// Products returns the product list
func (s *Service) Products(ctx context.Context, remote Fetcher) ([]api.Product, error) {
	products, _, err := s.products(ctx, remote)
	return products, err
}

// ProductsByCategory returns the products of one category
func (s *Service) ProductsByCategory(ctx context.Context, remote Fetcher, categoryID int) ([]api.Product, error) {
	products, err := s.Products(ctx, remote)
	if err != nil {
		return nil, err
	}

	out := make([]api.Product, 0, len(products))
	for _, p := range products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ProductByID resolves a product for the ledger. A product missing from a
// cached snapshot marks every catalog snapshot stale and triggers one fresh
// product fetch.
func (s *Service) ProductByID(ctx context.Context, remote Fetcher, id int) (ledger.Product, error) {
	products, cached, err := s.products(ctx, remote)
	if err != nil {
		return ledger.Product{}, err
	}

	p, ok := findProduct(products, id)
	if !ok && cached {
		if err := s.cache.InvalidateCatalog(ctx); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate catalog snapshots")
		}
		products, err = s.refreshProducts(ctx, remote)
		if err != nil {
			return ledger.Product{}, err
		}
		p, ok = findProduct(products, id)
	}
	if !ok {
		return ledger.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}

	return ledger.Product{
		ID:        p.ID,
		Title:     p.Name,
		UnitPrice: p.Price,
		ImageRef:  p.Image,
	}, nil
}

// Rewards returns the reward catalog
func (s *Service) Rewards(ctx context.Context, remote Fetcher) ([]api.RewardItem, error) {
	if s.cache != nil {
		if cached, err := s.cache.LoadRewards(ctx); err == nil {
			return cached, nil
		}
	}

	rewards, err := remote.Rewards(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SaveRewards(ctx, rewards); err != nil {
			s.logger.WithError(err).Warn("Failed to cache rewards")
		}
	}
	return rewards, nil
}

// RewardByID resolves a reward for the ledger
func (s *Service) RewardByID(ctx context.Context, remote Fetcher, id int) (ledger.Reward, error) {
	rewards, err := s.Rewards(ctx, remote)
	if err != nil {
		return ledger.Reward{}, err
	}
	for _, r := range rewards {
		if r.ID == id {
			return ledger.Reward{
				ID:            r.ID,
				Name:          r.Name,
				PointsPerUnit: r.Points,
				ImageRef:      r.Image,
			}, nil
		}
	}
	return ledger.Reward{}, fmt.Errorf("%w: %d", ErrRewardNotFound, id)
}

// products returns the product list and whether it came from the snapshot
func (s *Service) products(ctx context.Context, remote Fetcher) ([]api.Product, bool, error) {
	if s.cache != nil {
		if cached, err := s.cache.LoadProducts(ctx); err == nil {
			return cached, true, nil
		}
	}
	products, err := s.refreshProducts(ctx, remote)
	return products, false, err
}

func (s *Service) refreshProducts(ctx context.Context, remote Fetcher) ([]api.Product, error) {
	products, err := remote.Products(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SaveProducts(ctx, products); err != nil {
			s.logger.WithError(err).Warn("Failed to cache products")
		}
	}
	return products, nil
}

func findProduct(products []api.Product, id int) (api.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return api.Product{}, false
}
