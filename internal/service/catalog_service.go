package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"snackshop/internal/models"
	"snackshop/internal/redisclient"
	"snackshop/internal/util"

	"go.uber.org/zap"
)

// ProductStore is the persistence surface for the catalog.
type ProductStore interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) (bool, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
}

// ErrProductNotFound reports an unknown product ID.
var ErrProductNotFound = errors.New("product not found")

const (
	featuredCacheKey = "products:featured"
	featuredCacheTTL = time.Minute
)

// CatalogService reads the product catalog, keeping the heavily-hit
// featured list in Redis. Admin writes invalidate the cache.
type CatalogService struct {
	products ProductStore
	cache    *redisclient.Client
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products ProductStore, cache *redisclient.Client) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    cache,
		logger:   util.GetLogger(),
	}
}

// ListProducts retrieves the full catalog
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.GetProducts(ctx)
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// FeaturedProducts serves the storefront hero list through the cache.
// Cache failures fall through to the database; they are logged, never
// surfaced.
func (s *CatalogService) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		if raw, err := s.cache.CacheGet(ctx, featuredCacheKey); err != nil {
			s.logger.Warn("Featured cache read failed", zap.Error(err))
		} else if raw != nil {
			var cached []models.Product
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	products, err := s.products.GetFeaturedProducts(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(products); err == nil {
			if err := s.cache.CacheSet(ctx, featuredCacheKey, raw, featuredCacheTTL); err != nil {
				s.logger.Warn("Featured cache write failed", zap.Error(err))
			}
		}
	}
	return products, nil
}

// CreateProduct inserts a catalog entry
func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := s.products.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidateFeatured(ctx)
	return nil
}

// UpdateProduct replaces a catalog entry
func (s *CatalogService) UpdateProduct(ctx context.Context, p *models.Product) error {
	updated, err := s.products.UpdateProduct(ctx, p)
	if err != nil {
		return err
	}
	if !updated {
		return ErrProductNotFound
	}
	s.invalidateFeatured(ctx)
	return nil
}

// DeleteProduct removes a catalog entry
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.products.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProductNotFound
	}
	s.invalidateFeatured(ctx)
	return nil
}

func (s *CatalogService) invalidateFeatured(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheDel(ctx, featuredCacheKey); err != nil {
		s.logger.Warn("Featured cache invalidation failed", zap.Error(err))
	}
}
