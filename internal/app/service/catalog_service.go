package service

import (
	"context"
	"time"

	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/pkg/logger"
	"github.com/alienstore/storefront-gateway/pkg/storeapi"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogAPI is the subset of the upstream client the catalog uses.
type CatalogAPI interface {
	ListProducts(ctx context.Context, token string) ([]storeapi.Product, error)
	ListCategories(ctx context.Context, token string) ([]storeapi.Category, error)
	ListSubcategories(ctx context.Context, token string) ([]storeapi.Subcategory, error)
}

// CatalogService proxies the upstream catalog with a short read-through
// cache. Catalog data is shared across users, so cache keys carry no user id.
type CatalogService interface {
	Products(ctx context.Context, token string) ([]storeapi.Product, error)
	Categories(ctx context.Context, token string) ([]storeapi.Category, error)
	Subcategories(ctx context.Context, token string) ([]storeapi.Subcategory, error)
}

type catalogService struct {
	api   CatalogAPI
	cache repository.CatalogCache
}

// NewCatalogService builds the catalog proxy. cache may be nil, in which
// case every call goes upstream.
func NewCatalogService(api CatalogAPI, cache repository.CatalogCache) CatalogService {
	return &catalogService{api: api, cache: cache}
}

func (s *catalogService) Products(ctx context.Context, token string) ([]storeapi.Product, error) {
	var products []storeapi.Product
	if s.cached(ctx, "catalog:products", &products) {
		return products, nil
	}

	products, err := s.api.ListProducts(ctx, token)
	if err != nil {
		return nil, err
	}
	s.store(ctx, "catalog:products", products)
	return products, nil
}

func (s *catalogService) Categories(ctx context.Context, token string) ([]storeapi.Category, error) {
	var categories []storeapi.Category
	if s.cached(ctx, "catalog:categories", &categories) {
		return categories, nil
	}

	categories, err := s.api.ListCategories(ctx, token)
	if err != nil {
		return nil, err
	}
	s.store(ctx, "catalog:categories", categories)
	return categories, nil
}

func (s *catalogService) Subcategories(ctx context.Context, token string) ([]storeapi.Subcategory, error) {
	var subcategories []storeapi.Subcategory
	if s.cached(ctx, "catalog:subcategories", &subcategories) {
		return subcategories, nil
	}

	subcategories, err := s.api.ListSubcategories(ctx, token)
	if err != nil {
		return nil, err
	}
	s.store(ctx, "catalog:subcategories", subcategories)
	return subcategories, nil
}

func (s *catalogService) cached(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		// Cache trouble never blocks the catalog; fall through upstream.
		return false
	}
	return hit
}

func (s *catalogService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, catalogCacheTTL); err != nil {
		logger.Warn("Failed to cache catalog response", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
