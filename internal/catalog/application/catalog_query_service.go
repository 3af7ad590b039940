package application

import (
	"context"
	"time"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"github.com/wyfcoding/pkg/logging"
)

// ProductCache 商品读缓存抽象，由 Redis 实现
type ProductCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ProductPage 商品分页结果
type ProductPage struct {
	Items    []*domain.Product `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// CatalogQueryService 目录查询服务
type CatalogQueryService struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
	cache      ProductCache
	cacheTTL   time.Duration
}

// NewCatalogQueryService 创建目录查询服务实例
func NewCatalogQueryService(
	categories domain.CategoryRepository,
	products domain.ProductRepository,
	cache ProductCache,
	cacheTTL time.Duration,
) *CatalogQueryService {
	return &CatalogQueryService{
		categories: categories,
		products:   products,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

// ListCategories 列出所有活跃分类
func (s *CatalogQueryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.ListActive(ctx)
}

// ListProducts 按过滤条件分页列出活跃商品
func (s *CatalogQueryService) ListProducts(ctx context.Context, filter domain.ProductFilter) (*ProductPage, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, apperr.BadRequest("min_price must not exceed max_price")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 10
	}

	items, total, err := s.products.ListActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ListProductsByCategory 列出指定活跃分类下的活跃商品
func (s *CatalogQueryService) ListProductsByCategory(ctx context.Context, categoryID uint, page, pageSize int) (*ProductPage, error) {
	category, err := s.categories.GetActive(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category not found or inactive")
	}

	return s.ListProducts(ctx, domain.ProductFilter{
		CategoryID: &categoryID,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetProduct 读取活跃商品，走 cache-aside
func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	if s.cache != nil {
		var cached domain.Product
		hit, err := s.cache.GetJSON(ctx, productCacheKey(id), &cached)
		if err != nil {
			logging.Warn(ctx, "product cache read failed", "product_id", id, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	product, err := s.products.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found or inactive")
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, productCacheKey(id), product, s.cacheTTL); err != nil {
			logging.Warn(ctx, "product cache write failed", "product_id", id, "error", err)
		}
	}
	return product, nil
}
