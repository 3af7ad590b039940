// Package application 包含目录模块的命令与查询服务
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"github.com/wyfcoding/pkg/logging"
)

// CreateCategoryCommand 创建分类命令
type CreateCategoryCommand struct {
	Name     string
	ParentID *uint
}

// UpdateCategoryCommand 更新分类命令
type UpdateCategoryCommand struct {
	CategoryID uint
	Name       string
	ParentID   *uint
}

// ProductInput 创建/更新商品的公共字段
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Stock       int
	CategoryID  uint
}

// CatalogCommandService 目录命令服务
type CatalogCommandService struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
	cache      ProductCache
	publisher  domain.EventPublisher
}

// NewCatalogCommandService 创建目录命令服务实例
func NewCatalogCommandService(
	categories domain.CategoryRepository,
	products domain.ProductRepository,
	cache ProductCache,
	publisher domain.EventPublisher,
) *CatalogCommandService {
	return &CatalogCommandService{
		categories: categories,
		products:   products,
		cache:      cache,
		publisher:  publisher,
	}
}

// CreateCategory 创建分类，父分类必须存在且活跃
func (s *CatalogCommandService) CreateCategory(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	if cmd.ParentID != nil {
		parent, err := s.categories.GetActive(ctx, *cmd.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.NotFound("category parent not found or inactive")
		}
	}

	category := domain.NewCategory(cmd.Name, cmd.ParentID)
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory 整体更新分类，拒绝自引用父分类
func (s *CatalogCommandService) UpdateCategory(ctx context.Context, cmd UpdateCategoryCommand) (*domain.Category, error) {
	category, err := s.categories.GetActive(ctx, cmd.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category not found or inactive")
	}

	if cmd.ParentID != nil {
		if *cmd.ParentID == cmd.CategoryID {
			return nil, apperr.BadRequest("category cannot be its own parent")
		}
		parent, err := s.categories.GetActive(ctx, *cmd.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.NotFound("category parent not found or inactive")
		}
	}

	category.Name = cmd.Name
	category.ParentID = cmd.ParentID
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory 逻辑删除分类
func (s *CatalogCommandService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.categories.GetActive(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperr.NotFound("category not found or inactive")
	}
	return s.categories.Deactivate(ctx, id)
}

// CreateProduct 创建商品，归属当前卖家
func (s *CatalogCommandService) CreateProduct(ctx context.Context, sellerID uint, input ProductInput) (*domain.Product, error) {
	if !input.Price.IsPositive() {
		return nil, apperr.BadRequest("price must be positive")
	}
	if input.Stock < 0 {
		return nil, apperr.BadRequest("stock must not be negative")
	}

	category, err := s.categories.GetActive(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.BadRequest("category not found or inactive")
	}

	product := domain.NewProduct(input.Name, input.Description, input.Price, input.ImageURL, input.Stock, input.CategoryID, sellerID)
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishProductEvent(ctx, product, "created")
	return product, nil
}

// UpdateProduct 整体更新商品，仅限归属卖家
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, sellerID, productID uint, input ProductInput) (*domain.Product, error) {
	if !input.Price.IsPositive() {
		return nil, apperr.BadRequest("price must be positive")
	}
	if input.Stock < 0 {
		return nil, apperr.BadRequest("stock must not be negative")
	}

	product, err := s.products.GetActive(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found or inactive")
	}
	if !product.OwnedBy(sellerID) {
		return nil, apperr.Forbidden("you can only update your own products")
	}

	category, err := s.categories.GetActive(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.BadRequest("category not found or inactive")
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.ImageURL = input.ImageURL
	product.Stock = input.Stock
	product.CategoryID = input.CategoryID
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateProduct(ctx, productID)
	s.publishProductEvent(ctx, product, "updated")
	return product, nil
}

// DeleteProduct 逻辑删除商品，仅限归属卖家
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, sellerID, productID uint) error {
	product, err := s.products.GetActive(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperr.NotFound("product not found or inactive")
	}
	if !product.OwnedBy(sellerID) {
		return apperr.Forbidden("you can only delete your own products")
	}

	if err := s.products.Deactivate(ctx, productID); err != nil {
		return err
	}

	s.invalidateProduct(ctx, productID)
	s.publishProductEvent(ctx, product, "deactivated")
	return nil
}

func (s *CatalogCommandService) invalidateProduct(ctx context.Context, productID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productCacheKey(productID)); err != nil {
		logging.Warn(ctx, "failed to invalidate product cache", "product_id", productID, "error", err)
	}
}

func (s *CatalogCommandService) publishProductEvent(ctx context.Context, product *domain.Product, action string) {
	if s.publisher == nil {
		return
	}
	event := domain.ProductUpdatedEvent{
		ProductID: product.ID,
		SellerID:  product.SellerID,
		Action:    action,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(ctx, domain.ProductUpdatedEventType, fmt.Sprintf("%d", product.ID), event); err != nil {
		logging.Warn(ctx, "failed to publish product event", "product_id", product.ID, "error", err)
	}
}

func productCacheKey(productID uint) string {
	return fmt.Sprintf("catalog:product:%d", productID)
}
