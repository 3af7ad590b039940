// Package application 包含购物车模块的命令与查询服务
package application

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"github.com/wyfcoding/pkg/logging"
)

// CartCommandService 购物车命令服务
type CartCommandService struct {
	carts    domain.CartRepository
	products catalogdomain.ProductRepository
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(carts domain.CartRepository, products catalogdomain.ProductRepository) *CartCommandService {
	return &CartCommandService{carts: carts, products: products}
}

// AddItem 加入购物车，已有条目时叠加数量
func (s *CartCommandService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, apperr.BadRequest("quantity must be at least 1")
	}

	product, err := s.products.GetActive(ctx, productID)
	if err != nil {
		return nil, apperr.Internal("failed to load product", err)
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}

	item, err := s.carts.Get(ctx, userID, productID)
	if err != nil {
		return nil, apperr.Internal("failed to load cart item", err)
	}
	if item == nil {
		item = &domain.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
	} else {
		item.Quantity += quantity
	}

	if err := s.carts.Save(ctx, item); err != nil {
		return nil, apperr.Internal("failed to save cart item", err)
	}

	logging.Info(ctx, "Cart item added",
		"user_id", userID, "product_id", productID, "quantity", item.Quantity)
	return item, nil
}

// UpdateItem 覆盖条目数量
func (s *CartCommandService) UpdateItem(ctx context.Context, userID, productID uint, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, apperr.BadRequest("quantity must be at least 1")
	}

	product, err := s.products.GetActive(ctx, productID)
	if err != nil {
		return nil, apperr.Internal("failed to load product", err)
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}

	item, err := s.carts.Get(ctx, userID, productID)
	if err != nil {
		return nil, apperr.Internal("failed to load cart item", err)
	}
	if item == nil {
		return nil, apperr.NotFound("cart item not found")
	}

	item.Quantity = quantity
	if err := s.carts.Save(ctx, item); err != nil {
		return nil, apperr.Internal("failed to save cart item", err)
	}
	return item, nil
}

// RemoveItem 删除条目，不存在时报 NotFound
func (s *CartCommandService) RemoveItem(ctx context.Context, userID, productID uint) error {
	item, err := s.carts.Get(ctx, userID, productID)
	if err != nil {
		return apperr.Internal("failed to load cart item", err)
	}
	if item == nil {
		return apperr.NotFound("cart item not found")
	}
	if err := s.carts.Delete(ctx, userID, productID); err != nil {
		return apperr.Internal("failed to delete cart item", err)
	}
	return nil
}

// Clear 清空购物车，幂等
func (s *CartCommandService) Clear(ctx context.Context, userID uint) error {
	if err := s.carts.ClearByUser(ctx, userID); err != nil {
		return apperr.Internal("failed to clear cart", err)
	}
	return nil
}
