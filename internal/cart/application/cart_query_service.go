package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
)

// CartQueryService 购物车查询服务
type CartQueryService struct {
	carts    domain.CartRepository
	products catalogdomain.ProductRepository
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(carts domain.CartRepository, products catalogdomain.ProductRepository) *CartQueryService {
	return &CartQueryService{carts: carts, products: products}
}

// ViewCart 返回购物车汇总视图
// 条目价格取商品当前标价，已下架或未定价的商品不计入
func (s *CartQueryService) ViewCart(ctx context.Context, userID uint) (*domain.CartView, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to load cart", err)
	}

	view := domain.NewCartView()
	for _, item := range items {
		product, err := s.products.GetActive(ctx, item.ProductID)
		if err != nil {
			return nil, apperr.Internal("failed to load product", err)
		}
		if product == nil || !product.HasPrice() {
			continue
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.AddLine(domain.CartLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			LineTotal:   lineTotal,
		})
	}
	return view, nil
}
