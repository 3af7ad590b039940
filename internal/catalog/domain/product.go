package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product 商品实体
// rating 为派生字段，由评论模块重算
type Product struct {
	ID          uint            `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
	CategoryID  uint            `json:"category_id"`
	SellerID    uint            `json:"seller_id"`
	Rating      float64         `json:"rating"`
	IsActive    bool            `json:"is_active"`
}

// NewProduct 创建激活状态的商品
func NewProduct(name, description string, price decimal.Decimal, imageURL string, stock int, categoryID, sellerID uint) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		Stock:       stock,
		CategoryID:  categoryID,
		SellerID:    sellerID,
		IsActive:    true,
	}
}

// OwnedBy 商品是否属于指定卖家
func (p *Product) OwnedBy(sellerID uint) bool { return p.SellerID == sellerID }

// HasPrice 价格是否已设置
func (p *Product) HasPrice() bool { return p.Price.IsPositive() }

// ProductFilter 商品列表过滤条件
type ProductFilter struct {
	CategoryID *uint
	SellerID   *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    bool
	Page       int
	PageSize   int
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// 保存商品（新建或整体更新）
	Save(ctx context.Context, product *Product) error
	// 按 ID 查找活跃商品（分类也须活跃），未找到时返回 (nil, nil)
	GetActive(ctx context.Context, id uint) (*Product, error)
	// 按 ID 查找（含不活跃），未找到时返回 (nil, nil)
	Get(ctx context.Context, id uint) (*Product, error)
	// 按过滤条件列出活跃商品，返回列表与总数
	ListActive(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)
	// 逻辑删除
	Deactivate(ctx context.Context, id uint) error
	// 有条件扣减库存：仅当剩余库存足够时扣减，返回是否成功
	DecrementStock(ctx context.Context, id uint, quantity int) (bool, error)
	// 更新派生评分
	UpdateRating(ctx context.Context, id uint, rating float64) error
}
