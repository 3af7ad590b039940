// Package mysql 实现购物车模块的仓储
package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

// CartItemModel 购物车条目数据库模型
type CartItemModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint `gorm:"not null;uniqueIndex:ux_cart_user_product,priority:1;index"`
	ProductID uint `gorm:"not null;uniqueIndex:ux_cart_user_product,priority:2"`
	Quantity  int  `gorm:"not null"`
}

// TableName 指定表名
func (CartItemModel) TableName() string { return "cart_items" }

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储实例
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

// Get 返回用户对指定商品的条目
func (r *cartRepository) Get(ctx context.Context, userID, productID uint) (*domain.CartItem, error) {
	var model CartItemModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toCartItem(&model), nil
}

// Save 新建或更新条目
func (r *cartRepository) Save(ctx context.Context, item *domain.CartItem) error {
	db := r.getDB(ctx)
	model := toCartItemModel(item)
	if model.ID == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		item.ID = model.ID
		item.CreatedAt = model.CreatedAt
		item.UpdatedAt = model.UpdatedAt
		return nil
	}
	return db.WithContext(ctx).Model(&CartItemModel{}).
		Where("id = ?", model.ID).
		Update("quantity", model.Quantity).Error
}

// Delete 删除条目
func (r *cartRepository) Delete(ctx context.Context, userID, productID uint) error {
	return r.getDB(ctx).WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&CartItemModel{}).Error
}

// ListByUser 按商品 ID 升序返回用户的全部条目
func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.CartItem, error) {
	var models []CartItemModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	items := make([]*domain.CartItem, 0, len(models))
	for i := range models {
		items = append(items, toCartItem(&models[i]))
	}
	return items, nil
}

// ClearByUser 清空用户的购物车
func (r *cartRepository) ClearByUser(ctx context.Context, userID uint) error {
	return r.getDB(ctx).WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&CartItemModel{}).Error
}

// getDB 优先使用上下文中的事务
func (r *cartRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

func toCartItemModel(item *domain.CartItem) *CartItemModel {
	return &CartItemModel{
		ID:        item.ID,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
}

func toCartItem(model *CartItemModel) *domain.CartItem {
	return &domain.CartItem{
		ID:        model.ID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		UserID:    model.UserID,
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
	}
}
