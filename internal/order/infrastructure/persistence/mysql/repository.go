// Package mysql 实现订单模块的仓储
package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

// OrderModel 订单数据库模型
type OrderModel struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      uint             `gorm:"not null;index:ix_orders_user_created,priority:1"`
	Status      string           `gorm:"type:varchar(20);not null"`
	TotalAmount string           `gorm:"type:decimal(10,2);not null"`
	Items       []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName 指定表名
func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 订单行数据库模型
type OrderItemModel struct {
	ID         uint   `gorm:"primarykey"`
	OrderID    uint   `gorm:"not null;index"`
	ProductID  uint   `gorm:"not null;index"`
	Quantity   int    `gorm:"not null"`
	UnitPrice  string `gorm:"type:decimal(10,2);not null"`
	TotalPrice string `gorm:"type:decimal(10,2);not null"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string { return "order_items" }

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

// WithTx 在单个事务中执行 fn，事务通过 context 向下传递
func (r *orderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

// Save 持久化订单与全部订单行
func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	model, err := toOrderModel(order)
	if err != nil {
		return err
	}
	if err := r.getDB(ctx).WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	order.ID = model.ID
	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt
	for i := range model.Items {
		order.Items[i].ID = model.Items[i].ID
		order.Items[i].OrderID = model.Items[i].OrderID
	}
	return nil
}

// Get 按 ID 加载订单
func (r *orderRepository) Get(ctx context.Context, id uint) (*domain.Order, error) {
	var model OrderModel
	err := r.getDB(ctx).WithContext(ctx).
		Preload("Items").
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toOrder(&model)
}

// ListByUser 按创建时间倒序分页返回用户订单
func (r *orderRepository) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]*domain.Order, int64, error) {
	db := r.getDB(ctx).WithContext(ctx).Model(&OrderModel{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []OrderModel
	err := db.Preload("Items").
		Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		order, err := toOrder(&models[i])
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	return orders, total, nil
}

// getDB 优先使用上下文中的事务
func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

func toOrderModel(order *domain.Order) (*OrderModel, error) {
	items := make([]OrderItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemModel{
			ID:         item.ID,
			OrderID:    item.OrderID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.StringFixed(2),
			TotalPrice: item.TotalPrice.StringFixed(2),
		})
	}
	return &OrderModel{
		ID:          order.ID,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.StringFixed(2),
		Items:       items,
	}, nil
}

func toOrder(model *OrderModel) (*domain.Order, error) {
	total, err := decimal.NewFromString(model.TotalAmount)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(model.Items))
	for _, item := range model.Items {
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, err
		}
		totalPrice, err := decimal.NewFromString(item.TotalPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.OrderItem{
			ID:         item.ID,
			OrderID:    item.OrderID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: totalPrice,
		})
	}

	return &domain.Order{
		ID:          model.ID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		UserID:      model.UserID,
		Status:      domain.OrderStatus(model.Status),
		TotalAmount: total,
		Items:       items,
	}, nil
}
