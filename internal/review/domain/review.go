// Package domain 定义评价模块的核心实体与仓储接口
package domain

import (
	"context"
	"time"
)

// Review 商品评价，软删除后不再参与评分
type Review struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `json:"user_id"`
	ProductID uint      `json:"product_id"`
	Grade     int       `json:"grade"`
	Comment   string    `json:"comment"`
	IsActive  bool      `json:"is_active"`
}

// GradeValid 评分取值范围校验
func GradeValid(grade int) bool { return grade >= 1 && grade <= 5 }

// NewReview 创建激活状态的评价
func NewReview(userID, productID uint, grade int, comment string) *Review {
	return &Review{
		UserID:    userID,
		ProductID: productID,
		Grade:     grade,
		Comment:   comment,
		IsActive:  true,
	}
}

// ReviewRepository 评价仓储接口
type ReviewRepository interface {
	// WithTx 在单个数据库事务中执行 fn
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Save 持久化评价
	Save(ctx context.Context, review *Review) error
	// Get 按 ID 查找（含已删除），未找到时返回 (nil, nil)
	Get(ctx context.Context, id uint) (*Review, error)
	// GetActiveByUserAndProduct 查找用户对商品的激活评价，未找到时返回 (nil, nil)
	GetActiveByUserAndProduct(ctx context.Context, userID, productID uint) (*Review, error)
	// ListActiveByProduct 按创建时间倒序分页返回商品的激活评价
	ListActiveByProduct(ctx context.Context, productID uint, page, pageSize int) ([]*Review, int64, error)
	// Deactivate 逻辑删除
	Deactivate(ctx context.Context, id uint) error
	// AverageActiveGrade 计算商品激活评价的平均分，无评价时为 0.0
	AverageActiveGrade(ctx context.Context, productID uint) (float64, error)
}
