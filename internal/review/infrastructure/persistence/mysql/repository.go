// Package mysql 实现评价模块的仓储
package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/ecommerce/internal/review/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

// ReviewModel 评价数据库模型
type ReviewModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"not null;index:ix_reviews_user_product,priority:1"`
	ProductID uint   `gorm:"not null;index:ix_reviews_user_product,priority:2;index"`
	Grade     int    `gorm:"not null;check:grade >= 1 AND grade <= 5"`
	Comment   string `gorm:"type:text"`
	IsActive  bool   `gorm:"not null;default:true;index"`
}

// TableName 指定表名
func (ReviewModel) TableName() string { return "reviews" }

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓储实例
func NewReviewRepository(db *gorm.DB) domain.ReviewRepository {
	return &reviewRepository{db: db}
}

// WithTx 在单个事务中执行 fn
func (r *reviewRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

// Save 持久化评价
func (r *reviewRepository) Save(ctx context.Context, review *domain.Review) error {
	db := r.getDB(ctx)
	model := toReviewModel(review)
	if model.ID == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		review.ID = model.ID
		review.CreatedAt = model.CreatedAt
		review.UpdatedAt = model.UpdatedAt
		return nil
	}
	return db.WithContext(ctx).Model(&ReviewModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"grade":     model.Grade,
			"comment":   model.Comment,
			"is_active": model.IsActive,
		}).Error
}

// Get 按 ID 查找
func (r *reviewRepository) Get(ctx context.Context, id uint) (*domain.Review, error) {
	var model ReviewModel
	err := r.getDB(ctx).WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toReview(&model), nil
}

// GetActiveByUserAndProduct 查找用户对商品的激活评价
func (r *reviewRepository) GetActiveByUserAndProduct(ctx context.Context, userID, productID uint) (*domain.Review, error) {
	var model ReviewModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND is_active = ?", userID, productID, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toReview(&model), nil
}

// ListActiveByProduct 按创建时间倒序分页返回商品的激活评价
func (r *reviewRepository) ListActiveByProduct(ctx context.Context, productID uint, page, pageSize int) ([]*domain.Review, int64, error) {
	db := r.getDB(ctx).WithContext(ctx).Model(&ReviewModel{}).
		Where("product_id = ? AND is_active = ?", productID, true)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []ReviewModel
	err := db.Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	reviews := make([]*domain.Review, 0, len(models))
	for i := range models {
		reviews = append(reviews, toReview(&models[i]))
	}
	return reviews, total, nil
}

// Deactivate 逻辑删除
func (r *reviewRepository) Deactivate(ctx context.Context, id uint) error {
	return r.getDB(ctx).WithContext(ctx).Model(&ReviewModel{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// AverageActiveGrade 计算商品激活评价的平均分
func (r *reviewRepository) AverageActiveGrade(ctx context.Context, productID uint) (float64, error) {
	var avg *float64
	err := r.getDB(ctx).WithContext(ctx).Model(&ReviewModel{}).
		Where("product_id = ? AND is_active = ?", productID, true).
		Select("AVG(grade)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// getDB 优先使用上下文中的事务
func (r *reviewRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

func toReviewModel(review *domain.Review) *ReviewModel {
	return &ReviewModel{
		ID:        review.ID,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
		UserID:    review.UserID,
		ProductID: review.ProductID,
		Grade:     review.Grade,
		Comment:   review.Comment,
		IsActive:  review.IsActive,
	}
}

func toReview(model *ReviewModel) *domain.Review {
	return &domain.Review{
		ID:        model.ID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		UserID:    model.UserID,
		ProductID: model.ProductID,
		Grade:     model.Grade,
		Comment:   model.Comment,
		IsActive:  model.IsActive,
	}
}
