// Package application 包含评价模块的命令与查询服务
package application

import (
	"context"

	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/review/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"github.com/wyfcoding/pkg/logging"
)

// CreateReviewCommand 创建评价命令
type CreateReviewCommand struct {
	UserID    uint
	ProductID uint
	Grade     int
	Comment   string
}

// ReviewCommandService 评价命令服务
type ReviewCommandService struct {
	reviews  domain.ReviewRepository
	products catalogdomain.ProductRepository
}

// NewReviewCommandService 创建评价命令服务实例
func NewReviewCommandService(reviews domain.ReviewRepository, products catalogdomain.ProductRepository) *ReviewCommandService {
	return &ReviewCommandService{reviews: reviews, products: products}
}

// CreateReview 创建评价并在同一事务内重算商品评分
// 同一用户对同一商品只允许一条激活评价
func (s *ReviewCommandService) CreateReview(ctx context.Context, cmd CreateReviewCommand) (*domain.Review, error) {
	// 参数层已有范围校验，这里按约束再查一遍
	if !domain.GradeValid(cmd.Grade) {
		return nil, apperr.BadRequest("grade must be between 1 and 5")
	}

	var review *domain.Review
	err := s.reviews.WithTx(ctx, func(txCtx context.Context) error {
		product, err := s.products.GetActive(txCtx, cmd.ProductID)
		if err != nil {
			return apperr.Internal("failed to load product", err)
		}
		if product == nil {
			return apperr.NotFound("product not found")
		}

		existing, err := s.reviews.GetActiveByUserAndProduct(txCtx, cmd.UserID, cmd.ProductID)
		if err != nil {
			return apperr.Internal("failed to load review", err)
		}
		if existing != nil {
			return apperr.BadRequest("you have already reviewed this product")
		}

		review = domain.NewReview(cmd.UserID, cmd.ProductID, cmd.Grade, cmd.Comment)
		if err := s.reviews.Save(txCtx, review); err != nil {
			return apperr.Internal("failed to save review", err)
		}

		return s.recomputeRating(txCtx, cmd.ProductID)
	})
	if err != nil {
		return nil, err
	}

	logging.Info(ctx, "Review created",
		"user_id", cmd.UserID, "product_id", cmd.ProductID, "grade", cmd.Grade)
	return review, nil
}

// DeleteReview 逻辑删除评价并重算商品评分
func (s *ReviewCommandService) DeleteReview(ctx context.Context, reviewID uint) error {
	return s.reviews.WithTx(ctx, func(txCtx context.Context) error {
		review, err := s.reviews.Get(txCtx, reviewID)
		if err != nil {
			return apperr.Internal("failed to load review", err)
		}
		if review == nil || !review.IsActive {
			return apperr.NotFound("review not found")
		}

		if err := s.reviews.Deactivate(txCtx, reviewID); err != nil {
			return apperr.Internal("failed to delete review", err)
		}

		return s.recomputeRating(txCtx, review.ProductID)
	})
}

// recomputeRating 按激活评价均分刷新商品评分，无评价时归零
func (s *ReviewCommandService) recomputeRating(ctx context.Context, productID uint) error {
	avg, err := s.reviews.AverageActiveGrade(ctx, productID)
	if err != nil {
		return apperr.Internal("failed to compute rating", err)
	}
	if err := s.products.UpdateRating(ctx, productID, avg); err != nil {
		return apperr.Internal("failed to update rating", err)
	}
	return nil
}

// ReviewPage 评价分页结果
type ReviewPage struct {
	Items    []*domain.Review `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// ReviewQueryService 评价查询服务
type ReviewQueryService struct {
	reviews domain.ReviewRepository
}

// NewReviewQueryService 创建评价查询服务实例
func NewReviewQueryService(reviews domain.ReviewRepository) *ReviewQueryService {
	return &ReviewQueryService{reviews: reviews}
}

// ListByProduct 按创建时间倒序分页返回商品的激活评价
func (s *ReviewQueryService) ListByProduct(ctx context.Context, productID uint, page, pageSize int) (*ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	reviews, total, err := s.reviews.ListActiveByProduct(ctx, productID, page, pageSize)
	if err != nil {
		return nil, apperr.Internal("failed to list reviews", err)
	}
	return &ReviewPage{
		Items:    reviews,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
