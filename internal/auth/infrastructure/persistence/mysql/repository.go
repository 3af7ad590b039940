// Package mysql 提供用户仓储接口的 GORM 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/ecommerce/internal/auth/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

// UserModel 用户数据库模型，映射 users 表
type UserModel struct {
	gorm.Model
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:hashed_password;type:varchar(255);not null"`
	Role         string `gorm:"column:role;type:varchar(20);not null;default:'buyer'"`
	IsActive     bool   `gorm:"column:is_active;not null;default:true;index"`
}

// TableName 指定表名
func (UserModel) TableName() string { return "users" }

type userRepository struct{ db *gorm.DB }

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// WithTx 在事务中执行 fn，事务对象写入 context 供各仓储共享
func (r *userRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	db := r.getDB(ctx)
	model := toUserModel(user)
	if model.ID == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		user.ID = model.ID
		user.CreatedAt = model.CreatedAt
		user.UpdatedAt = model.UpdatedAt
		return nil
	}

	err := db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"email":           model.Email,
			"hashed_password": model.PasswordHash,
			"role":            model.Role,
			"is_active":       model.IsActive,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserModel
	err := r.getDB(ctx).WithContext(ctx).Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toUser(&model), nil
}

func (r *userRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("email = ? AND is_active = ?", email, true).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active user: %w", err)
	}
	return toUser(&model), nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var model UserModel
	err := r.getDB(ctx).WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toUser(&model), nil
}

func (r *userRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func toUserModel(u *domain.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
	}
	m.ID = u.ID
	return m
}

func toUser(m *UserModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		IsActive:     m.IsActive,
	}
}
