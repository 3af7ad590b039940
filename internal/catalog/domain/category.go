// Package domain 包含商品目录的领域模型
package domain

import (
	"context"
	"time"
)

// Category 商品分类
// parent_id 形成树状结构；仅逻辑删除
type Category struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	ParentID  *uint     `json:"parent_id"`
	IsActive  bool      `json:"is_active"`
}

// NewCategory 创建分类
func NewCategory(name string, parentID *uint) *Category {
	return &Category{Name: name, ParentID: parentID, IsActive: true}
}

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	// 保存分类（新建或整体更新）
	Save(ctx context.Context, category *Category) error
	// 按 ID 查找活跃分类，未找到时返回 (nil, nil)
	GetActive(ctx context.Context, id uint) (*Category, error)
	// 列出所有活跃分类
	ListActive(ctx context.Context) ([]*Category, error)
	// 逻辑删除
	Deactivate(ctx context.Context, id uint) error
}
