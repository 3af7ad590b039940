package domain

import "context"

// UserRepository 用户仓储接口
type UserRepository interface {
	// 在事务中执行 fn，事务通过 context 传播
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// 保存用户（新建或更新）
	Save(ctx context.Context, user *User) error
	// 按邮箱查找，未找到时返回 (nil, nil)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// 按 ID 查找，未找到时返回 (nil, nil)
	GetByID(ctx context.Context, id uint) (*User, error)
	// 按邮箱查找活跃用户，未找到时返回 (nil, nil)
	GetActiveByEmail(ctx context.Context, email string) (*User, error)
}
