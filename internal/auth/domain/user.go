// Package domain 包含用户与认证的领域模型
package domain

import "time"

// UserRole 用户角色
type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

// Valid 角色是否合法
func (r UserRole) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// User 用户实体
// 注册后创建，永不物理删除，仅通过 is_active 停用
type User struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
}

// NewUser 创建用户
func NewUser(email, passwordHash string, role UserRole) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}
}

// IsSeller 是否为卖家
func (u *User) IsSeller() bool { return u.Role == RoleSeller }

// IsBuyer 是否为买家
func (u *User) IsBuyer() bool { return u.Role == RoleBuyer }

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
