package application

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/auth/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
)

// AuthQueryService 认证查询服务
type AuthQueryService struct {
	repo   domain.UserRepository
	tokens *TokenService
}

// NewAuthQueryService 创建认证查询服务实例
func NewAuthQueryService(repo domain.UserRepository, tokens *TokenService) *AuthQueryService {
	return &AuthQueryService{repo: repo, tokens: tokens}
}

// Authenticate 解析 access token 并加载活跃用户
// 签名无效、过期、type 不是 access、subject 缺失或用户不可用时返回 Unauthorized
func (s *AuthQueryService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, apperr.Unauthorized("could not validate credentials")
	}
	if claims.Subject == "" {
		return nil, apperr.Unauthorized("could not validate credentials")
	}

	user, err := s.repo.GetActiveByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("could not validate credentials")
	}
	return user, nil
}

// GetUser 按 ID 查询用户
func (s *AuthQueryService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}
