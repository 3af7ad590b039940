package application

import (
	"context"
	"time"

	"github.com/wyfcoding/ecommerce/internal/auth/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/logging"
	"golang.org/x/crypto/bcrypt"
)

// RegisterCommand 注册命令
type RegisterCommand struct {
	Email    string
	Password string
	Role     domain.UserRole
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email    string
	Password string
}

// TokenPair 登录返回的令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthCommandService 认证命令服务
type AuthCommandService struct {
	repo      domain.UserRepository
	tokens    *TokenService
	publisher domain.EventPublisher
}

// NewAuthCommandService 创建认证命令服务实例
func NewAuthCommandService(repo domain.UserRepository, tokens *TokenService, publisher domain.EventPublisher) *AuthCommandService {
	return &AuthCommandService{repo: repo, tokens: tokens, publisher: publisher}
}

// Register 处理用户注册
// 重复邮箱返回 Conflict；角色仅允许 buyer/seller，admin 由运维工具创建
func (s *AuthCommandService) Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	if cmd.Role != domain.RoleBuyer && cmd.Role != domain.RoleSeller {
		return nil, apperr.BadRequest("role must be buyer or seller")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	var user *domain.User
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByEmail(txCtx, cmd.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("email already registered")
		}

		user = domain.NewUser(cmd.Email, string(hash), cmd.Role)
		if err := s.repo.Save(txCtx, user); err != nil {
			return err
		}

		if s.publisher == nil {
			return nil
		}
		event := domain.UserRegisteredEvent{
			UserID:    user.ID,
			Email:     user.Email,
			Role:      user.Role,
			Timestamp: time.Now(),
		}
		return s.publisher.PublishInTx(txCtx, contextx.GetTx(txCtx), domain.UserRegisteredEventType, user.Email, event)
	})
	if err != nil {
		return nil, err
	}

	logging.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login 校验凭证并签发令牌对
func (s *AuthCommandService) Login(ctx context.Context, cmd LoginCommand) (*TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("incorrect email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, apperr.Unauthorized("incorrect email or password")
	}

	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Refresh 用 refresh token 换取新的 access token
// 只校验签名、有效期与 subject，不校验 type 字段，
// 与现网行为保持一致（已知的 token 混用问题，修复需单独评审）。
func (s *AuthCommandService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil {
		return "", apperr.Unauthorized("could not validate refresh token")
	}
	if claims.Subject == "" {
		return "", apperr.Unauthorized("could not validate refresh token")
	}

	user, err := s.repo.GetActiveByEmail(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperr.Unauthorized("could not validate refresh token")
	}

	return s.tokens.IssueAccessToken(user)
}
