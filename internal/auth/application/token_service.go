package application

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wyfcoding/ecommerce/internal/auth/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
)

// Token 类型
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// UserClaims JWT 声明：sub=邮箱, role, id, type, exp
type UserClaims struct {
	Role      string `json:"role"`
	UserID    uint   `json:"id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService 签发与校验 JWT
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService 创建 TokenService
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken 签发 access token
func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	return s.issue(user, TokenTypeAccess, s.accessTTL)
}

// IssueRefreshToken 签发 refresh token
func (s *TokenService) IssueRefreshToken(user *domain.User) (string, error) {
	return s.issue(user, TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) issue(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := UserClaims{
		Role:      string(user.Role),
		UserID:    user.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal("failed to sign token", err)
	}
	return signed, nil
}

// Parse 校验签名与有效期并返回声明
func (s *TokenService) Parse(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnauthorized, "could not validate credentials", err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, apperr.Unauthorized("could not validate credentials")
	}
	return claims, nil
}
