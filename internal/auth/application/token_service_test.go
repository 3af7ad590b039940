package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/auth/domain"
)

func testUser() *domain.User {
	u := domain.NewUser("alice@example.com", "hash", domain.RoleBuyer)
	u.ID = 42
	return u
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", 30*time.Minute, 7*24*time.Hour)

	token, err := svc.IssueAccessToken(testUser())
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, "buyer", claims.Role)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestRefreshTokenType(t *testing.T) {
	svc := NewTokenService("secret", 30*time.Minute, 7*24*time.Hour)

	token, err := svc.IssueRefreshToken(testUser())
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", 30*time.Minute, 7*24*time.Hour)
	verifier := NewTokenService("secret-b", 30*time.Minute, 7*24*time.Hour)

	token, err := issuer.IssueAccessToken(testUser())
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("secret", -time.Minute, 7*24*time.Hour)

	token, err := svc.IssueAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.Parse(token)
	require.Error(t, err)
}
