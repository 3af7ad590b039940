package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/auth/domain"
	"github.com/wyfcoding/ecommerce/internal/auth/infrastructure/messaging"
	authmysql "github.com/wyfcoding/ecommerce/internal/auth/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/internal/testutil"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"gorm.io/gorm"
)

type authFixture struct {
	db    *gorm.DB
	repo  domain.UserRepository
	cmd   *AuthCommandService
	query *AuthQueryService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := testutil.OpenDB(t, &authmysql.UserModel{}, &messaging.OutboxMessage{})

	repo := authmysql.NewUserRepository(db)
	tokens := NewTokenService("test-secret", 30*time.Minute, 7*24*time.Hour)
	publisher := messaging.NewOutboxEventPublisher(db)
	return &authFixture{
		db:    db,
		repo:  repo,
		cmd:   NewAuthCommandService(repo, tokens, publisher),
		query: NewAuthQueryService(repo, tokens),
	}
}

func (f *authFixture) register(t *testing.T, email string, role domain.UserRole) *domain.User {
	t.Helper()
	user, err := f.cmd.Register(context.Background(), RegisterCommand{
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := f.register(t, "alice@example.com", domain.RoleBuyer)
	assert.NotZero(t, user.ID)
	assert.True(t, user.IsActive)

	pair, err := f.cmd.Login(ctx, LoginCommand{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)

	// 注册事件已写入 outbox
	var count int64
	require.NoError(t, f.db.Table("auth_outbox_messages").
		Where("event_type = ?", "user.registered").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	f.register(t, "alice@example.com", domain.RoleBuyer)
	_, err := f.cmd.Register(context.Background(), RegisterCommand{
		Email:    "alice@example.com",
		Password: "password456",
		Role:     domain.RoleSeller,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.cmd.Register(context.Background(), RegisterCommand{
		Email:    "root@example.com",
		Password: "password123",
		Role:     domain.RoleAdmin,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", domain.RoleBuyer)

	_, err := f.cmd.Login(context.Background(), LoginCommand{Email: "alice@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "alice@example.com", domain.RoleBuyer)

	pair, err := f.cmd.Login(ctx, LoginCommand{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	access, err := f.cmd.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	user, err := f.query.Authenticate(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}

// 现网行为：Refresh 不区分令牌 type，access token 也能换新令牌
func TestRefreshAcceptsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "alice@example.com", domain.RoleBuyer)

	pair, err := f.cmd.Login(ctx, LoginCommand{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	access, err := f.cmd.Refresh(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "alice@example.com", domain.RoleBuyer)

	pair, err := f.cmd.Login(ctx, LoginCommand{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = f.query.Authenticate(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestRefreshRejectsInactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice@example.com", domain.RoleBuyer)

	pair, err := f.cmd.Login(ctx, LoginCommand{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, f.repo.Save(ctx, user))

	_, err = f.cmd.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}
