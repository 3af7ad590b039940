package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/ecommerce/internal/auth/application"
	"github.com/wyfcoding/ecommerce/internal/auth/domain"
	"github.com/wyfcoding/pkg/response"
)

// CurrentUserKey gin context key holding the authenticated user
const CurrentUserKey = "current_user"

// AuthMiddleware 解析 Bearer token 并把用户写入请求上下文
func AuthMiddleware(query *application.AuthQueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "could not validate credentials", "")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		user, err := query.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "could not validate credentials", "")
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// RequireRole 要求当前用户具有指定角色
func RequireRole(role domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "could not validate credentials", "")
			c.Abort()
			return
		}
		if user.Role != role {
			response.ErrorWithStatus(c, http.StatusForbidden, "insufficient role", "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 取出请求上下文中的用户，未认证时为 nil
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
