package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/ecommerce/internal/auth/application"
	"github.com/wyfcoding/ecommerce/internal/auth/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// AuthHandler HTTP 处理器
// 负责注册、登录、令牌刷新与当前用户查询
type AuthHandler struct {
	cmd   *application.AuthCommandService
	query *application.AuthQueryService
}

// NewAuthHandler 创建 HTTP 处理器实例
func NewAuthHandler(cmd *application.AuthCommandService, query *application.AuthQueryService) *AuthHandler {
	return &AuthHandler{cmd: cmd, query: query}
}

// RegisterRoutes 注册路由
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/users")
	{
		api.POST("", h.Register)
		api.POST("/token", h.Login)
		api.POST("/refresh-token", h.Refresh)
		api.GET("/me", AuthMiddleware(h.query), h.Me)
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=buyer seller"`
}

// Register 注册新用户
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	user, err := h.cmd.Register(c.Request.Context(), application.RegisterCommand{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.UserRole(req.Role),
	})
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to register user", "email", req.Email, "error", err)
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录并签发令牌对
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	pair, err := h.cmd.Login(c.Request.Context(), application.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, pair)
}

// RefreshRequest 刷新请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh 用 refresh token 换取新的 access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	access, err := h.cmd.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, gin.H{"access_token": access, "token_type": "bearer"})
}

// Me 返回当前认证用户
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, CurrentUser(c))
}
