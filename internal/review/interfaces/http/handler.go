// Package http 提供评价模块的 HTTP 接口
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	authdomain "github.com/wyfcoding/ecommerce/internal/auth/domain"
	authhttp "github.com/wyfcoding/ecommerce/internal/auth/interfaces/http"
	"github.com/wyfcoding/ecommerce/internal/review/application"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"github.com/wyfcoding/pkg/response"
)

// ReviewHandler 评价 HTTP 处理器
type ReviewHandler struct {
	cmd   *application.ReviewCommandService
	query *application.ReviewQueryService
	auth  gin.HandlerFunc
}

// NewReviewHandler 创建评价 HTTP 处理器实例
func NewReviewHandler(cmd *application.ReviewCommandService, query *application.ReviewQueryService, auth gin.HandlerFunc) *ReviewHandler {
	return &ReviewHandler{cmd: cmd, query: query, auth: auth}
}

// RegisterRoutes 注册路由
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/reviews")
	{
		api.POST("", h.auth, authhttp.RequireRole(authdomain.RoleBuyer), h.CreateReview)
		api.DELETE("/:id", h.auth, authhttp.RequireRole(authdomain.RoleAdmin), h.DeleteReview)
	}
	router.GET("/api/v1/products/:id/reviews", h.ListByProduct)
}

// CreateReviewRequest 创建评价请求
type CreateReviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Grade     int    `json:"grade" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// CreateReview 创建评价
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	user := authhttp.CurrentUser(c)
	review, err := h.cmd.CreateReview(c.Request.Context(), application.CreateReviewCommand{
		UserID:    user.ID,
		ProductID: req.ProductID,
		Grade:     req.Grade,
		Comment:   req.Comment,
	})
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// DeleteReview 删除评价
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid review id", "")
		return
	}

	if err := h.cmd.DeleteReview(c.Request.Context(), uint(id)); err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, gin.H{"message": "review deleted"})
}

// ListByProduct 列出商品的激活评价
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := h.query.ListByProduct(c.Request.Context(), uint(id), page, pageSize)
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, result)
}
