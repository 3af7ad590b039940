// Package http 提供购物车模块的 HTTP 接口
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	authhttp "github.com/wyfcoding/ecommerce/internal/auth/interfaces/http"
	"github.com/wyfcoding/ecommerce/internal/cart/application"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"github.com/wyfcoding/pkg/response"
)

// CartHandler 购物车 HTTP 处理器
type CartHandler struct {
	cmd   *application.CartCommandService
	query *application.CartQueryService
	auth  gin.HandlerFunc
}

// NewCartHandler 创建购物车 HTTP 处理器实例
func NewCartHandler(cmd *application.CartCommandService, query *application.CartQueryService, auth gin.HandlerFunc) *CartHandler {
	return &CartHandler{cmd: cmd, query: query, auth: auth}
}

// RegisterRoutes 注册路由，全部要求登录
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/cart", h.auth)
	{
		api.GET("", h.ViewCart)
		api.POST("/items", h.AddItem)
		api.PUT("/items/:product_id", h.UpdateItem)
		api.DELETE("/items/:product_id", h.RemoveItem)
		api.DELETE("", h.Clear)
	}
}

// AddItemRequest 加购请求
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// AddItem 加入购物车
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	user := authhttp.CurrentUser(c)
	item, err := h.cmd.AddItem(c.Request.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateItemRequest 改量请求
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// UpdateItem 覆盖条目数量
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, err := parseProductID(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	user := authhttp.CurrentUser(c)
	item, err := h.cmd.UpdateItem(c.Request.Context(), user.ID, productID, req.Quantity)
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, item)
}

// RemoveItem 删除条目
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := parseProductID(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	user := authhttp.CurrentUser(c)
	if err := h.cmd.RemoveItem(c.Request.Context(), user.ID, productID); err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, gin.H{"message": "cart item removed"})
}

// Clear 清空购物车
func (h *CartHandler) Clear(c *gin.Context) {
	user := authhttp.CurrentUser(c)
	if err := h.cmd.Clear(c.Request.Context(), user.ID); err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, gin.H{"message": "cart cleared"})
}

// ViewCart 查看购物车
func (h *CartHandler) ViewCart(c *gin.Context) {
	user := authhttp.CurrentUser(c)
	view, err := h.query.ViewCart(c.Request.Context(), user.ID)
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, view)
}

func parseProductID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
