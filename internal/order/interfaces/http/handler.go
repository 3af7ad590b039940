// Package http 提供订单模块的 HTTP 接口
package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	authhttp "github.com/wyfcoding/ecommerce/internal/auth/interfaces/http"
	"github.com/wyfcoding/ecommerce/internal/order/application"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"github.com/wyfcoding/ecommerce/pkg/metrics"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	cmd     *application.OrderCommandService
	query   *application.OrderQueryService
	auth    gin.HandlerFunc
	metrics *metrics.Metrics
}

// NewOrderHandler 创建订单 HTTP 处理器实例
func NewOrderHandler(cmd *application.OrderCommandService, query *application.OrderQueryService, auth gin.HandlerFunc, m *metrics.Metrics) *OrderHandler {
	return &OrderHandler{cmd: cmd, query: query, auth: auth, metrics: m}
}

// RegisterRoutes 注册路由，全部要求登录
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/orders", h.auth)
	{
		api.POST("/checkout", h.Checkout)
		api.GET("", h.ListOrders)
		api.GET("/:id", h.GetOrder)
	}
}

// Checkout 结算购物车
func (h *OrderHandler) Checkout(c *gin.Context) {
	user := authhttp.CurrentUser(c)
	start := time.Now()

	order, err := h.cmd.Checkout(c.Request.Context(), user.ID)
	if err != nil {
		if h.metrics != nil {
			h.metrics.CheckoutsTotal.WithLabelValues("failure").Inc()
		}
		logging.Warn(c.Request.Context(), "Checkout failed", "user_id", user.ID, "error", err)
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	if h.metrics != nil {
		h.metrics.CheckoutsTotal.WithLabelValues("success").Inc()
		h.metrics.CheckoutDuration.Observe(time.Since(start).Seconds())
		amount, _ := order.TotalAmount.Float64()
		h.metrics.OrdersAmount.Observe(amount)
	}

	c.JSON(http.StatusCreated, order)
}

// ListOrders 分页列出当前用户订单
func (h *OrderHandler) ListOrders(c *gin.Context) {
	user := authhttp.CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := h.query.ListOrders(c.Request.Context(), user.ID, page, pageSize)
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, result)
}

// GetOrder 查询单个订单
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "")
		return
	}

	user := authhttp.CurrentUser(c)
	order, err := h.query.GetOrder(c.Request.Context(), user.ID, uint(id))
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, order)
}
