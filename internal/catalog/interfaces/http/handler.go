// Package http 提供目录模块的 HTTP 接口
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	authdomain "github.com/wyfcoding/ecommerce/internal/auth/domain"
	authhttp "github.com/wyfcoding/ecommerce/internal/auth/interfaces/http"
	"github.com/wyfcoding/ecommerce/internal/catalog/application"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// CatalogHandler 目录 HTTP 处理器
type CatalogHandler struct {
	cmd   *application.CatalogCommandService
	query *application.CatalogQueryService
	auth  gin.HandlerFunc
}

// NewCatalogHandler 创建目录 HTTP 处理器实例
func NewCatalogHandler(cmd *application.CatalogCommandService, query *application.CatalogQueryService, auth gin.HandlerFunc) *CatalogHandler {
	return &CatalogHandler{cmd: cmd, query: query, auth: auth}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/api/v1/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:id/products", h.ListProductsByCategory)

		admin := categories.Group("", h.auth, authhttp.RequireRole(authdomain.RoleAdmin))
		{
			admin.POST("", h.CreateCategory)
			admin.PUT("/:id", h.UpdateCategory)
			admin.DELETE("/:id", h.DeleteCategory)
		}
	}

	products := router.Group("/api/v1/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)

		seller := products.Group("", h.auth, authhttp.RequireRole(authdomain.RoleSeller))
		{
			seller.POST("", h.CreateProduct)
			seller.PUT("/:id", h.UpdateProduct)
			seller.DELETE("/:id", h.DeleteProduct)
		}
	}
}

// CategoryRequest 创建/更新分类请求
type CategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// CreateCategory 创建分类
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	category, err := h.cmd.CreateCategory(c.Request.Context(), application.CreateCategoryCommand{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to create category", "name", req.Name, "error", err)
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory 更新分类
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid category id", "")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	category, err := h.cmd.UpdateCategory(c.Request.Context(), application.UpdateCategoryCommand{
		CategoryID: id,
		Name:       req.Name,
		ParentID:   req.ParentID,
	})
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, category)
}

// DeleteCategory 停用分类
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid category id", "")
		return
	}

	if err := h.cmd.DeleteCategory(c.Request.Context(), id); err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, gin.H{"message": "category deactivated"})
}

// ListCategories 列出激活分类
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.query.ListCategories(c.Request.Context())
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}
	response.Success(c, categories)
}

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
	CategoryID  uint            `json:"category_id" binding:"required"`
}

func (r ProductRequest) toInput() application.ProductInput {
	return application.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
	}
}

// CreateProduct 创建商品
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	user := authhttp.CurrentUser(c)
	product, err := h.cmd.CreateProduct(c.Request.Context(), user.ID, req.toInput())
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to create product", "seller_id", user.ID, "error", err)
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct 更新商品
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	user := authhttp.CurrentUser(c)
	product, err := h.cmd.UpdateProduct(c.Request.Context(), user.ID, id, req.toInput())
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, product)
}

// DeleteProduct 下架商品
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	user := authhttp.CurrentUser(c)
	if err := h.cmd.DeleteProduct(c.Request.Context(), user.ID, id); err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, gin.H{"message": "product deactivated"})
}

// ListProducts 按条件分页列出商品
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid filter parameters", err.Error())
		return
	}

	page, err := h.query.ListProducts(c.Request.Context(), filter)
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, page)
}

// ListProductsByCategory 列出分类下的商品
func (h *CatalogHandler) ListProductsByCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid category id", "")
		return
	}

	pageNo, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	page, err := h.query.ListProductsByCategory(c.Request.Context(), id, pageNo, pageSize)
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, page)
}

// GetProduct 查询单个商品
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	product, err := h.query.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.ErrorWithStatus(c, apperr.HTTPStatus(err), apperr.MessageOf(err), "")
		return
	}

	response.Success(c, product)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func parseProductFilter(c *gin.Context) (domain.ProductFilter, error) {
	var filter domain.ProductFilter

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, err
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if v := c.Query("seller_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, err
		}
		sellerID := uint(id)
		filter.SellerID = &sellerID
	}
	if v := c.Query("min_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return filter, err
		}
		filter.MinPrice = &price
	}
	if v := c.Query("max_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return filter, err
		}
		filter.MaxPrice = &price
	}
	if v := c.Query("in_stock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return filter, err
		}
		filter.InStock = inStock
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return filter, nil
}
