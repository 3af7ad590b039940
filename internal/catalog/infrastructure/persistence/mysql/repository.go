// Package mysql 提供目录仓储接口的 GORM 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

// CategoryModel 分类数据库模型，映射 categories 表
type CategoryModel struct {
	gorm.Model
	Name     string `gorm:"column:name;type:varchar(100);not null;index"`
	ParentID *uint  `gorm:"column:parent_id;index"`
	IsActive bool   `gorm:"column:is_active;not null;default:true;index"`
}

// TableName 指定表名
func (CategoryModel) TableName() string { return "categories" }

// ProductModel 商品数据库模型，映射 products 表
type ProductModel struct {
	gorm.Model
	Name        string  `gorm:"column:name;type:varchar(100);not null;index"`
	Description string  `gorm:"column:description;type:varchar(500)"`
	Price       string  `gorm:"column:price;type:decimal(10,2);not null"`
	ImageURL    string  `gorm:"column:image_url;type:varchar(200)"`
	Stock       int     `gorm:"column:stock;not null;default:0"`
	CategoryID  uint    `gorm:"column:category_id;not null;index:ix_products_category_active"`
	SellerID    uint    `gorm:"column:seller_id;not null;index"`
	Rating      float64 `gorm:"column:rating;not null;default:0"`
	IsActive    bool    `gorm:"column:is_active;not null;default:true;index:ix_products_category_active"`
}

// TableName 指定表名
func (ProductModel) TableName() string { return "products" }

type categoryRepository struct{ db *gorm.DB }

// NewCategoryRepository 创建分类仓储实例
func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Save(ctx context.Context, category *domain.Category) error {
	db := getDB(ctx, r.db)
	model := toCategoryModel(category)
	if model.ID == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		category.ID = model.ID
		category.CreatedAt = model.CreatedAt
		category.UpdatedAt = model.UpdatedAt
		return nil
	}

	err := db.WithContext(ctx).
		Model(&CategoryModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":      model.Name,
			"parent_id": model.ParentID,
			"is_active": model.IsActive,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetActive(ctx context.Context, id uint) (*domain.Category, error) {
	var model CategoryModel
	err := getDB(ctx, r.db).WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return toCategory(&model), nil
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]*domain.Category, error) {
	var models []CategoryModel
	err := getDB(ctx, r.db).WithContext(ctx).
		Where("is_active = ?", true).
		Order("id asc").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]*domain.Category, len(models))
	for i, m := range models {
		categories[i] = toCategory(&m)
	}
	return categories, nil
}

func (r *categoryRepository) Deactivate(ctx context.Context, id uint) error {
	err := getDB(ctx, r.db).WithContext(ctx).
		Model(&CategoryModel{}).
		Where("id = ?", id).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate category: %w", err)
	}
	return nil
}

type productRepository struct{ db *gorm.DB }

// NewProductRepository 创建商品仓储实例
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	db := getDB(ctx, r.db)
	model := toProductModel(product)
	if model.ID == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		product.ID = model.ID
		product.CreatedAt = model.CreatedAt
		product.UpdatedAt = model.UpdatedAt
		return nil
	}

	err := db.WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":        model.Name,
			"description": model.Description,
			"price":       model.Price,
			"image_url":   model.ImageURL,
			"stock":       model.Stock,
			"category_id": model.CategoryID,
			"is_active":   model.IsActive,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *productRepository) GetActive(ctx context.Context, id uint) (*domain.Product, error) {
	var model ProductModel
	err := getDB(ctx, r.db).WithContext(ctx).
		Joins("JOIN categories ON categories.id = products.category_id AND categories.is_active = ?", true).
		Where("products.id = ? AND products.is_active = ?", id, true).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return toProduct(&model), nil
}

func (r *productRepository) Get(ctx context.Context, id uint) (*domain.Product, error) {
	var model ProductModel
	err := getDB(ctx, r.db).WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return toProduct(&model), nil
}

func (r *productRepository) ListActive(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	db := getDB(ctx, r.db).WithContext(ctx).
		Model(&ProductModel{}).
		Joins("JOIN categories ON categories.id = products.category_id AND categories.is_active = ?", true).
		Where("products.is_active = ?", true)

	if filter.CategoryID != nil {
		db = db.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.SellerID != nil {
		db = db.Where("products.seller_id = ?", *filter.SellerID)
	}
	if filter.MinPrice != nil {
		db = db.Where("products.price >= ?", filter.MinPrice.String())
	}
	if filter.MaxPrice != nil {
		db = db.Where("products.price <= ?", filter.MaxPrice.String())
	}
	if filter.InStock {
		db = db.Where("products.stock > 0")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var models []ProductModel
	err := db.Order("products.id asc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*domain.Product, len(models))
	for i, m := range models {
		products[i] = toProduct(&m)
	}
	return products, total, nil
}

func (r *productRepository) Deactivate(ctx context.Context, id uint) error {
	err := getDB(ctx, r.db).WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ?", id).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}
	return nil
}

// DecrementStock 有条件扣减库存
// 条件更新挡住并发下的超卖：两个事务同时买最后一件时只有一个能满足 stock >= quantity
func (r *productRepository) DecrementStock(ctx context.Context, id uint, quantity int) (bool, error) {
	result := getDB(ctx, r.db).WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *productRepository) UpdateRating(ctx context.Context, id uint, rating float64) error {
	err := getDB(ctx, r.db).WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ?", id).
		Update("rating", rating).Error
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	return nil
}

func getDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

func toCategoryModel(c *domain.Category) *CategoryModel {
	m := &CategoryModel{Name: c.Name, ParentID: c.ParentID, IsActive: c.IsActive}
	m.ID = c.ID
	return m
}

func toCategory(m *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Name:      m.Name,
		ParentID:  m.ParentID,
		IsActive:  m.IsActive,
	}
}

func toProductModel(p *domain.Product) *ProductModel {
	m := &ProductModel{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		SellerID:    p.SellerID,
		Rating:      p.Rating,
		IsActive:    p.IsActive,
	}
	m.ID = p.ID
	return m
}

func toProduct(m *ProductModel) *domain.Product {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		price = decimal.Zero
	}
	return &domain.Product{
		ID:          m.ID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Name:        m.Name,
		Description: m.Description,
		Price:       price,
		ImageURL:    m.ImageURL,
		Stock:       m.Stock,
		CategoryID:  m.CategoryID,
		SellerID:    m.SellerID,
		Rating:      m.Rating,
		IsActive:    m.IsActive,
	}
}
