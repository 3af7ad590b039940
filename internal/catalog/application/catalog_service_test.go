package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/internal/testutil"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"gorm.io/gorm"
)

type catalogFixture struct {
	db    *gorm.DB
	cmd   *CatalogCommandService
	query *CatalogQueryService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	db := testutil.OpenDB(t,
		&catalogmysql.CategoryModel{},
		&catalogmysql.ProductModel{},
	)

	categories := catalogmysql.NewCategoryRepository(db)
	products := catalogmysql.NewProductRepository(db)
	return &catalogFixture{
		db:    db,
		cmd:   NewCatalogCommandService(categories, products, nil, nil),
		query: NewCatalogQueryService(categories, products, nil, time.Minute),
	}
}

func (f *catalogFixture) seedCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	category, err := f.cmd.CreateCategory(context.Background(), CreateCategoryCommand{Name: name})
	require.NoError(t, err)
	return category
}

func (f *catalogFixture) seedProduct(t *testing.T, sellerID uint, price string, stock int, categoryID uint) *domain.Product {
	t.Helper()
	product, err := f.cmd.CreateProduct(context.Background(), sellerID, ProductInput{
		Name:       "p",
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return product
}

func TestUpdateCategorySelfParent(t *testing.T) {
	f := newCatalogFixture(t)
	category := f.seedCategory(t, "electronics")

	_, err := f.cmd.UpdateCategory(context.Background(), UpdateCategoryCommand{
		CategoryID: category.ID,
		Name:       "electronics",
		ParentID:   &category.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}

func TestCreateCategoryWithInactiveParent(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	parent := f.seedCategory(t, "parent")
	require.NoError(t, f.cmd.DeleteCategory(ctx, parent.ID))

	_, err := f.cmd.CreateCategory(ctx, CreateCategoryCommand{Name: "child", ParentID: &parent.ID})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestCreateProductInactiveCategory(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	category := f.seedCategory(t, "electronics")
	require.NoError(t, f.cmd.DeleteCategory(ctx, category.ID))

	_, err := f.cmd.CreateProduct(ctx, 1, ProductInput{
		Name:       "p",
		Price:      decimal.RequireFromString("10.00"),
		Stock:      1,
		CategoryID: category.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}

func TestCreateProductNonPositivePrice(t *testing.T) {
	f := newCatalogFixture(t)
	category := f.seedCategory(t, "electronics")

	_, err := f.cmd.CreateProduct(context.Background(), 1, ProductInput{
		Name:       "p",
		Price:      decimal.Zero,
		Stock:      1,
		CategoryID: category.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}

func TestUpdateProductOwnership(t *testing.T) {
	f := newCatalogFixture(t)
	category := f.seedCategory(t, "electronics")
	product := f.seedProduct(t, 1, "10.00", 5, category.ID)

	_, err := f.cmd.UpdateProduct(context.Background(), 2, product.ID, ProductInput{
		Name:       "renamed",
		Price:      decimal.RequireFromString("12.00"),
		Stock:      5,
		CategoryID: category.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
}

func TestDeleteProductHidesItFromReads(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	category := f.seedCategory(t, "electronics")
	product := f.seedProduct(t, 1, "10.00", 5, category.ID)

	require.NoError(t, f.cmd.DeleteProduct(ctx, 1, product.ID))

	_, err := f.query.GetProduct(ctx, product.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestDeactivatedCategoryHidesProducts(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	category := f.seedCategory(t, "electronics")
	product := f.seedProduct(t, 1, "10.00", 5, category.ID)

	require.NoError(t, f.cmd.DeleteCategory(ctx, category.ID))

	_, err := f.query.GetProduct(ctx, product.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestListProductsInvalidPriceRange(t *testing.T) {
	f := newCatalogFixture(t)
	minPrice := decimal.RequireFromString("20.00")
	maxPrice := decimal.RequireFromString("10.00")

	_, err := f.query.ListProducts(context.Background(), domain.ProductFilter{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}

func TestListProductsFilters(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	electronics := f.seedCategory(t, "electronics")
	books := f.seedCategory(t, "books")

	f.seedProduct(t, 1, "5.00", 0, electronics.ID)
	cheap := f.seedProduct(t, 1, "10.00", 3, electronics.ID)
	f.seedProduct(t, 2, "50.00", 3, books.ID)

	// 按分类
	page, err := f.query.ListProducts(ctx, domain.ProductFilter{CategoryID: &electronics.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	// 按库存
	page, err = f.query.ListProducts(ctx, domain.ProductFilter{CategoryID: &electronics.ID, InStock: true})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, cheap.ID, page.Items[0].ID)

	// 按价格区间
	minPrice := decimal.RequireFromString("8.00")
	maxPrice := decimal.RequireFromString("20.00")
	page, err = f.query.ListProducts(ctx, domain.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, cheap.ID, page.Items[0].ID)

	// 按卖家
	sellerID := uint(2)
	page, err = f.query.ListProducts(ctx, domain.ProductFilter{SellerID: &sellerID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestListProductsPagination(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	category := f.seedCategory(t, "electronics")
	for i := 0; i < 5; i++ {
		f.seedProduct(t, 1, "10.00", 1, category.ID)
	}

	page, err := f.query.ListProducts(ctx, domain.ProductFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Page)
}

func TestListProductsByCategoryUnknown(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.query.ListProductsByCategory(context.Background(), 999, 1, 10)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
