package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	reviewmysql "github.com/wyfcoding/ecommerce/internal/review/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/internal/testutil"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"gorm.io/gorm"
)

type reviewFixture struct {
	db       *gorm.DB
	products catalogdomain.ProductRepository
	cmd      *ReviewCommandService
	query    *ReviewQueryService
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	db := testutil.OpenDB(t,
		&catalogmysql.CategoryModel{},
		&catalogmysql.ProductModel{},
		&reviewmysql.ReviewModel{},
	)

	products := catalogmysql.NewProductRepository(db)
	reviews := reviewmysql.NewReviewRepository(db)
	return &reviewFixture{
		db:       db,
		products: products,
		cmd:      NewReviewCommandService(reviews, products),
		query:    NewReviewQueryService(reviews),
	}
}

func (f *reviewFixture) seedProduct(t *testing.T) *catalogdomain.Product {
	t.Helper()
	ctx := context.Background()

	categories := catalogmysql.NewCategoryRepository(f.db)
	category := catalogdomain.NewCategory("general", nil)
	require.NoError(t, categories.Save(ctx, category))

	product := catalogdomain.NewProduct("p", "", decimal.RequireFromString("10.00"), "", 10, category.ID, 1)
	require.NoError(t, f.products.Save(ctx, product))
	return product
}

func (f *reviewFixture) rating(t *testing.T, productID uint) float64 {
	t.Helper()
	product, err := f.products.Get(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, product)
	return product.Rating
}

func TestCreateReviewRecomputesRating(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t)

	_, err := f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 1, ProductID: product.ID, Grade: 4})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, f.rating(t, product.ID), 1e-9)

	_, err = f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 2, ProductID: product.ID, Grade: 2})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, f.rating(t, product.ID), 1e-9)
}

func TestDeleteReviewRecomputesRating(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t)

	first, err := f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 1, ProductID: product.ID, Grade: 4})
	require.NoError(t, err)
	_, err = f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 2, ProductID: product.ID, Grade: 2})
	require.NoError(t, err)

	require.NoError(t, f.cmd.DeleteReview(ctx, first.ID))
	assert.InDelta(t, 2.0, f.rating(t, product.ID), 1e-9)
}

func TestDeleteLastReviewZeroesRating(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t)

	review, err := f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 1, ProductID: product.ID, Grade: 5})
	require.NoError(t, err)

	require.NoError(t, f.cmd.DeleteReview(ctx, review.ID))
	assert.Zero(t, f.rating(t, product.ID))
}

func TestCreateReviewDuplicate(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t)

	_, err := f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 1, ProductID: product.ID, Grade: 4})
	require.NoError(t, err)

	_, err = f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 1, ProductID: product.ID, Grade: 5})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}

func TestCreateReviewAfterDeleteAllowed(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t)

	review, err := f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 1, ProductID: product.ID, Grade: 4})
	require.NoError(t, err)
	require.NoError(t, f.cmd.DeleteReview(ctx, review.ID))

	// 旧评价已删除，允许重新评价
	_, err = f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 1, ProductID: product.ID, Grade: 5})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, f.rating(t, product.ID), 1e-9)
}

func TestCreateReviewGradeOutOfRange(t *testing.T) {
	f := newReviewFixture(t)
	product := f.seedProduct(t)

	for _, grade := range []int{0, 6, -1} {
		_, err := f.cmd.CreateReview(context.Background(), CreateReviewCommand{UserID: 1, ProductID: product.ID, Grade: grade})
		require.Error(t, err, "grade %d", grade)
		assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
	}
}

func TestCreateReviewInactiveProduct(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t)
	require.NoError(t, f.products.Deactivate(ctx, product.ID))

	_, err := f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 1, ProductID: product.ID, Grade: 4})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestDeleteReviewTwice(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t)

	review, err := f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 1, ProductID: product.ID, Grade: 4})
	require.NoError(t, err)
	require.NoError(t, f.cmd.DeleteReview(ctx, review.ID))

	err = f.cmd.DeleteReview(ctx, review.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestListByProductOnlyActive(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t)

	kept, err := f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 1, ProductID: product.ID, Grade: 4, Comment: "good"})
	require.NoError(t, err)
	deleted, err := f.cmd.CreateReview(ctx, CreateReviewCommand{UserID: 2, ProductID: product.ID, Grade: 2})
	require.NoError(t, err)
	require.NoError(t, f.cmd.DeleteReview(ctx, deleted.ID))

	page, err := f.query.ListByProduct(ctx, product.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, kept.ID, page.Items[0].ID)
	assert.Equal(t, int64(1), page.Total)
}
