package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/electromart/storeapi/internal/apperrors"
	"github.com/electromart/storeapi/internal/database"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(database.Wrap(db), zap.NewNop()), mock
}

func productColumns() []string {
	return []string{"product_id", "name", "description", "price", "category_name", "available_quantity", "image_url"}
}

func TestListAvailableFlagsZeroStock(t *testing.T) {
	s, mock := newTestService(t)

	url := "https://img.example.com/1.jpg"
	mock.ExpectQuery(regexp.QuoteMeta("FROM products p")).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(1, "Laptop Pro 15\"", "High-performance laptop", "1299.99", "Laptops", 25, url).
			AddRow(2, "Phone X2", "Flagship smartphone", "999.99", "Smartphones", 0, nil))

	products, err := s.ListAvailable(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.True(t, products[0].CanPurchase)
	require.NotNil(t, products[0].PrimaryImageURL)
	assert.Equal(t, url, *products[0].PrimaryImageURL)

	// Zero availability stays in the listing but cannot be purchased.
	assert.False(t, products[1].CanPurchase)
	assert.Equal(t, 0, products[1].AvailableQuantity)
	assert.Nil(t, products[1].PrimaryImageURL)
}

func TestListAvailableAppliesFilters(t *testing.T) {
	s, mock := newTestService(t)

	mock.ExpectQuery("AND p.category_id = \\?.*LIKE").
		WithArgs(int64(3), "%buds%", "%buds%").
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(5, "Wireless Earbuds", "Noise-cancelling in-ear buds", "129.99", "Audio", 200, nil))

	products, err := s.ListAvailable(context.Background(), ListOptions{CategoryID: 3, Search: "buds"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Wireless Earbuds", products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAvailableSurfacesFault(t *testing.T) {
	s, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products p")).
		WillReturnError(errors.New("connection refused"))

	products, err := s.ListAvailable(context.Background(), ListOptions{})
	assert.Nil(t, products)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeDatabase), "got %v", err)
}

func TestRootCategories(t *testing.T) {
	s, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("parent_category_id IS NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"category_id", "name"}).
			AddRow(1, "Laptops").
			AddRow(2, "Smartphones"))

	categories, err := s.RootCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Laptops", categories[0].Name)
}
