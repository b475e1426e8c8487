package catalog

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electromart/storeapi/internal/apperrors"
)

func sampleProduct() ProductInput {
	return ProductInput{
		Name:        "4K Monitor 27\"",
		Description: "27-inch IPS 4K display",
		Price:       decimal.RequireFromString("379.99"),
		CostPrice:   decimal.RequireFromString("260.00"),
		CategoryID:  4,
		SKU:         "CMP-MON-27",
		IsActive:    true,
	}
}

func TestAddProductWithImage(t *testing.T) {
	s, mock := newTestService(t)

	input := sampleProduct()
	input.ImageURL = "https://img.example.com/mon.jpg"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO product_images")).
		WithArgs(int64(8), input.ImageURL).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := s.AddProduct(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddProductWithoutImageSkipsImageInsert(t *testing.T) {
	s, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	_, err := s.AddProduct(context.Background(), sampleProduct())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddProductValidation(t *testing.T) {
	s, mock := newTestService(t)

	_, err := s.AddProduct(context.Background(), ProductInput{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation), "got %v", err)

	bad := sampleProduct()
	bad.Price = decimal.NewFromInt(-1)
	_, err = s.AddProduct(context.Background(), bad)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation), "got %v", err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductNotFound(t *testing.T) {
	s, mock := newTestService(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateProduct(context.Background(), 404, sampleProduct())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound), "got %v", err)
}

func TestSetPrimaryImageUpdatesExisting(t *testing.T) {
	s, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT image_id FROM product_images")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"image_id"}).AddRow(55))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE product_images SET image_url")).
		WithArgs("https://img.example.com/new.jpg", int64(55)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.SetPrimaryImage(context.Background(), 3, "https://img.example.com/new.jpg")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPrimaryImageInsertsWhenMissing(t *testing.T) {
	s, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT image_id FROM product_images")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"image_id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO product_images")).
		WithArgs(int64(3), "https://img.example.com/new.jpg").
		WillReturnResult(sqlmock.NewResult(56, 1))

	err := s.SetPrimaryImage(context.Background(), 3, "https://img.example.com/new.jpg")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStockRejectsNegative(t *testing.T) {
	s, mock := newTestService(t)

	_, err := s.SetStock(context.Background(), 1, -5)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStockUpsertsAndReturnsRow(t *testing.T) {
	s, mock := newTestService(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO inventory")).
		WithArgs(int64(1), 40).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM inventory WHERE product_id")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "reserved_quantity"}).
			AddRow(1, 40, 3))

	inv, err := s.SetStock(context.Background(), 1, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, inv.Quantity)
	assert.Equal(t, 37, inv.Available())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductNotFound(t *testing.T) {
	s, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}))

	_, err := s.GetProduct(context.Background(), 404)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound), "got %v", err)
}
