package orders

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveShippingAddressReturnsExisting(t *testing.T) {
	w, mock := newTestWriter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT address_id FROM addresses")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"address_id"}).AddRow(17))

	id, err := w.ResolveShippingAddress(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveShippingAddressCreatesPlaceholderOnce(t *testing.T) {
	w, mock := newTestWriter(t)

	// No address on file: the placeholder row is created.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT address_id FROM addresses")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"address_id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO addresses")).
		WithArgs(int64(42), "home", "ул. Примерная, д. 1", "Москва", "101000", "Russia").
		WillReturnResult(sqlmock.NewResult(23, 1))

	// The next call finds that row and inserts nothing.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT address_id FROM addresses")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"address_id"}).AddRow(23))

	first, err := w.ResolveShippingAddress(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(23), first)

	second, err := w.ResolveShippingAddress(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.NoError(t, mock.ExpectationsWereMet())
}
