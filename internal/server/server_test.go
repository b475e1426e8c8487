package server

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/electromart/storeapi/internal/auth"
	"github.com/electromart/storeapi/internal/catalog"
	"github.com/electromart/storeapi/internal/database"
	"github.com/electromart/storeapi/internal/images"
	"github.com/electromart/storeapi/internal/orders"
	"github.com/electromart/storeapi/internal/reports"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	db := database.Wrap(mockDB)
	srv := NewServer(
		db,
		logger,
		catalog.NewService(db, logger),
		orders.NewWriter(db, logger, 0),
		reports.NewService(db),
		auth.NewService(db, logger),
		images.NewFetcher(2, time.Second, logger),
	)
	return srv, mock, logs
}

func TestHealthCheck(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

// A catalog fault must not reach storefront clients: the response is an
// empty listing, and the fault is visible only on the log.
func TestListProductsDegradesToEmptyOnFault(t *testing.T) {
	srv, mock, logs := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products p")).
		WillReturnError(assert.AnError)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	entries := logs.FilterMessageSnippet("product listing failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestListProductsRejectsBadCategoryID(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products?category_id=abc", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderMapsAvailabilityToConflict(t *testing.T) {
	srv, mock, _ := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE inventory")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM inventory")).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	body := `{
		"customer_id": 42,
		"shipping_address_id": 7,
		"items": [{"product_id": 9, "quantity": 1, "unit_price": "10.00"}]
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "AVAILABILITY")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderSuccess(t *testing.T) {
	srv, mock, _ := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnResult(sqlmock.NewResult(78, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE inventory")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{
		"customer_id": 42,
		"shipping_address_id": 7,
		"items": [{"product_id": 9, "quantity": 2, "unit_price": "100.00"}]
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"order_id":78`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderResolvesMissingAddress(t *testing.T) {
	srv, mock, _ := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT address_id FROM addresses")).
		WillReturnRows(sqlmock.NewRows([]string{"address_id"}).AddRow(31))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs(int64(42), "pending", "10", int64(31), "card").
		WillReturnResult(sqlmock.NewResult(79, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE inventory")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{
		"customer_id": 42,
		"items": [{"product_id": 9, "quantity": 1, "unit_price": "10"}]
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	srv, mock, _ := newTestServer(t)

	body := `{"customer_id": 42, "shipping_address_id": 7, "items": []}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestIDHeader(t *testing.T) {
	srv, _, logs := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, logs.FilterMessageSnippet("request").All())
}
