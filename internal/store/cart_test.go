package store

import (
	"net/http"
	"regexp"
	"testing"

	"sarap_local_back_end/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var selectProductSQL = regexp.QuoteMeta(
	"SELECT id, vendor_id, name, price, stock_quantity FROM products WHERE id = $1")

func TestAddToCartUpsert(t *testing.T) {
	mock := newMockDB(t)

	customerID := uuid.New()
	productID := uuid.New()

	mock.ExpectQuery(selectProductSQL).WithArgs(productID).
		WillReturnRows(productRow(productID, uuid.New(), "Sisig", 120.00, 8))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cart_items")).
		WithArgs(customerID, productID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, AddToCart(customerID, productID, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartOutOfStock(t *testing.T) {
	mock := newMockDB(t)

	productID := uuid.New()

	mock.ExpectQuery(selectProductSQL).WithArgs(productID).
		WillReturnRows(productRow(productID, uuid.New(), "Sisig", 120.00, 0))

	err := AddToCart(uuid.New(), productID, 1)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartInsufficientStock(t *testing.T) {
	mock := newMockDB(t)

	productID := uuid.New()

	mock.ExpectQuery(selectProductSQL).WithArgs(productID).
		WillReturnRows(productRow(productID, uuid.New(), "Sisig", 120.00, 3))

	err := AddToCart(uuid.New(), productID, 5)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Errors, "stock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartInvalidQuantity(t *testing.T) {
	err := AddToCart(uuid.New(), uuid.New(), 0)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestUpdateCartItemZeroRemoves(t *testing.T) {
	mock := newMockDB(t)

	customerID := uuid.New()
	productID := uuid.New()

	// quantity <= 0 bascule sur un DELETE, jamais d'UPDATE à zéro
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items")).
		WithArgs(customerID, productID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, UpdateCartItem(customerID, productID, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveFromCartMissing(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := RemoveFromCart(uuid.New(), uuid.New())

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestGetCartTotals(t *testing.T) {
	mock := newMockDB(t)

	customerID := uuid.New()
	vendorID := uuid.New()

	rows := sqlmock.NewRows([]string{
		"product_id", "name", "image_url", "unit_price", "quantity", "vendor_id", "vendor_name",
	}).
		AddRow(uuid.New(), "Adobo", "", 100.00, 2, vendorID, "Aling Nena").
		AddRow(uuid.New(), "Halo-halo", "", 45.00, 3, vendorID, "Aling Nena")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT ci.product_id")).WithArgs(customerID).
		WillReturnRows(rows)

	view, err := GetCart(customerID)

	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 200.00, view.Items[0].Subtotal)
	assert.Equal(t, 135.00, view.Items[1].Subtotal)
	assert.Equal(t, 335.00, view.Total)
	assert.Equal(t, 5, view.ItemCount)
}
