package store

import (
	"database/sql"
	"net/http"
	"regexp"
	"testing"
	"time"

	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lockProductSQL = regexp.QuoteMeta(
		"SELECT id, vendor_id, name, price, stock_quantity FROM products WHERE id = $1 FOR UPDATE")
	activeDiscountSQL = regexp.QuoteMeta(
		"SELECT COALESCE(MAX(discount_percent), 0) FROM promotions WHERE product_id = $1 AND now() BETWEEN starts_at AND ends_at")
	insertOrderSQL     = regexp.QuoteMeta("INSERT INTO orders")
	insertOrderItemSQL = regexp.QuoteMeta("INSERT INTO order_items")
	decrementStockSQL  = regexp.QuoteMeta("UPDATE products SET stock_quantity = stock_quantity - $1")
	insertNotifSQL     = regexp.QuoteMeta("INSERT INTO notifications")
	clearCartSQL       = regexp.QuoteMeta("DELETE FROM cart_items")
)

func productRow(id, vendorID uuid.UUID, name string, price float64, stock int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "vendor_id", "name", "price", "stock_quantity"}).
		AddRow(id, vendorID, name, price, stock)
}

func discountRow(percent int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"coalesce"}).AddRow(percent)
}

func TestCheckoutMultiVendor(t *testing.T) {
	mock := newMockDB(t)

	customerID := uuid.New()
	vendorA := uuid.New()
	vendorB := uuid.New()
	adobo := uuid.New()
	halo := uuid.New()

	mock.ExpectBegin()

	// Verrouillage des produits et recherche de promo, dans l'ordre des articles
	mock.ExpectQuery(lockProductSQL).WithArgs(adobo).
		WillReturnRows(productRow(adobo, vendorA, "Adobo", 100.00, 10))
	mock.ExpectQuery(activeDiscountSQL).WithArgs(adobo).
		WillReturnRows(discountRow(0))
	mock.ExpectQuery(lockProductSQL).WithArgs(halo).
		WillReturnRows(productRow(halo, vendorB, "Halo-halo", 50.00, 5))
	mock.ExpectQuery(activeDiscountSQL).WithArgs(halo).
		WillReturnRows(discountRow(10))

	// Une commande par vendeur, chacune avec ses lignes, son décrément de
	// stock et sa notification
	for range []uuid.UUID{vendorA, vendorB} {
		mock.ExpectExec(insertOrderSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertOrderItemSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(decrementStockSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertNotifSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	}

	mock.ExpectExec(clearCartSQL).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	orders, err := Checkout(customerID, models.CheckoutInput{
		Items: []models.CheckoutItem{
			{ProductID: adobo, Quantity: 1},
			{ProductID: halo, Quantity: 2},
		},
		DeliveryAddress: "123 Rizal St, Quezon City",
		PaymentMethod:   models.PaymentCash,
	})

	require.NoError(t, err)
	require.Len(t, orders, 2)

	// Même numéro partagé, une commande par vendeur dans l'ordre des articles
	assert.Equal(t, orders[0].OrderNumber, orders[1].OrderNumber)
	assert.Regexp(t, `^SL-\d+-\d{4}$`, orders[0].OrderNumber)
	assert.Equal(t, vendorA, orders[0].VendorID)
	assert.Equal(t, vendorB, orders[1].VendorID)

	// Prix figés : 100 sans promo, 50 - 10% = 45 × 2 = 90
	assert.Equal(t, 100.00, orders[0].TotalAmount)
	assert.Equal(t, 90.00, orders[1].TotalAmount)
	require.Len(t, orders[1].Items, 1)
	assert.Equal(t, 45.00, orders[1].Items[0].UnitPrice)
	assert.Equal(t, 90.00, orders[1].Items[0].Subtotal)

	assert.Equal(t, models.OrderStatusPending, orders[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	mock := newMockDB(t)

	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockProductSQL).WithArgs(productID).
		WillReturnRows(productRow(productID, uuid.New(), "Lumpia", 30.00, 1))
	mock.ExpectRollback()

	_, err := Checkout(uuid.New(), models.CheckoutInput{
		Items:           []models.CheckoutItem{{ProductID: productID, Quantity: 3}},
		DeliveryAddress: "Makati",
		PaymentMethod:   models.PaymentCash,
	})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Errors, "stock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutUnknownProduct(t *testing.T) {
	mock := newMockDB(t)

	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockProductSQL).WithArgs(productID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := Checkout(uuid.New(), models.CheckoutInput{
		Items:           []models.CheckoutItem{{ProductID: productID, Quantity: 1}},
		DeliveryAddress: "Cebu",
		PaymentMethod:   models.PaymentOnline,
	})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    models.CheckoutInput
		field string
	}{
		{
			name:  "panier vide",
			in:    models.CheckoutInput{DeliveryAddress: "Davao", PaymentMethod: models.PaymentCash},
			field: "items",
		},
		{
			name: "adresse manquante",
			in: models.CheckoutInput{
				Items:         []models.CheckoutItem{{ProductID: uuid.New(), Quantity: 1}},
				PaymentMethod: models.PaymentCash,
			},
			field: "delivery_address",
		},
		{
			name: "moyen de paiement inconnu",
			in: models.CheckoutInput{
				Items:           []models.CheckoutItem{{ProductID: uuid.New(), Quantity: 1}},
				DeliveryAddress: "Davao",
				PaymentMethod:   "gcash",
			},
			field: "payment_method",
		},
		{
			name: "quantité nulle",
			in: models.CheckoutInput{
				Items:           []models.CheckoutItem{{ProductID: uuid.New(), Quantity: 0}},
				DeliveryAddress: "Davao",
				PaymentMethod:   models.PaymentCash,
			},
			field: "items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Checkout(uuid.New(), tt.in)

			var appErr *utils.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			assert.Contains(t, appErr.Errors, tt.field)
		})
	}
}

func orderStatusRow(orderID, customerID, vendorID uuid.UUID, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "order_number", "customer_id", "vendor_id", "total_amount", "status",
		"delivery_address", "customer_notes", "payment_method", "payment_intent_id",
		"created_at", "updated_at", "customer_name", "customer_email",
	}).AddRow(orderID, "SL-1700000000-0042", customerID, vendorID, 250.00, status,
		"Taguig", "", models.PaymentCash, "", now, now, "Maria", "maria@example.ph")
}

func TestUpdateOrderStatus(t *testing.T) {
	mock := newMockDB(t)

	orderID := uuid.New()
	vendorID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT o.id")).WithArgs(orderID).
		WillReturnRows(orderStatusRow(orderID, uuid.New(), vendorID, models.OrderStatusPending))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	order, email, err := UpdateOrderStatus(vendorID, orderID, models.OrderStatusConfirmed)

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Equal(t, "maria@example.ph", email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusInvalidTransition(t *testing.T) {
	mock := newMockDB(t)

	orderID := uuid.New()
	vendorID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT o.id")).WithArgs(orderID).
		WillReturnRows(orderStatusRow(orderID, uuid.New(), vendorID, models.OrderStatusPending))

	_, _, err := UpdateOrderStatus(vendorID, orderID, models.OrderStatusCompleted)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusWrongVendor(t *testing.T) {
	mock := newMockDB(t)

	orderID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT o.id")).WithArgs(orderID).
		WillReturnRows(orderStatusRow(orderID, uuid.New(), uuid.New(), models.OrderStatusPending))

	_, _, err := UpdateOrderStatus(uuid.New(), orderID, models.OrderStatusConfirmed)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
