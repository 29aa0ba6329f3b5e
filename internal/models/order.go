package models

import (
	"time"

	"github.com/google/uuid"
)

// Statuts de commande, dans l'ordre du cycle de vie
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Moyens de paiement acceptés
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentOnline = "online"
)

type Order struct {
	ID              uuid.UUID `json:"id" db:"id"`
	OrderNumber     string    `json:"order_number" db:"order_number"`
	CustomerID      uuid.UUID `json:"customer_id" db:"customer_id"`
	VendorID        uuid.UUID `json:"vendor_id" db:"vendor_id"`
	TotalAmount     float64   `json:"total_amount" db:"total_amount"`
	Status          string    `json:"status" db:"status"`
	DeliveryAddress string    `json:"delivery_address" db:"delivery_address"`
	CustomerNotes   string    `json:"customer_notes,omitempty" db:"customer_notes"`
	PaymentMethod   string    `json:"payment_method" db:"payment_method"`
	PaymentIntentID string    `json:"-" db:"payment_intent_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Renseignés par les jointures de lecture
	CustomerName string      `json:"customer_name,omitempty" db:"customer_name"`
	VendorName   string      `json:"vendor_name,omitempty" db:"vendor_name"`
	Items        []OrderItem `json:"items,omitempty"`
}

// OrderItem fige le prix au moment de la commande : subtotal = quantity × unit_price,
// jamais recalculé depuis le produit.
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	Subtotal    float64   `json:"subtotal" db:"subtotal"`
}

// CheckoutInput est le corps de POST /api/orders
type CheckoutInput struct {
	Items           []CheckoutItem `json:"items"`
	DeliveryAddress string         `json:"delivery_address"`
	CustomerNotes   string         `json:"customer_notes"`
	PaymentMethod   string         `json:"payment_method"`
}

type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CheckoutResult est renvoyé après un checkout réussi
type CheckoutResult struct {
	OrderIDs    []uuid.UUID `json:"order_ids"`
	OrderNumber string      `json:"order_number"`
	TotalAmount float64     `json:"total_amount"`
}
