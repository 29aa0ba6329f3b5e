package models

import (
	"time"

	"github.com/google/uuid"
)

type CartItem struct {
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	ProductID  uuid.UUID `json:"product_id" db:"product_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// CartLine est la vue dénormalisée renvoyée par GET /api/cart
type CartLine struct {
	ProductID  uuid.UUID `json:"product_id" db:"product_id"`
	Name       string    `json:"name" db:"name"`
	ImageURL   string    `json:"image_url" db:"image_url"`
	UnitPrice  float64   `json:"unit_price" db:"unit_price"`
	Quantity   int       `json:"quantity" db:"quantity"`
	Subtotal   float64   `json:"subtotal" db:"subtotal"`
	VendorID   uuid.UUID `json:"vendor_id" db:"vendor_id"`
	VendorName string    `json:"vendor_name" db:"vendor_name"`
}

type CartView struct {
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
}
