package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	VendorID      uuid.UUID `json:"vendor_id" db:"vendor_id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Category      string    `json:"category" db:"category"`
	Price         float64   `json:"price" db:"price"`
	StockQuantity int       `json:"stock_quantity" db:"stock_quantity"`
	// Dérivé de stock_quantity > 0, jamais stocké
	IsAvailable bool      `json:"is_available" db:"is_available"`
	ImageURL    string    `json:"image_url,omitempty" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Renseignés par les jointures de lecture
	VendorName     string   `json:"vendor_name,omitempty" db:"vendor_name"`
	EffectivePrice *float64 `json:"effective_price,omitempty" db:"effective_price"`
}
