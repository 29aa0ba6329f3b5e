package models

import (
	"time"

	"github.com/google/uuid"
)

// Promotion applique une remise en pourcentage sur un produit pendant une
// fenêtre de temps. Le prix effectif est figé dans OrderItem au checkout.
type Promotion struct {
	ID              uuid.UUID `json:"id" db:"id"`
	VendorID        uuid.UUID `json:"vendor_id" db:"vendor_id"`
	ProductID       uuid.UUID `json:"product_id" db:"product_id"`
	DiscountPercent int       `json:"discount_percent" db:"discount_percent"`
	StartsAt        time.Time `json:"starts_at" db:"starts_at"`
	EndsAt          time.Time `json:"ends_at" db:"ends_at"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	ProductName string `json:"product_name,omitempty" db:"product_name"`
}
