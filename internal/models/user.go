package models

import (
	"time"

	"github.com/google/uuid"
)

// Rôles disponibles dans Sarap Local
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

type User struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Password   string    `json:"-" db:"password"`
	Role       string    `json:"role" db:"role"`
	Phone      string    `json:"phone,omitempty" db:"phone"`
	Address    string    `json:"address,omitempty" db:"address"`
	Latitude   *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude  *float64  `json:"longitude,omitempty" db:"longitude"`
	AvatarURL  string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Provider   string    `json:"provider,omitempty" db:"provider"`
	ProviderID string    `json:"-" db:"provider_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
