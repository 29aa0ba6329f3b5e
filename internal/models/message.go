package models

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	VendorID   uuid.UUID `json:"vendor_id" db:"vendor_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	// Renseignés par les jointures de lecture
	CustomerName string `json:"customer_name,omitempty" db:"customer_name"`
	VendorName   string `json:"vendor_name,omitempty" db:"vendor_name"`
	LastMessage  string `json:"last_message,omitempty" db:"last_message"`
	UnreadCount  int    `json:"unread_count" db:"unread_count"`
}

type Message struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id" db:"sender_id"`
	Content        string    `json:"content" db:"content"`
	IsRead         bool      `json:"is_read" db:"is_read"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
