package models

import (
	"time"

	"github.com/google/uuid"
)

type Reel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	VendorID  uuid.UUID  `json:"vendor_id" db:"vendor_id"`
	VideoURL  string     `json:"video_url" db:"video_url"`
	Caption   string     `json:"caption,omitempty" db:"caption"`
	ProductID *uuid.UUID `json:"product_id,omitempty" db:"product_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`

	// Renseignés par les jointures de lecture
	VendorName string `json:"vendor_name,omitempty" db:"vendor_name"`
	LikesCount int    `json:"likes_count" db:"likes_count"`
	LikedByMe  bool   `json:"liked_by_me" db:"liked_by_me"`
}
