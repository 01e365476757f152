package domain

import (
	"time"

	"github.com/google/uuid"
)

// GalleryItem is an admin-curated image shown on the public gallery page.
// Deletion is soft via IsActive.
type GalleryItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	Caption   string    `json:"caption,omitempty" db:"caption"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
