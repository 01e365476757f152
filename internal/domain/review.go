package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is customer feedback optionally tied to a reservation or an order.
// Reviews are immutable after creation.
type Review struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty" db:"reservation_id"`
	OrderID       *uuid.UUID `json:"order_id,omitempty" db:"order_id"`
	Rating        int        `json:"rating" db:"rating"`
	Comment       string     `json:"comment,omitempty" db:"comment"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`

	// UserName is joined from the users table for display; not a column of reviews.
	UserName string `json:"user_name,omitempty"`
}
