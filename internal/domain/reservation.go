package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationBooked    ReservationStatus = "BOOKED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

// Reservation represents a booked time slot.
// At most one non-cancelled reservation may occupy a ReservedAt instant;
// the reservations table enforces this with a partial unique index.
type Reservation struct {
	ID         uuid.UUID         `json:"id" db:"id"`
	UserID     uuid.UUID         `json:"user_id" db:"user_id"`
	ReservedAt time.Time         `json:"reserved_at" db:"reserved_at"`
	Status     ReservationStatus `json:"status" db:"status"`
	Memo       string            `json:"memo,omitempty" db:"memo"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}

// CanCancel reports whether the reservation is still in a cancellable state.
// CANCELLED and COMPLETED are terminal.
func (r *Reservation) CanCancel() bool {
	return r.Status == ReservationBooked
}
