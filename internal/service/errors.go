package service

import (
	"errors"

	"studio-booking/internal/domain"

	"github.com/google/uuid"
)

// Errors shared by the booking and checkout engines. Transport maps these to
// user-addressable HTTP responses; nothing here is retried internally.
var (
	// ErrForbidden is returned when the caller is neither the owner of the
	// resource nor an admin.
	ErrForbidden = errors.New("operation not permitted")

	// ErrInvalidState is returned for illegal lifecycle transitions such as
	// cancelling an already-cancelled reservation or paying a settled order.
	ErrInvalidState = errors.New("resource is not in a valid state for this operation")
)

// requireOwnerOrAdmin is the uniform capability check applied at the engine
// boundary for resources with an owning user.
func requireOwnerOrAdmin(actor domain.Actor, ownerID uuid.UUID) error {
	if actor.IsAdmin() || actor.ID == ownerID {
		return nil
	}
	return ErrForbidden
}
