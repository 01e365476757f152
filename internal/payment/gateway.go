// Package payment abstracts the external settlement collaborators used by the
// checkout flow. Cash needs no gateway; Venmo hands the customer a redirect
// URL; card settlement is not integrated yet and fails closed.
package payment

import (
	"context"
	"errors"

	"studio-booking/internal/domain"
)

var (
	// ErrNotImplemented is returned by gateways whose settlement path has no
	// real integration yet.
	ErrNotImplemented = errors.New("payment method not implemented")
)

// InitiateResult carries whatever the gateway needs the client to continue with.
type InitiateResult struct {
	RedirectURL  string
	ClientSecret string
}

// Gateway starts settlement of an order with an external provider.
type Gateway interface {
	Initiate(ctx context.Context, order *domain.Order) (*InitiateResult, error)
}
