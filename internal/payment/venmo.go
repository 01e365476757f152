package payment

import (
	"context"
	"fmt"

	"studio-booking/internal/domain"
)

// VenmoGateway builds the pay link the customer is redirected to. Settlement
// confirmation would arrive out of band; no webhook handler exists, so orders
// paid through Venmo stay PENDING until reconciled operationally.
type VenmoGateway struct {
	payURL string
}

// NewVenmoGateway creates a VenmoGateway rooted at the given pay URL.
func NewVenmoGateway(payURL string) *VenmoGateway {
	return &VenmoGateway{payURL: payURL}
}

// Initiate returns the redirect URL for the order.
func (g *VenmoGateway) Initiate(ctx context.Context, order *domain.Order) (*InitiateResult, error) {
	return &InitiateResult{
		RedirectURL: fmt.Sprintf("%s?order=%s", g.payURL, order.ID),
	}, nil
}
