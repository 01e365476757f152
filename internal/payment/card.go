package payment

import (
	"context"

	"studio-booking/internal/domain"
)

// CardGateway is a placeholder for a card processor integration. It fails
// closed rather than pretending a charge succeeded.
type CardGateway struct{}

// NewCardGateway creates the stub card gateway.
func NewCardGateway() *CardGateway {
	return &CardGateway{}
}

// Initiate always returns ErrNotImplemented.
func (g *CardGateway) Initiate(ctx context.Context, order *domain.Order) (*InitiateResult, error) {
	return nil, ErrNotImplemented
}
