package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio-booking/internal/domain"
	"studio-booking/internal/payment"
	"studio-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart                = errors.New("order must contain at least one item")
	ErrInvalidQuantity          = errors.New("item quantity must be at least 1")
	ErrProductInactive          = errors.New("product is no longer available")
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
)

// CartItem is one line of a client-side cart submitted for checkout. The cart
// itself is transient; only the order it produces is persisted.
type CartItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// PaymentResult is what the checkout engine hands back after a settlement attempt.
type PaymentResult struct {
	OrderID      uuid.UUID
	Status       domain.OrderStatus
	Message      string
	PaymentURL   string
	ClientSecret string
}

// OrderService is the checkout engine: it turns a cart into a persisted order
// with snapshotted prices and drives payment-method-specific settlement.
type OrderService interface {
	Create(ctx context.Context, actor domain.Actor, items []CartItem, method domain.PaymentMethod) (*domain.Order, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, actor domain.Actor) ([]*domain.Order, error)
	ListAll(ctx context.Context, offset, limit int) ([]*domain.Order, error)
	ProcessPayment(ctx context.Context, actor domain.Actor, orderID uuid.UUID, method domain.PaymentMethod) (*PaymentResult, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	gateways    map[domain.PaymentMethod]payment.Gateway
	now         func() time.Time
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	gateways map[domain.PaymentMethod]payment.Gateway,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateways:    gateways,
		now:         time.Now,
	}
}

// Create prices every cart line from the product catalog, snapshots unit
// prices, and persists the order with its items in one transaction. Any
// invalid line aborts the whole order; no partial order is ever stored.
//
// Totals use fixed-point decimal arithmetic rounded half-up to 2 places, so
// accumulation cannot drift by fractions of a cent.
func (s *orderService) Create(ctx context.Context, actor domain.Actor, items []CartItem, method domain.PaymentMethod) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, ErrUnsupportedPaymentMethod
	}

	orderID := uuid.New()
	total := decimal.Zero
	orderItems := make([]*domain.OrderItem, 0, len(items))

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}

		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, ErrProductInactive
		}

		unitPrice := product.Price.Round(2)
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))

		orderItems = append(orderItems, &domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
	}

	order := &domain.Order{
		ID:            orderID,
		UserID:        actor.ID,
		TotalAmount:   total.Round(2),
		Status:        domain.OrderPending,
		PaymentMethod: method,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     s.now().UTC(),
		Items:         orderItems,
	}

	if err := s.orderRepo.CreateWithItems(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	return order, nil
}

// Get retrieves a single order with items, owner or admin only
func (s *orderService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := requireOwnerOrAdmin(actor, order.UserID); err != nil {
		return nil, err
	}

	return order, nil
}

// List retrieves the caller's orders newest first
func (s *orderService) List(ctx context.Context, actor domain.Actor) ([]*domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, actor.ID)
}

// ListAll retrieves orders across all users, for the admin back-office
func (s *orderService) ListAll(ctx context.Context, offset, limit int) ([]*domain.Order, error) {
	return s.orderRepo.ListAll(ctx, offset, limit)
}

// ProcessPayment settles a PENDING order with the chosen method.
//
//   - CASH settles immediately: status and payment status move to PAID/COMPLETED
//     in one store write.
//   - VENMO obtains a redirect URL from the gateway; the order stays
//     PENDING/PENDING until confirmed out of band.
//   - CARD has no integration and fails with payment.ErrNotImplemented, leaving
//     the order untouched.
//
// Calling this on a non-PENDING order returns ErrInvalidState, which is what
// makes repeated payment attempts on a settled order safe.
func (s *orderService) ProcessPayment(ctx context.Context, actor domain.Actor, orderID uuid.UUID, method domain.PaymentMethod) (*PaymentResult, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := requireOwnerOrAdmin(actor, order.UserID); err != nil {
		return nil, err
	}

	if order.Status != domain.OrderPending {
		return nil, ErrInvalidState
	}

	switch method {
	case domain.PaymentMethodCash:
		err := s.orderRepo.UpdatePaymentState(ctx, order.ID, domain.OrderPaid, domain.PaymentMethodCash, domain.PaymentCompleted)
		if errors.Is(err, repository.ErrOrderNotPending) {
			return nil, ErrInvalidState
		}
		if err != nil {
			return nil, fmt.Errorf("failed to settle cash payment: %w", err)
		}
		return &PaymentResult{
			OrderID: order.ID,
			Status:  domain.OrderPaid,
			Message: "cash payment completed",
		}, nil

	case domain.PaymentMethodVenmo:
		gateway, ok := s.gateways[domain.PaymentMethodVenmo]
		if !ok {
			return nil, ErrUnsupportedPaymentMethod
		}
		initiated, err := gateway.Initiate(ctx, order)
		if err != nil {
			return nil, fmt.Errorf("failed to initiate venmo payment: %w", err)
		}
		err = s.orderRepo.UpdatePaymentState(ctx, order.ID, domain.OrderPending, domain.PaymentMethodVenmo, domain.PaymentPending)
		if errors.Is(err, repository.ErrOrderNotPending) {
			return nil, ErrInvalidState
		}
		if err != nil {
			return nil, fmt.Errorf("failed to record venmo payment state: %w", err)
		}
		return &PaymentResult{
			OrderID:    order.ID,
			Status:     domain.OrderPending,
			Message:    "venmo payment link created",
			PaymentURL: initiated.RedirectURL,
		}, nil

	case domain.PaymentMethodCard:
		gateway, ok := s.gateways[domain.PaymentMethodCard]
		if !ok {
			return nil, payment.ErrNotImplemented
		}
		initiated, err := gateway.Initiate(ctx, order)
		if err != nil {
			return nil, err
		}
		return &PaymentResult{
			OrderID:      order.ID,
			Status:       domain.OrderPending,
			Message:      "card payment intent created",
			ClientSecret: initiated.ClientSecret,
		}, nil

	default:
		return nil, ErrUnsupportedPaymentMethod
	}
}
