package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"studio-booking/internal/domain"

	"github.com/google/uuid"
)

func ensureOrdersTable(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			total_amount NUMERIC(10,2) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
			payment_method VARCHAR(20) NOT NULL,
			payment_status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
			created_at TIMESTAMPTZ NOT NULL
		);
	`)
	if err != nil {
		t.Fatalf("failed to create orders table: %v", err)
	}
}

func seedPendingOrder(t *testing.T, userID uuid.UUID) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := testDB.Exec(`
		INSERT INTO orders (id, user_id, total_amount, status, payment_method, payment_status, created_at)
		VALUES ($1, $2, 45.00, 'PENDING', 'CASH', 'PENDING', $3)
	`, id, userID, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return id
}

// Settlement is a compare-and-set on PENDING: once an order leaves PENDING,
// further payment-state writes must lose without touching the row.
func TestUpdatePaymentStateIsCompareAndSet(t *testing.T) {
	requireTestDB(t)
	ensureOrdersTable(t)

	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	userID := seedTestUser(t)
	orderID := seedPendingOrder(t, userID)

	err := repo.UpdatePaymentState(ctx, orderID, domain.OrderPaid, domain.PaymentMethodCash, domain.PaymentCompleted)
	if err != nil {
		t.Fatalf("first settlement failed: %v", err)
	}

	err = repo.UpdatePaymentState(ctx, orderID, domain.OrderCancelled, domain.PaymentMethodCash, domain.PaymentFailed)
	if !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("expected ErrOrderNotPending for settled order, got %v", err)
	}

	var status, paymentStatus string
	if err := testDB.QueryRow(`SELECT status, payment_status FROM orders WHERE id = $1`, orderID).Scan(&status, &paymentStatus); err != nil {
		t.Fatalf("failed to read back order: %v", err)
	}
	if status != string(domain.OrderPaid) || paymentStatus != string(domain.PaymentCompleted) {
		t.Fatalf("losing write altered the order, got %s/%s", status, paymentStatus)
	}
}

func TestUpdatePaymentStateUnknownOrder(t *testing.T) {
	requireTestDB(t)
	ensureOrdersTable(t)

	repo := NewOrderRepository(testDB)
	err := repo.UpdatePaymentState(context.Background(), uuid.New(), domain.OrderPaid, domain.PaymentMethodCash, domain.PaymentCompleted)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
