package service

import (
	"context"
	"testing"
	"time"

	"studio-booking/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestDashboard_AggregatesAcrossStores(t *testing.T) {
	reservationRepo := newMockReservationRepository()
	orderRepo := newMockOrderRepository()
	userRepo := newMockUserRepository()
	reviewRepo := newMockReviewRepository()
	svc := NewAdminService(reservationRepo, orderRepo, userRepo, reviewRepo)
	ctx := context.Background()

	// Two booked reservations, one cancelled
	for i, status := range []domain.ReservationStatus{
		domain.ReservationBooked,
		domain.ReservationBooked,
		domain.ReservationCancelled,
	} {
		id := uuid.New()
		reservationRepo.reservations[id] = &domain.Reservation{
			ID:         id,
			UserID:     uuid.New(),
			ReservedAt: time.Date(2026, 3, 2+i, 10, 0, 0, 0, time.UTC),
			Status:     status,
		}
	}

	// One paid order of 9000.00, one still pending, one paid of 150.50
	orders := []struct {
		status domain.OrderStatus
		total  string
	}{
		{domain.OrderPaid, "9000.00"},
		{domain.OrderPending, "45.00"},
		{domain.OrderPaid, "150.50"},
	}
	for _, o := range orders {
		id := uuid.New()
		orderRepo.orders[id] = &domain.Order{
			ID:          id,
			UserID:      uuid.New(),
			Status:      o.status,
			TotalAmount: decimal.RequireFromString(o.total),
		}
	}

	// Two users
	for _, email := range []string{"a@example.com", "b@example.com"} {
		userRepo.users[email] = &domain.User{ID: uuid.New(), Email: email, Role: domain.RoleUser}
	}

	// Ratings 4 and 5
	for _, rating := range []int{4, 5} {
		id := uuid.New()
		reviewRepo.reviews[id] = &domain.Review{ID: id, UserID: uuid.New(), Rating: rating}
	}

	stats, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}

	if stats.Reservations.Total != 3 || stats.Reservations.Pending != 2 {
		t.Fatalf("reservation stats wrong: %+v", stats.Reservations)
	}
	if stats.Orders.Total != 3 || stats.Orders.Pending != 1 {
		t.Fatalf("order stats wrong: %+v", stats.Orders)
	}
	if !stats.Orders.TotalRevenue.Equal(decimal.RequireFromString("9150.50")) {
		t.Fatalf("revenue must only count PAID orders, got %s", stats.Orders.TotalRevenue)
	}
	if stats.Users.Total != 2 {
		t.Fatalf("user stats wrong: %+v", stats.Users)
	}
	if stats.Reviews.Total != 2 || stats.Reviews.AverageRating != 4.5 {
		t.Fatalf("review stats wrong: %+v", stats.Reviews)
	}
}

func TestDashboard_EmptyPlatform(t *testing.T) {
	svc := NewAdminService(
		newMockReservationRepository(),
		newMockOrderRepository(),
		newMockUserRepository(),
		newMockReviewRepository(),
	)

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}

	if stats.Reservations.Total != 0 || stats.Orders.Total != 0 || stats.Users.Total != 0 || stats.Reviews.Total != 0 {
		t.Fatalf("empty platform must report zeros: %+v", stats)
	}
	if !stats.Orders.TotalRevenue.Equal(decimal.Zero) {
		t.Fatalf("empty platform revenue must be zero, got %s", stats.Orders.TotalRevenue)
	}
	if stats.Reviews.AverageRating != 0 {
		t.Fatalf("empty platform average rating must be zero, got %f", stats.Reviews.AverageRating)
	}
}
