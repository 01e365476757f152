package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"studio-booking/internal/domain"
	"studio-booking/internal/repository"

	"github.com/google/uuid"
)

type mockReviewRepository struct {
	reviews map[uuid.UUID]*domain.Review
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{
		reviews: make(map[uuid.UUID]*domain.Review),
	}
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review, exists := m.reviews[id]
	if !exists {
		return nil, repository.ErrReviewNotFound
	}
	return review, nil
}

func (m *mockReviewRepository) List(ctx context.Context, offset, limit int) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, r := range m.reviews {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockReviewRepository) Count(ctx context.Context) (int, error) {
	return len(m.reviews), nil
}

func (m *mockReviewRepository) AverageRating(ctx context.Context) (float64, error) {
	if len(m.reviews) == 0 {
		return 0, nil
	}
	sum := 0
	for _, r := range m.reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(m.reviews)), nil
}

type reviewFixture struct {
	svc             ReviewService
	reviewRepo      *mockReviewRepository
	reservationRepo *mockReservationRepository
	orderRepo       *mockOrderRepository
	userRepo        *mockUserRepository
}

func newReviewFixture() *reviewFixture {
	reviewRepo := newMockReviewRepository()
	reservationRepo := newMockReservationRepository()
	orderRepo := newMockOrderRepository()
	userRepo := newMockUserRepository()
	return &reviewFixture{
		svc:             NewReviewService(reviewRepo, reservationRepo, orderRepo, userRepo),
		reviewRepo:      reviewRepo,
		reservationRepo: reservationRepo,
		orderRepo:       orderRepo,
		userRepo:        userRepo,
	}
}

func TestCreateReview_RatingBounds(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}

	for _, rating := range []int{0, -3, 6, 100} {
		if _, err := f.svc.Create(ctx, actor, nil, nil, rating, ""); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}

	for rating := 1; rating <= 5; rating++ {
		if _, err := f.svc.Create(ctx, actor, nil, nil, rating, "fine"); err != nil {
			t.Fatalf("rating %d: expected success, got %v", rating, err)
		}
	}
}

func TestCreateReview_ReferencedReservationMustBelongToCaller(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	owner := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}
	stranger := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}

	reservation := &domain.Reservation{
		ID:         uuid.New(),
		UserID:     owner.ID,
		ReservedAt: time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
		Status:     domain.ReservationCompleted,
	}
	f.reservationRepo.reservations[reservation.ID] = reservation

	if _, err := f.svc.Create(ctx, stranger, &reservation.ID, nil, 5, ""); !errors.Is(err, repository.ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound for foreign reservation, got %v", err)
	}

	review, err := f.svc.Create(ctx, owner, &reservation.ID, nil, 4, "great session")
	if err != nil {
		t.Fatalf("owner review failed: %v", err)
	}
	if review.ReservationID == nil || *review.ReservationID != reservation.ID {
		t.Fatalf("review lost its reservation reference")
	}

	missing := uuid.New()
	if _, err := f.svc.Create(ctx, owner, &missing, nil, 4, ""); !errors.Is(err, repository.ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound for missing reservation, got %v", err)
	}
}

func TestCreateReview_ReferencedOrderMustBelongToCaller(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	owner := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}
	stranger := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}

	order := &domain.Order{
		ID:     uuid.New(),
		UserID: owner.ID,
		Status: domain.OrderPaid,
	}
	f.orderRepo.orders[order.ID] = order

	if _, err := f.svc.Create(ctx, stranger, nil, &order.ID, 3, ""); !errors.Is(err, repository.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign order, got %v", err)
	}

	if _, err := f.svc.Create(ctx, owner, nil, &order.ID, 3, ""); err != nil {
		t.Fatalf("owner review failed: %v", err)
	}
}

func TestCreateReview_AttachesUserName(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	user := &domain.User{
		ID:    uuid.New(),
		Email: "reviewer@example.com",
		Name:  "Han Reviewer",
		Role:  domain.RoleUser,
	}
	f.userRepo.users[user.Email] = user

	review, err := f.svc.Create(ctx, domain.Actor{ID: user.ID, Role: user.Role}, nil, nil, 5, "loved it")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if review.UserName != "Han Reviewer" {
		t.Fatalf("expected reviewer name attached, got %q", review.UserName)
	}
}
