package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio-booking/internal/domain"
	"studio-booking/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// ReviewService manages customer reviews. A review may reference the caller's
// reservation or order; once written it is immutable.
type ReviewService interface {
	Create(ctx context.Context, actor domain.Actor, reservationID, orderID *uuid.UUID, rating int, comment string) (*domain.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Review, error)
}

type reviewService struct {
	reviewRepo      repository.ReviewRepository
	reservationRepo repository.ReservationRepository
	orderRepo       repository.OrderRepository
	userRepo        repository.UserRepository
	now             func() time.Time
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	reservationRepo repository.ReservationRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:      reviewRepo,
		reservationRepo: reservationRepo,
		orderRepo:       orderRepo,
		userRepo:        userRepo,
		now:             time.Now,
	}
}

// Create validates the rating and any referenced reservation/order before
// persisting. A referenced resource must exist and belong to the caller.
func (s *reviewService) Create(ctx context.Context, actor domain.Actor, reservationID, orderID *uuid.UUID, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if reservationID != nil {
		reservation, err := s.reservationRepo.FindByID(ctx, *reservationID)
		if err != nil {
			return nil, err
		}
		if reservation.UserID != actor.ID {
			return nil, repository.ErrReservationNotFound
		}
	}

	if orderID != nil {
		order, err := s.orderRepo.FindByID(ctx, *orderID)
		if err != nil {
			return nil, err
		}
		if order.UserID != actor.ID {
			return nil, repository.ErrOrderNotFound
		}
	}

	review := &domain.Review{
		ID:            uuid.New(),
		UserID:        actor.ID,
		ReservationID: reservationID,
		OrderID:       orderID,
		Rating:        rating,
		Comment:       comment,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if user, err := s.userRepo.FindByID(ctx, actor.ID); err == nil {
		review.UserName = user.Name
	}

	return review, nil
}

// Get retrieves a single review, public
func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	return s.reviewRepo.FindByID(ctx, id)
}

// List retrieves reviews newest first, public
func (s *reviewService) List(ctx context.Context, offset, limit int) ([]*domain.Review, error) {
	return s.reviewRepo.List(ctx, offset, limit)
}
