package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio-booking/internal/config"
	"studio-booking/internal/domain"
	"studio-booking/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrSlotInPast       = errors.New("reservation time must be in the future")
	ErrSlotNotAligned   = errors.New("reservation time must fall on a slot boundary")
	ErrSlotOutsideHours = errors.New("reservation time is outside operating hours")
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
)

// CalendarEntry is one booked slot in the monthly summary.
type CalendarEntry struct {
	ID     uuid.UUID                `json:"id"`
	Time   string                   `json:"time"`
	Status domain.ReservationStatus `json:"status"`
}

// CalendarSummary maps YYYY-MM-DD date keys to that day's booked slots sorted
// by time ascending. Days without bookings are absent, meaning fully open.
type CalendarSummary struct {
	Year         int                        `json:"year"`
	Month        int                        `json:"month"`
	Reservations map[string][]CalendarEntry `json:"reservations"`
}

// ReservationService is the booking engine: it validates and creates or
// cancels reservations and derives the monthly occupancy summary.
type ReservationService interface {
	Create(ctx context.Context, actor domain.Actor, reservedAt time.Time, memo string) (*domain.Reservation, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Reservation, error)
	List(ctx context.Context, actor domain.Actor) ([]*domain.Reservation, error)
	ListAll(ctx context.Context, offset, limit int) ([]*domain.Reservation, error)
	Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	CalendarSummary(ctx context.Context, year, month int) (*CalendarSummary, error)
}

type reservationService struct {
	reservationRepo repository.ReservationRepository
	booking         config.BookingConfig
	now             func() time.Time
}

// NewReservationService creates a new instance of ReservationService
func NewReservationService(reservationRepo repository.ReservationRepository, booking config.BookingConfig) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		booking:         booking,
		now:             time.Now,
	}
}

// Create validates the requested slot and persists a BOOKED reservation.
// The final defence against concurrent double-booking is the unique index in
// the store; a losing insert surfaces as repository.ErrSlotTaken.
func (s *reservationService) Create(ctx context.Context, actor domain.Actor, reservedAt time.Time, memo string) (*domain.Reservation, error) {
	// Normalize before validating so the window check and the stored value
	// agree on the instant regardless of the offset the client spelled it in.
	reservedAt = reservedAt.UTC()

	if err := s.validateSlot(reservedAt); err != nil {
		return nil, err
	}

	reservation := &domain.Reservation{
		ID:         uuid.New(),
		UserID:     actor.ID,
		ReservedAt: reservedAt,
		Status:     domain.ReservationBooked,
		Memo:       memo,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	return reservation, nil
}

// Get retrieves a single reservation, owner or admin only
func (s *reservationService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := requireOwnerOrAdmin(actor, reservation.UserID); err != nil {
		return nil, err
	}

	return reservation, nil
}

// List retrieves the caller's reservations ascending by reserved time
func (s *reservationService) List(ctx context.Context, actor domain.Actor) ([]*domain.Reservation, error) {
	return s.reservationRepo.ListByUser(ctx, actor.ID)
}

// ListAll retrieves reservations across all users, for the admin back-office
func (s *reservationService) ListAll(ctx context.Context, offset, limit int) ([]*domain.Reservation, error) {
	return s.reservationRepo.ListAll(ctx, offset, limit)
}

// Cancel transitions a BOOKED reservation to CANCELLED. Only the owner or an
// admin may cancel, and CANCELLED/COMPLETED reservations are never mutated.
func (s *reservationService) Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := requireOwnerOrAdmin(actor, reservation.UserID); err != nil {
		return err
	}

	if !reservation.CanCancel() {
		return ErrInvalidState
	}

	return s.reservationRepo.UpdateStatus(ctx, id, domain.ReservationCancelled)
}

// CalendarSummary groups the month's BOOKED reservations by date. The store
// returns them sorted by reserved time, so each day's entries stay ordered.
func (s *reservationService) CalendarSummary(ctx context.Context, year, month int) (*CalendarSummary, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	booked, err := s.reservationRepo.ListBookedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar month: %w", err)
	}

	summary := &CalendarSummary{
		Year:         year,
		Month:        month,
		Reservations: make(map[string][]CalendarEntry),
	}

	for _, r := range booked {
		at := r.ReservedAt.UTC()
		key := at.Format("2006-01-02")
		summary.Reservations[key] = append(summary.Reservations[key], CalendarEntry{
			ID:     r.ID,
			Time:   at.Format("15:04"),
			Status: r.Status,
		})
	}

	return summary, nil
}

// validateSlot enforces the slot grammar on a UTC instant: strictly future,
// minute-aligned to the slot width, inside the daily operating window.
func (s *reservationService) validateSlot(reservedAt time.Time) error {
	if !reservedAt.After(s.now()) {
		return ErrSlotInPast
	}

	slot := s.booking.SlotMinutes
	if slot <= 0 {
		slot = 30
	}
	if reservedAt.Second() != 0 || reservedAt.Nanosecond() != 0 || reservedAt.Minute()%slot != 0 {
		return ErrSlotNotAligned
	}

	hour := reservedAt.Hour()
	if hour < s.booking.OpenHour || hour >= s.booking.CloseHour {
		return ErrSlotOutsideHours
	}

	return nil
}
