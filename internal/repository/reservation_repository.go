package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studio-booking/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSlotTaken           = errors.New("reservation slot is already booked")
)

// ReservationRepository defines the interface for reservation data access.
// Create relies on the partial unique index on reserved_at so that two
// concurrent bookings of the same slot cannot both succeed.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Reservation, error)
	ListBookedBetween(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error)
	ListAll(ctx context.Context, offset, limit int) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status domain.ReservationStatus) (int, error)
}

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new instance of ReservationRepository
func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// Create inserts a new reservation. The check-then-insert race is resolved by
// the uq_reservations_booked_slot index; a losing insert returns ErrSlotTaken.
func (r *reservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (id, user_id, reserved_at, status, memo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		reservation.ID,
		reservation.UserID,
		reservation.ReservedAt,
		reservation.Status,
		reservation.Memo,
		reservation.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	return nil
}

// FindByID retrieves a reservation by ID
func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `
		SELECT id, user_id, reserved_at, status, memo, created_at
		FROM reservations
		WHERE id = $1
	`

	reservation := &domain.Reservation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.ReservedAt,
		&reservation.Status,
		&reservation.Memo,
		&reservation.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to find reservation by ID: %w", err)
	}

	return reservation, nil
}

// ListByUser retrieves a user's reservations ordered by reserved time ascending
func (r *reservationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Reservation, error) {
	query := `
		SELECT id, user_id, reserved_at, status, memo, created_at
		FROM reservations
		WHERE user_id = $1
		ORDER BY reserved_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListBookedBetween retrieves BOOKED reservations in [from, to) ordered by
// reserved time ascending. Used to build the monthly calendar summary.
func (r *reservationRepository) ListBookedBetween(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error) {
	query := `
		SELECT id, user_id, reserved_at, status, memo, created_at
		FROM reservations
		WHERE status = $1 AND reserved_at >= $2 AND reserved_at < $3
		ORDER BY reserved_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, domain.ReservationBooked, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListAll retrieves reservations newest first with pagination, for the admin back-office
func (r *reservationRepository) ListAll(ctx context.Context, offset, limit int) ([]*domain.Reservation, error) {
	query := `
		SELECT id, user_id, reserved_at, status, memo, created_at
		FROM reservations
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list all reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// UpdateStatus sets the status of an existing reservation
func (r *reservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) error {
	query := `UPDATE reservations SET status = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// Count returns the total number of reservations
func (r *reservationRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return total, nil
}

// CountByStatus returns the number of reservations in the given status
func (r *reservationRepository) CountByStatus(ctx context.Context, status domain.ReservationStatus) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM reservations WHERE status = $1`
	if err := r.db.QueryRowContext(ctx, query, status).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count reservations by status: %w", err)
	}
	return total, nil
}

func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := []*domain.Reservation{}
	for rows.Next() {
		reservation := &domain.Reservation{}
		err := rows.Scan(
			&reservation.ID,
			&reservation.UserID,
			&reservation.ReservedAt,
			&reservation.Status,
			&reservation.Memo,
			&reservation.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservations: %w", err)
	}

	return reservations, nil
}
