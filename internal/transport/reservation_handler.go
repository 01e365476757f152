package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"studio-booking/internal/domain"
	"studio-booking/internal/middleware"
	"studio-booking/internal/repository"
	"studio-booking/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateReservationRequest represents the reservation creation payload
type CreateReservationRequest struct {
	ReservedAt string `json:"reserved_at" validate:"required"`
	Memo       string `json:"memo" validate:"omitempty,max=500"`
}

// ReservationResponse represents a reservation on the wire
type ReservationResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	ReservedAt string `json:"reserved_at"`
	Status     string `json:"status"`
	Memo       string `json:"memo,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// ReservationHandler handles HTTP requests for reservations
type ReservationHandler struct {
	reservationService service.ReservationService
	logger             *zap.Logger
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservationService service.ReservationService, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		logger:             logger,
	}
}

// RegisterRoutes registers all reservation routes
func (h *ReservationHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/reservations", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/calendar", h.Calendar)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Cancel)
	})
}

// Create handles reservation creation
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateReservationRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Reservation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reservedAt, err := time.Parse(time.RFC3339, req.ReservedAt)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "reserved_at must be an ISO8601 timestamp")
		return
	}

	reservation, err := h.reservationService.Create(r.Context(), actor, reservedAt, req.Memo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlotInPast),
			errors.Is(err, service.ErrSlotNotAligned),
			errors.Is(err, service.ErrSlotOutsideHours):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrSlotTaken):
			middleware.RespondWithError(w, http.StatusConflict, "this time slot is already booked")
		default:
			h.logger.Error("Reservation creation failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create reservation")
		}
		return
	}

	h.logger.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("user_id", actor.ID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, toReservationResponse(reservation))
}

// List handles listing the caller's reservations
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reservations, err := h.reservationService.List(r.Context(), actor)
	if err != nil {
		h.logger.Error("Failed to list reservations", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toReservationResponses(reservations))
}

// Calendar handles the monthly occupancy summary
func (h *ReservationHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "year must be an integer")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "month must be an integer")
		return
	}

	summary, err := h.reservationService.CalendarSummary(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to build calendar summary", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build calendar summary")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

// Get handles reservation detail lookup
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid reservation ID")
		return
	}

	reservation, err := h.reservationService.Get(r.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "reservation not found")
		case errors.Is(err, service.ErrForbidden):
			middleware.RespondWithError(w, http.StatusForbidden, "not your reservation")
		default:
			h.logger.Error("Failed to get reservation", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get reservation")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toReservationResponse(reservation))
}

// Cancel handles reservation cancellation (soft, status transition only)
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid reservation ID")
		return
	}

	if err := h.reservationService.Cancel(r.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "reservation not found")
		case errors.Is(err, service.ErrForbidden):
			middleware.RespondWithError(w, http.StatusForbidden, "not your reservation")
		case errors.Is(err, service.ErrInvalidState):
			middleware.RespondWithError(w, http.StatusConflict, "reservation is no longer cancellable")
		default:
			h.logger.Error("Reservation cancellation failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to cancel reservation")
		}
		return
	}

	h.logger.Info("Reservation cancelled", zap.String("reservation_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "reservation cancelled"})
}

func toReservationResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:         r.ID.String(),
		UserID:     r.UserID.String(),
		ReservedAt: r.ReservedAt.UTC().Format(time.RFC3339),
		Status:     string(r.Status),
		Memo:       r.Memo,
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toReservationResponses(reservations []*domain.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, toReservationResponse(r))
	}
	return out
}
