package transport

import (
	"errors"
	"net/http"
	"time"

	"studio-booking/internal/domain"
	"studio-booking/internal/middleware"
	"studio-booking/internal/repository"
	"studio-booking/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateReviewRequest represents the review creation payload
type CreateReviewRequest struct {
	ReservationID *string `json:"reservation_id" validate:"omitempty,uuid"`
	OrderID       *string `json:"order_id" validate:"omitempty,uuid"`
	Rating        int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment       string  `json:"comment" validate:"omitempty,max=1000"`
}

// ReviewResponse represents a review on the wire
type ReviewResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name,omitempty"`
	ReservationID *string `json:"reservation_id,omitempty"`
	OrderID       *string `json:"order_id,omitempty"`
	Rating        int     `json:"rating"`
	Comment       string  `json:"comment,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// ReviewHandler handles HTTP requests for reviews
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes registers all review routes. Listing is public, writing
// requires authentication.
func (h *ReviewHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
		})
	})
}

// Create handles review creation
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Review validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var reservationID, orderID *uuid.UUID
	if req.ReservationID != nil {
		id, err := uuid.Parse(*req.ReservationID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid reservation ID")
			return
		}
		reservationID = &id
	}
	if req.OrderID != nil {
		id, err := uuid.Parse(*req.OrderID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
			return
		}
		orderID = &id
	}

	review, err := h.reviewService.Create(r.Context(), actor, reservationID, orderID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrReservationNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "reservation not found")
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Review creation failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create review")
		}
		return
	}

	h.logger.Info("Review created", zap.String("review_id", review.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toReviewResponse(review))
}

// List handles the public review listing
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r, 50)

	reviews, err := h.reviewService.List(r.Context(), offset, limit)
	if err != nil {
		h.logger.Error("Failed to list reviews", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toReviewResponses(reviews))
}

// Get handles review detail lookup
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review ID")
		return
	}

	review, err := h.reviewService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "review not found")
			return
		}
		h.logger.Error("Failed to get review", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toReviewResponse(review))
}

func toReviewResponse(r *domain.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		UserName:  r.UserName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.ReservationID != nil {
		s := r.ReservationID.String()
		resp.ReservationID = &s
	}
	if r.OrderID != nil {
		s := r.OrderID.String()
		resp.OrderID = &s
	}
	return resp
}

func toReviewResponses(reviews []*domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResponse(r))
	}
	return out
}
