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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents the product create/update payload
type ProductRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Price       string `json:"price" validate:"required"`
}

// AdminUserResponse represents a user row in the back-office listing
type AdminUserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// AdminHandler handles the back-office HTTP surface
type AdminHandler struct {
	adminService       service.AdminService
	reservationService service.ReservationService
	orderService       service.OrderService
	productService     service.ProductService
	logger             *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	adminService service.AdminService,
	reservationService service.ReservationService,
	orderService service.OrderService,
	productService service.ProductService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		adminService:       adminService,
		reservationService: reservationService,
		orderService:       orderService,
		productService:     productService,
		logger:             logger,
	}
}

// RegisterRoutes registers all admin routes behind auth plus the admin role check
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin(h.logger))

		r.Get("/dashboard", h.Dashboard)
		r.Get("/reservations", h.ListReservations)
		r.Get("/orders", h.ListOrders)
		r.Get("/users", h.ListUsers)

		r.Post("/products", h.CreateProduct)
		r.Patch("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
	})
}

// Dashboard handles the back-office statistics overview
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("Failed to load dashboard stats", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

// ListReservations handles the back-office reservation listing
func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r, 50)

	reservations, err := h.reservationService.ListAll(r.Context(), offset, limit)
	if err != nil {
		h.logger.Error("Failed to list reservations", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toReservationResponses(reservations))
}

// ListOrders handles the back-office order listing
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r, 50)

	orders, err := h.orderService.ListAll(r.Context(), offset, limit)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toOrderResponses(orders))
}

// ListUsers handles the back-office user listing
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r, 50)

	users, err := h.adminService.ListUsers(r.Context(), offset, limit)
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toAdminUserResponses(users))
}

// CreateProduct handles product creation
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, price, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product, err := h.productService.Create(r.Context(), req.Name, req.Description, price)
	if err != nil {
		h.logger.Error("Product creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toProductResponse(product))
}

// UpdateProduct handles product updates
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	req, price, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product, err := h.productService.Update(r.Context(), id, req.Name, req.Description, price)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Product update failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

// DeleteProduct handles product soft deletion
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.productService.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Product deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "product deleted"})
}

// decodeProduct validates the shared product payload and parses the price.
func (h *AdminHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (ProductRequest, decimal.Decimal, bool) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return req, decimal.Decimal{}, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return req, decimal.Decimal{}, false
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid price")
		return req, decimal.Decimal{}, false
	}

	return req, price, true
}

func toAdminUserResponses(users []*domain.User) []AdminUserResponse {
	out := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, AdminUserResponse{
			ID:        u.ID.String(),
			Email:     u.Email,
			Name:      u.Name,
			Phone:     u.Phone,
			Role:      u.Role,
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
