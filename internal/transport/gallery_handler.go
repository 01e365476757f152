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

// CreateGalleryItemRequest represents the gallery upload payload
type CreateGalleryItemRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
	Caption  string `json:"caption" validate:"omitempty,max=500"`
}

// GalleryItemResponse represents a gallery item on the wire
type GalleryItemResponse struct {
	ID        string `json:"id"`
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption,omitempty"`
	CreatedAt string `json:"created_at"`
}

// GalleryHandler handles HTTP requests for the image gallery
type GalleryHandler struct {
	galleryService service.GalleryService
	logger         *zap.Logger
}

// NewGalleryHandler creates a new GalleryHandler
func NewGalleryHandler(galleryService service.GalleryService, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		logger:         logger,
	}
}

// RegisterRoutes registers all gallery routes. Browsing is public, managing
// items is admin only.
func (h *GalleryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/gallery", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin(h.logger))
			r.Post("/", h.Create)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// Create handles gallery item creation (admin only)
func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGalleryItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Gallery item validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.galleryService.Create(r.Context(), req.ImageURL, req.Caption)
	if err != nil {
		h.logger.Error("Gallery item creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create gallery item")
		return
	}

	h.logger.Info("Gallery item created", zap.String("item_id", item.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toGalleryItemResponse(item))
}

// List handles the public gallery listing
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r, 50)

	items, err := h.galleryService.List(r.Context(), offset, limit)
	if err != nil {
		h.logger.Error("Failed to list gallery items", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list gallery items")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toGalleryItemResponses(items))
}

// Get handles gallery item lookup
func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid gallery item ID")
		return
	}

	item, err := h.galleryService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrGalleryItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "gallery item not found")
			return
		}
		h.logger.Error("Failed to get gallery item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get gallery item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toGalleryItemResponse(item))
}

// Delete handles gallery item removal (admin only, soft delete)
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid gallery item ID")
		return
	}

	if err := h.galleryService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrGalleryItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "gallery item not found")
			return
		}
		h.logger.Error("Failed to delete gallery item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete gallery item")
		return
	}

	h.logger.Info("Gallery item deleted", zap.String("item_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "gallery item deleted"})
}

func toGalleryItemResponse(item *domain.GalleryItem) GalleryItemResponse {
	return GalleryItemResponse{
		ID:        item.ID.String(),
		ImageURL:  item.ImageURL,
		Caption:   item.Caption,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toGalleryItemResponses(items []*domain.GalleryItem) []GalleryItemResponse {
	out := make([]GalleryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toGalleryItemResponse(item))
	}
	return out
}
