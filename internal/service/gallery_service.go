package service

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/domain"
	"studio-booking/internal/repository"

	"github.com/google/uuid"
)

// GalleryService manages the public image gallery. Plain CRUD with soft delete.
type GalleryService interface {
	Create(ctx context.Context, imageURL, caption string) (*domain.GalleryItem, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.GalleryItem, error)
	List(ctx context.Context, offset, limit int) ([]*domain.GalleryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type galleryService struct {
	galleryRepo repository.GalleryRepository
	now         func() time.Time
}

// NewGalleryService creates a new instance of GalleryService
func NewGalleryService(galleryRepo repository.GalleryRepository) GalleryService {
	return &galleryService{
		galleryRepo: galleryRepo,
		now:         time.Now,
	}
}

func (s *galleryService) Create(ctx context.Context, imageURL, caption string) (*domain.GalleryItem, error) {
	item := &domain.GalleryItem{
		ID:        uuid.New(),
		ImageURL:  imageURL,
		Caption:   caption,
		IsActive:  true,
		CreatedAt: s.now().UTC(),
	}

	if err := s.galleryRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create gallery item: %w", err)
	}

	return item, nil
}

func (s *galleryService) Get(ctx context.Context, id uuid.UUID) (*domain.GalleryItem, error) {
	return s.galleryRepo.FindByID(ctx, id)
}

func (s *galleryService) List(ctx context.Context, offset, limit int) ([]*domain.GalleryItem, error) {
	return s.galleryRepo.ListActive(ctx, offset, limit)
}

func (s *galleryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.galleryRepo.Deactivate(ctx, id)
}
