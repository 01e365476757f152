package service

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/domain"
	"studio-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService manages the shop catalog. Listing is public; mutation is
// admin-only and enforced at the route level.
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Create(ctx context.Context, name, description string, price decimal.Decimal) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, name, description string, price decimal.Decimal) (*domain.Product, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{
		productRepo: productRepo,
		now:         time.Now,
	}
}

// List returns the active catalog newest first
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.ListActive(ctx)
}

// Create adds a new active product
func (s *productService) Create(ctx context.Context, name, description string, price decimal.Decimal) (*domain.Product, error) {
	now := s.now().UTC()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Price:       price.Round(2),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update replaces a product's name, description and price. Existing order
// items are unaffected because they carry their own unit price snapshot.
func (s *productService) Update(ctx context.Context, id uuid.UUID, name, description string, price decimal.Decimal) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = name
	product.Description = description
	product.Price = price.Round(2)
	product.UpdatedAt = s.now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Deactivate soft-deletes a product
func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Deactivate(ctx, id)
}
