package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studio-booking/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrGalleryItemNotFound = errors.New("gallery item not found")
)

// GalleryRepository defines the interface for gallery item data access
type GalleryRepository interface {
	Create(ctx context.Context, item *domain.GalleryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.GalleryItem, error)
	ListActive(ctx context.Context, offset, limit int) ([]*domain.GalleryItem, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type galleryRepository struct {
	db *sql.DB
}

// NewGalleryRepository creates a new instance of GalleryRepository
func NewGalleryRepository(db *sql.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

// Create inserts a new gallery item
func (r *galleryRepository) Create(ctx context.Context, item *domain.GalleryItem) error {
	query := `
		INSERT INTO gallery_items (id, image_url, caption, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.ImageURL,
		item.Caption,
		item.IsActive,
		item.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create gallery item: %w", err)
	}

	return nil
}

// FindByID retrieves an active gallery item by ID
func (r *galleryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.GalleryItem, error) {
	query := `
		SELECT id, image_url, caption, is_active, created_at
		FROM gallery_items
		WHERE id = $1 AND is_active = TRUE
	`

	item := &domain.GalleryItem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.ImageURL,
		&item.Caption,
		&item.IsActive,
		&item.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrGalleryItemNotFound
		}
		return nil, fmt.Errorf("failed to find gallery item by ID: %w", err)
	}

	return item, nil
}

// ListActive retrieves active gallery items newest first with pagination
func (r *galleryRepository) ListActive(ctx context.Context, offset, limit int) ([]*domain.GalleryItem, error) {
	query := `
		SELECT id, image_url, caption, is_active, created_at
		FROM gallery_items
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery items: %w", err)
	}
	defer rows.Close()

	items := []*domain.GalleryItem{}
	for rows.Next() {
		item := &domain.GalleryItem{}
		err := rows.Scan(
			&item.ID,
			&item.ImageURL,
			&item.Caption,
			&item.IsActive,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gallery item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gallery items: %w", err)
	}

	return items, nil
}

// Deactivate soft-deletes a gallery item
func (r *galleryRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE gallery_items SET is_active = FALSE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate gallery item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrGalleryItemNotFound
	}

	return nil
}
