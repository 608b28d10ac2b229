package postgres

import (
	"context"
	"dynamicPricing/domain"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type InventoryRepository struct {
	DB *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{
		DB: db,
	}
}

func (r *InventoryRepository) Create(ctx context.Context, snapshot *domain.InventorySnapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to create inventory snapshot: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return nil
}

// Latest returns the most recent snapshot for a product.
func (r *InventoryRepository) Latest(ctx context.Context, productID string) (domain.InventorySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.InventorySnapshot{}, fmt.Errorf("context error: %w", err)
	}

	var snapshot domain.InventorySnapshot

	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("last_updated DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.InventorySnapshot{}, fmt.Errorf("inventory for product %s: %w", productID, domain.ErrNotFound)
		}
		return domain.InventorySnapshot{}, fmt.Errorf("failed to find inventory snapshot: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return snapshot, nil
}
