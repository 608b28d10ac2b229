package postgres

import (
	"context"
	"dynamicPricing/domain"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type SalesRepository struct {
	DB *gorm.DB
}

func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{
		DB: db,
	}
}

func (r *SalesRepository) Create(ctx context.Context, sale *domain.SaleEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(sale).Error; err != nil {
		return fmt.Errorf("failed to create sale event: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return nil
}

// ListSince returns a product's sale events from the cutoff onward, oldest
// first. An empty window is not an error.
func (r *SalesRepository) ListSince(ctx context.Context, productID string, since time.Time) ([]domain.SaleEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var sales []domain.SaleEvent

	err := r.DB.WithContext(ctx).
		Where("product_id = ? AND sale_date >= ?", productID, since).
		Order("sale_date ASC").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sale events: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return sales, nil
}
