package postgres

import (
	"context"
	"dynamicPricing/domain"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return product, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product

	err := r.DB.WithContext(ctx).Order("id ASC").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return products, nil
}

// UpdatePrice is the only writer of current_price. Decisions go through here.
func (r *ProductRepository) UpdatePrice(ctx context.Context, id string, newPrice float64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"current_price": newPrice,
		"last_updated":  time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update price: %w: %w", domain.ErrUpstreamUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateStockLevel syncs the product row to the latest inventory snapshot.
func (r *ProductRepository) UpdateStockLevel(ctx context.Context, id string, stockLevel int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"stock_level":  stockLevel,
		"last_updated": time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update stock level: %w: %w", domain.ErrUpstreamUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *ProductRepository) UpdateReorderPoint(ctx context.Context, id string, reorderPoint int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reorder_point": reorderPoint,
		"last_updated":  time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update reorder point: %w: %w", domain.ErrUpstreamUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
