package postgres

import (
	"context"
	"dynamicPricing/domain"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type CompetitorRepository struct {
	DB *gorm.DB
}

func NewCompetitorRepository(db *gorm.DB) *CompetitorRepository {
	return &CompetitorRepository{
		DB: db,
	}
}

func (r *CompetitorRepository) Create(ctx context.Context, obs *domain.CompetitorObservation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(obs).Error; err != nil {
		return fmt.Errorf("failed to create competitor observation: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return nil
}

// ListSince returns a product's competitor observations from the cutoff
// onward, oldest first.
func (r *CompetitorRepository) ListSince(ctx context.Context, productID string, since time.Time) ([]domain.CompetitorObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var observations []domain.CompetitorObservation

	err := r.DB.WithContext(ctx).
		Where("product_id = ? AND scraped_at >= ?", productID, since).
		Order("scraped_at ASC").
		Find(&observations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list competitor observations: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return observations, nil
}

// FindAllByProduct returns every observation on record for a product. The
// manual decision path uses it when no correlated signal is available.
func (r *CompetitorRepository) FindAllByProduct(ctx context.Context, productID string) ([]domain.CompetitorObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var observations []domain.CompetitorObservation

	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("scraped_at ASC").
		Find(&observations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list competitor observations: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return observations, nil
}
