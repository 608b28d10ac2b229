package postgres

import (
	"context"
	"dynamicPricing/domain"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DecisionRepository persists the audit trail: agent decisions and price
// changes. Audit rows are append-only.
type DecisionRepository struct {
	DB *gorm.DB
}

func NewDecisionRepository(db *gorm.DB) *DecisionRepository {
	return &DecisionRepository{
		DB: db,
	}
}

func (r *DecisionRepository) CreateDecision(ctx context.Context, decision *domain.AgentDecision) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(decision).Error; err != nil {
		return fmt.Errorf("failed to create agent decision: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return nil
}

func (r *DecisionRepository) CreatePriceChange(ctx context.Context, change *domain.PriceChange) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(change).Error; err != nil {
		return fmt.Errorf("failed to create price change: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return nil
}

func (r *DecisionRepository) ListDecisions(ctx context.Context, productID string, limit int) ([]domain.AgentDecision, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var decisions []domain.AgentDecision

	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&decisions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list agent decisions: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return decisions, nil
}

// ListPriceChangesSince returns a product's price changes from the cutoff
// onward, oldest first. Elasticity pairing depends on the ordering.
func (r *DecisionRepository) ListPriceChangesSince(ctx context.Context, productID string, since time.Time) ([]domain.PriceChange, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var changes []domain.PriceChange

	err := r.DB.WithContext(ctx).
		Where("product_id = ? AND created_at >= ?", productID, since).
		Order("created_at ASC").
		Find(&changes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list price changes: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return changes, nil
}
