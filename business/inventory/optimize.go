package inventory

import (
	"context"
	"fmt"
	"time"
)

// RecommendationBuckets splits actions by how soon they should happen.
type RecommendationBuckets struct {
	Immediate []string `json:"immediate_actions"`
	ShortTerm []string `json:"short_term_actions"`
	LongTerm  []string `json:"long_term_actions"`
}

type OptimizationMetrics struct {
	CurrentStock  int      `json:"current_stock"`
	ReorderPoint  int      `json:"reorder_point"`
	StockTurnover float64  `json:"stock_turnover"`
	DaysRemaining *float64 `json:"days_remaining,omitempty"`
}

type OptimizationResult struct {
	ProductID       string                `json:"product_id"`
	Timestamp       time.Time             `json:"timestamp"`
	CurrentStatus   string                `json:"current_status"`
	Recommendations RecommendationBuckets `json:"recommendations"`
	Metrics         OptimizationMetrics   `json:"metrics"`
}

// OptimizeLevels folds health, reorder, and forecast insights into bucketed
// actions. Health is required; the other two degrade gracefully when their
// data is missing.
func (s *InventoryService) OptimizeLevels(ctx context.Context, productID string) (OptimizationResult, error) {
	if err := ctx.Err(); err != nil {
		return OptimizationResult{}, fmt.Errorf("context error: %w", err)
	}

	health, err := s.AnalyzeHealth(ctx, productID)
	if err != nil {
		return OptimizationResult{}, err
	}
	reorder, reorderErr := s.CalculateReorderPoint(ctx, productID)
	forecast, forecastErr := s.ForecastNeeds(ctx, productID, 30)

	return buildOptimization(health, reorder, reorderErr, forecast, forecastErr), nil
}

func buildOptimization(
	health HealthResult,
	reorder ReorderResult, reorderErr error,
	forecast NeedsForecast, forecastErr error,
) OptimizationResult {
	result := OptimizationResult{
		ProductID:     health.ProductID,
		Timestamp:     time.Now(),
		CurrentStatus: health.Status,
		Recommendations: RecommendationBuckets{
			Immediate: []string{},
			ShortTerm: []string{},
			LongTerm:  []string{},
		},
		Metrics: OptimizationMetrics{
			CurrentStock:  health.CurrentStock,
			ReorderPoint:  health.ReorderPoint,
			StockTurnover: health.StockTurnover,
			DaysRemaining: health.DaysRemaining,
		},
	}

	if health.Urgency == "critical" {
		result.Recommendations.Immediate = append(result.Recommendations.Immediate,
			"Emergency restock required")
	}
	if health.Urgency == "high" {
		result.Recommendations.Immediate = append(result.Recommendations.Immediate,
			"Place reorder immediately")
	}

	if reorderErr == nil && reorder.Recommendation == "update" {
		result.Recommendations.ShortTerm = append(result.Recommendations.ShortTerm,
			fmt.Sprintf("Update reorder point to %d", reorder.CalculatedReorderPoint))
	}

	if health.StockTurnover < 0.5 {
		result.Recommendations.LongTerm = append(result.Recommendations.LongTerm,
			"Consider reducing inventory levels - low turnover")
	} else if health.StockTurnover > 2.0 {
		result.Recommendations.LongTerm = append(result.Recommendations.LongTerm,
			"Consider increasing inventory levels - high turnover")
	}

	if forecastErr == nil && forecast.StockoutDay != nil && *forecast.StockoutDay <= 7 {
		result.Recommendations.Immediate = append(result.Recommendations.Immediate,
			fmt.Sprintf("Stockout predicted in %d days", *forecast.StockoutDay))
	}

	return result
}
