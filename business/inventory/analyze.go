package inventory

import (
	"context"
	"dynamicPricing/domain"
	"dynamicPricing/pkg/logger"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type OverallAssessment struct {
	InventoryStatus string   `json:"inventory_status"`
	UrgencyLevel    string   `json:"urgency_level"`
	Confidence      float64  `json:"confidence"`
	Recommendations []string `json:"recommendations"`
}

// AnalysisResult is the full inventory picture for one product. It becomes
// the inventory_update signal payload and the audit row's output.
type AnalysisResult struct {
	ProductID         string             `json:"product_id"`
	Timestamp         time.Time          `json:"timestamp"`
	Health            HealthResult       `json:"inventory_health"`
	Reorder           ReorderResult      `json:"reorder_analysis"`
	Forecast          NeedsForecast      `json:"inventory_forecast"`
	Optimization      OptimizationResult `json:"inventory_optimization"`
	Velocity          VelocityResult     `json:"sales_velocity"`
	ReasoningChain    []string           `json:"reasoning_chain"`
	Reflection        string             `json:"reflection"`
	OverallAssessment OverallAssessment  `json:"overall_inventory_assessment"`
}

// Analyze runs the complete inventory workflow for a product: health grade,
// reorder point, 30-day depletion forecast, optimization buckets, and sales
// velocity, with a reasoning chain and a recorded audit row. Reorder and
// forecast sections short on history degrade the analysis, they do not fail
// it. The product's stored stock level is synced to the latest snapshot as
// a side effect; no other product field is touched here.
func (s *InventoryService) Analyze(ctx context.Context, productID string) (AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, fmt.Errorf("context error: %w", err)
	}

	logger.Info("Starting inventory analysis", "agent", domain.AgentInventory, "product_id", productID)

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("product %s: %w", productID, err)
	}

	health, err := s.AnalyzeHealth(ctx, productID)
	if err != nil {
		return AnalysisResult{}, err
	}

	reorder, reorderErr := s.CalculateReorderPoint(ctx, productID)
	if reorderErr != nil {
		logger.Warn("Reorder point calculation degraded", "product_id", productID, "error", reorderErr)
	}
	forecast, forecastErr := s.ForecastNeeds(ctx, productID, 30)
	if forecastErr != nil {
		logger.Warn("Inventory forecast degraded", "product_id", productID, "error", forecastErr)
	}
	optimization := buildOptimization(health, reorder, reorderErr, forecast, forecastErr)
	velocity, err := s.SalesVelocity(ctx, productID, 7)
	if err != nil {
		return AnalysisResult{}, err
	}

	chain := []string{"Step 1: Analyzing current inventory health"}
	chain = append(chain, fmt.Sprintf("Inventory status: %s", health.Status))
	switch health.Status {
	case "out_of_stock":
		chain = append(chain, "Critical: Product is out of stock")
	case "low_stock":
		chain = append(chain, "Warning: Inventory levels are low")
	case "healthy":
		chain = append(chain, "Inventory levels are healthy")
	}

	chain = append(chain, "Step 2: Calculating reorder point")
	if reorderErr == nil {
		chain = append(chain, fmt.Sprintf("Current reorder point: %d, Calculated: %d",
			reorder.CurrentReorderPoint, reorder.CalculatedReorderPoint))
		if reorder.Recommendation == "update" {
			chain = append(chain, "Recommendation: Update reorder point based on sales velocity")
		}
	}

	chain = append(chain, "Step 3: Forecasting inventory needs")
	if forecastErr == nil {
		if forecast.StockoutDay != nil {
			chain = append(chain, fmt.Sprintf("Projected stockout in %d days", *forecast.StockoutDay))
		} else {
			chain = append(chain, "No stockout projected in forecast period")
		}
	}

	chain = append(chain, "Step 4: Analyzing sales velocity")
	chain = append(chain, fmt.Sprintf("Sales velocity: %s units/day",
		strconv.FormatFloat(velocity.SalesVelocity, 'f', -1, 64)))

	reflection := inventoryReflection(health, reorder, reorderErr, forecast, forecastErr, velocity)

	result := AnalysisResult{
		ProductID:         productID,
		Timestamp:         time.Now(),
		Health:            health,
		Reorder:           reorder,
		Forecast:          forecast,
		Optimization:      optimization,
		Velocity:          velocity,
		ReasoningChain:    chain,
		Reflection:        reflection,
		OverallAssessment: overallAssessment(health, reorder, reorderErr, forecast, forecastErr),
	}

	decision := domain.AgentDecision{
		ProductID:       productID,
		AgentName:       domain.AgentInventory,
		DecisionType:    "inventory_analysis",
		InputData:       domain.ToJSONMap(map[string]string{"product_id": productID}),
		OutputData:      domain.ToJSONMap(result),
		ConfidenceScore: 0.9,
		Explanation:     "Comprehensive inventory analysis completed using multiple analytical tools",
		Reflection:      reflection,
		ReasoningChain:  chain,
		Timestamp:       time.Now(),
	}
	if err := s.decisionRepo.CreateDecision(ctx, &decision); err != nil {
		logger.Warn("Failed to record inventory analysis decision", "product_id", productID, "error", err)
	}

	// keep the product's stored stock in step with the latest snapshot
	if health.CurrentStock != product.StockLevel {
		if err := s.productRepo.UpdateStockLevel(ctx, productID, health.CurrentStock); err != nil {
			logger.Warn("Failed to sync product stock level", "product_id", productID, "error", err)
		} else {
			logger.Info("Updated stock level", "product_id", productID, "stock_level", health.CurrentStock)
		}
	}

	logger.Info("Completed inventory analysis", "agent", domain.AgentInventory, "product_id", productID, "status", health.Status)

	return result, nil
}

func inventoryReflection(
	health HealthResult,
	reorder ReorderResult, reorderErr error,
	forecast NeedsForecast, forecastErr error,
	velocity VelocityResult,
) string {
	var parts []string

	var missing []string
	if reorderErr != nil {
		missing = append(missing, "reorder point data")
	}
	if forecastErr != nil {
		missing = append(missing, "inventory forecast data")
	}
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("Analysis limited by missing: %s", strings.Join(missing, ", ")))
	} else {
		parts = append(parts, "Analysis benefited from comprehensive inventory data availability")
	}

	switch health.Status {
	case "out_of_stock":
		parts = append(parts, "Critical inventory situation detected - immediate action required")
	case "low_stock":
		parts = append(parts, "Low inventory levels detected - reorder planning needed")
	case "healthy":
		parts = append(parts, "Inventory levels are healthy and well-managed")
	}

	if reorderErr == nil && reorder.Recommendation == "update" {
		parts = append(parts, "Reorder point optimization recommended based on current sales patterns")
	}

	if forecastErr == nil && forecast.StockoutDay != nil {
		if *forecast.StockoutDay <= 7 {
			parts = append(parts, "Imminent stockout predicted - urgent reorder required")
		} else if *forecast.StockoutDay <= 14 {
			parts = append(parts, "Stockout predicted in near future - proactive reorder recommended")
		}
	}

	if velocity.SalesVelocity > 10 {
		parts = append(parts, "High sales velocity indicates need for frequent inventory monitoring")
	} else if velocity.SalesVelocity < 1 {
		parts = append(parts, "Low sales velocity suggests inventory may be overstocked")
	}

	parts = append(parts, "Recommendation: Continue monitoring inventory levels and adjust reorder strategies based on sales patterns.")

	return strings.Join(parts, " ")
}

func overallAssessment(
	health HealthResult,
	reorder ReorderResult, reorderErr error,
	forecast NeedsForecast, forecastErr error,
) OverallAssessment {
	assessment := OverallAssessment{
		InventoryStatus: health.Status,
		UrgencyLevel:    health.Urgency,
		Confidence:      0.7,
		Recommendations: []string{},
	}

	switch assessment.UrgencyLevel {
	case "critical":
		assessment.Recommendations = append(assessment.Recommendations,
			"Immediate restock required",
			"Consider expedited shipping",
		)
	case "high":
		assessment.Recommendations = append(assessment.Recommendations,
			"Place reorder immediately",
			"Monitor sales closely",
		)
	case "medium":
		assessment.Recommendations = append(assessment.Recommendations,
			"Prepare for reorder",
			"Monitor inventory levels",
		)
	default:
		assessment.Recommendations = append(assessment.Recommendations,
			"Continue monitoring",
			"Maintain current inventory levels",
		)
	}

	if reorderErr == nil && reorder.Recommendation == "update" {
		assessment.Recommendations = append(assessment.Recommendations,
			"Update reorder point based on sales velocity")
	}

	if forecastErr == nil && forecast.StockoutDay != nil {
		if *forecast.StockoutDay <= 7 {
			assessment.Recommendations = append(assessment.Recommendations,
				"Urgent reorder needed to prevent stockout")
		} else if *forecast.StockoutDay <= 14 {
			assessment.Recommendations = append(assessment.Recommendations,
				"Plan reorder to prevent future stockout")
		}
	}

	return assessment
}

// Signal converts an analysis into the bus payload consumed downstream.
func (r AnalysisResult) Signal() domain.InventorySignal {
	return domain.InventorySignal{
		ProductID:     r.ProductID,
		StockLevel:    r.Health.CurrentStock,
		ReorderPoint:  r.Health.ReorderPoint,
		Status:        r.Health.Status,
		Urgency:       r.Health.Urgency,
		DaysRemaining: r.Health.DaysRemaining,
	}
}
