package inventory

import (
	"context"
	"dynamicPricing/domain"
	"fmt"
	"math"
	"time"
)

// ReorderResult compares the stored reorder point against one derived from
// the trailing 30 days of sales.
type ReorderResult struct {
	ProductID              string  `json:"product_id"`
	CurrentStock           int     `json:"current_stock"`
	DailySalesRate         float64 `json:"daily_sales_rate"`
	LeadTimeDays           int     `json:"lead_time_days"`
	SafetyStockDays        int     `json:"safety_stock_days"`
	CalculatedReorderPoint int     `json:"calculated_reorder_point"`
	CurrentReorderPoint    int     `json:"current_reorder_point"`
	Recommendation         string  `json:"recommendation"`
	Confidence             float64 `json:"confidence"`
}

// CalculateReorderPoint sizes the reorder point to cover lead time plus
// safety stock at the 30-day sales rate, rounded up and floored at 5 units.
// A delta of more than 2 units from the stored point flags an update.
// Without sales history it falls back to a default point of 10 and reports
// the shortage through the error.
func (s *InventoryService) CalculateReorderPoint(ctx context.Context, productID string) (ReorderResult, error) {
	if err := ctx.Err(); err != nil {
		return ReorderResult{}, fmt.Errorf("context error: %w", err)
	}

	snapshot, err := s.inventoryRepo.Latest(ctx, productID)
	if err != nil {
		return ReorderResult{}, fmt.Errorf("inventory for product %s: %w", productID, err)
	}

	cutoff := time.Now().AddDate(0, 0, -30)
	sales, err := s.salesRepo.ListSince(ctx, productID, cutoff)
	if err != nil {
		return ReorderResult{}, err
	}

	if len(sales) == 0 {
		return ReorderResult{
				ProductID:              productID,
				CurrentStock:           snapshot.StockLevel,
				CurrentReorderPoint:    snapshot.ReorderPoint,
				CalculatedReorderPoint: 10,
			}, fmt.Errorf("reorder point for product %s needs sales history: %w",
				productID, domain.ErrInsufficientData)
	}

	totalUnits := 0
	for _, sale := range sales {
		totalUnits += sale.QuantitySold
	}
	dailyRate := float64(totalUnits) / 30

	reorderPoint := int(math.Ceil(dailyRate * float64(leadTimeDays+safetyStockDays)))
	if reorderPoint < 5 {
		reorderPoint = 5
	}

	recommendation := "maintain"
	if abs(reorderPoint-snapshot.ReorderPoint) > 2 {
		recommendation = "update"
	}

	return ReorderResult{
		ProductID:              productID,
		CurrentStock:           snapshot.StockLevel,
		DailySalesRate:         round2(dailyRate),
		LeadTimeDays:           leadTimeDays,
		SafetyStockDays:        safetyStockDays,
		CalculatedReorderPoint: reorderPoint,
		CurrentReorderPoint:    snapshot.ReorderPoint,
		Recommendation:         recommendation,
		Confidence:             0.8,
	}, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
