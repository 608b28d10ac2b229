package inventory

import (
	"context"
	"dynamicPricing/domain"
	"fmt"
	"math"
	"time"
)

// ---- Repository interfaces ----

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
	UpdateStockLevel(ctx context.Context, id string, stockLevel int) error
}

type SalesRepository interface {
	ListSince(ctx context.Context, productID string, since time.Time) ([]domain.SaleEvent, error)
}

type InventoryRepository interface {
	Latest(ctx context.Context, productID string) (domain.InventorySnapshot, error)
}

type DecisionRepository interface {
	CreateDecision(ctx context.Context, decision *domain.AgentDecision) error
}

// ---- Service ----

// Replenishment assumptions shared by the reorder and forecast paths.
const (
	leadTimeDays    = 7
	safetyStockDays = 3
)

type InventoryService struct {
	productRepo   ProductRepository
	salesRepo     SalesRepository
	inventoryRepo InventoryRepository
	decisionRepo  DecisionRepository
}

func NewInventoryService(
	productRepo ProductRepository,
	salesRepo SalesRepository,
	inventoryRepo InventoryRepository,
	decisionRepo DecisionRepository,
) *InventoryService {
	return &InventoryService{
		productRepo:   productRepo,
		salesRepo:     salesRepo,
		inventoryRepo: inventoryRepo,
		decisionRepo:  decisionRepo,
	}
}

// HealthResult classifies how close a product is to running dry.
type HealthResult struct {
	ProductID       string    `json:"product_id"`
	CurrentStock    int       `json:"current_stock"`
	ReorderPoint    int       `json:"reorder_point"`
	MaxStock        int       `json:"max_stock"`
	DailySalesRate  float64   `json:"daily_sales_rate"`
	DaysRemaining   *float64  `json:"days_of_inventory_remaining,omitempty"`
	StockTurnover   float64   `json:"stock_turnover_rate"`
	Status          string    `json:"inventory_status"`
	Urgency         string    `json:"urgency_level"`
	Recommendations []string  `json:"recommendations"`
	LastUpdated     time.Time `json:"last_updated"`
}

// AnalyzeHealth grades stock against the reorder point and the 7-day sales
// rate. Zero daily sales means days-remaining is unbounded, which reads as
// healthy unless the stock level itself is already at or under the reorder
// point.
func (s *InventoryService) AnalyzeHealth(ctx context.Context, productID string) (HealthResult, error) {
	if err := ctx.Err(); err != nil {
		return HealthResult{}, fmt.Errorf("context error: %w", err)
	}

	snapshot, err := s.inventoryRepo.Latest(ctx, productID)
	if err != nil {
		return HealthResult{}, fmt.Errorf("inventory for product %s: %w", productID, err)
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return HealthResult{}, fmt.Errorf("product %s: %w", productID, err)
	}

	cutoff := time.Now().AddDate(0, 0, -7)
	sales, err := s.salesRepo.ListSince(ctx, productID, cutoff)
	if err != nil {
		return HealthResult{}, err
	}

	totalUnits := 0
	for _, sale := range sales {
		totalUnits += sale.QuantitySold
	}
	dailyRate := float64(totalUnits) / 7

	daysRemaining := math.Inf(1)
	if dailyRate > 0 {
		daysRemaining = float64(snapshot.StockLevel) / dailyRate
	}

	status, urgency := classifyStock(snapshot.StockLevel, snapshot.ReorderPoint, daysRemaining)

	turnover := 0.0
	if snapshot.StockLevel > 0 {
		turnover = round2(dailyRate * 30 / float64(snapshot.StockLevel))
	}

	result := HealthResult{
		ProductID:       productID,
		CurrentStock:    snapshot.StockLevel,
		ReorderPoint:    snapshot.ReorderPoint,
		MaxStock:        snapshot.MaxStock,
		DailySalesRate:  round2(dailyRate),
		StockTurnover:   turnover,
		Status:          status,
		Urgency:         urgency,
		Recommendations: healthRecommendations(status),
		LastUpdated:     snapshot.LastUpdated,
	}
	if !math.IsInf(daysRemaining, 1) {
		remaining := round1(daysRemaining)
		result.DaysRemaining = &remaining
	}
	return result, nil
}

// classifyStock applies the status ladder in precedence order. The day
// thresholds are empirical business rules; keep them literal.
func classifyStock(stock, reorderPoint int, daysRemaining float64) (status, urgency string) {
	switch {
	case stock == 0:
		return "out_of_stock", "critical"
	case stock <= reorderPoint:
		return "low_stock", "high"
	case daysRemaining <= 7:
		return "critical_low", "high"
	case daysRemaining <= 14:
		return "moderate", "medium"
	default:
		return "healthy", "low"
	}
}

func healthRecommendations(status string) []string {
	switch status {
	case "out_of_stock":
		return []string{"Immediate restock required", "Consider expedited shipping"}
	case "low_stock":
		return []string{"Place reorder immediately", "Monitor sales closely"}
	case "critical_low":
		return []string{"Prepare for reorder", "Consider increasing reorder quantity"}
	case "moderate":
		return []string{"Monitor inventory levels", "Plan for next reorder cycle"}
	default:
		return []string{"Inventory levels are optimal", "Continue monitoring"}
	}
}

// VelocityResult reports units/day over a lookback window.
type VelocityResult struct {
	ProductID     string  `json:"product_id"`
	SalesVelocity float64 `json:"sales_velocity"`
	TotalUnits    int     `json:"total_units_sold"`
	PeriodDays    int     `json:"period_days"`
	DaysWithSales int     `json:"days_with_sales"`
	Confidence    float64 `json:"confidence"`
	Message       string  `json:"message"`
}

// SalesVelocity mirrors the demand-side calculation so inventory analysis
// stays self-contained. Zero sales is a valid result, not an error.
func (s *InventoryService) SalesVelocity(ctx context.Context, productID string, days int) (VelocityResult, error) {
	if err := ctx.Err(); err != nil {
		return VelocityResult{}, fmt.Errorf("context error: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	sales, err := s.salesRepo.ListSince(ctx, productID, cutoff)
	if err != nil {
		return VelocityResult{}, err
	}

	if len(sales) == 0 {
		return VelocityResult{
			ProductID:  productID,
			PeriodDays: days,
			Message:    "No sales data available for the period",
		}, nil
	}

	totalUnits := 0
	saleDays := map[string]struct{}{}
	for _, sale := range sales {
		totalUnits += sale.QuantitySold
		saleDays[sale.SaleDate.Format("2006-01-02")] = struct{}{}
	}

	return VelocityResult{
		ProductID:     productID,
		SalesVelocity: round2(float64(totalUnits) / float64(days)),
		TotalUnits:    totalUnits,
		PeriodDays:    days,
		DaysWithSales: len(saleDays),
		Confidence:    round2(math.Min(0.95, float64(len(saleDays))/float64(days))),
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
