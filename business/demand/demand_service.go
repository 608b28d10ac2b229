package demand

import (
	"context"
	"dynamicPricing/domain"
	"dynamicPricing/pkg/logger"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ---- Repository interfaces ----

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
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

type DemandService struct {
	productRepo   ProductRepository
	salesRepo     SalesRepository
	inventoryRepo InventoryRepository
	decisionRepo  DecisionRepository
}

func NewDemandService(
	productRepo ProductRepository,
	salesRepo SalesRepository,
	inventoryRepo InventoryRepository,
	decisionRepo DecisionRepository,
) *DemandService {
	return &DemandService{
		productRepo:   productRepo,
		salesRepo:     salesRepo,
		inventoryRepo: inventoryRepo,
		decisionRepo:  decisionRepo,
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

// SalesVelocity computes units/day over the trailing window. Confidence
// scales with how many distinct days saw sales, capped at 0.95. Zero sales
// is a valid zero-velocity, zero-confidence result, never an error.
func (s *DemandService) SalesVelocity(ctx context.Context, productID string, days int) (VelocityResult, error) {
	if err := ctx.Err(); err != nil {
		return VelocityResult{}, fmt.Errorf("context error: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -days)

	sales, err := s.salesRepo.ListSince(ctx, productID, cutoff)
	if err != nil {
		logger.Error("Failed to list sales for velocity", err)
		return VelocityResult{}, err
	}

	if len(sales) == 0 {
		return VelocityResult{
			ProductID:     productID,
			SalesVelocity: 0.0,
			PeriodDays:    days,
			Confidence:    0.0,
			Message:       "No sales data available for the period",
		}, nil
	}

	totalUnits := 0
	dailySales := map[string]int{}
	for _, sale := range sales {
		totalUnits += sale.QuantitySold
		dateKey := sale.SaleDate.Format("2006-01-02")
		dailySales[dateKey] += sale.QuantitySold
	}

	velocity := float64(totalUnits) / float64(days)
	consistency := float64(len(dailySales)) / float64(days)

	return VelocityResult{
		ProductID:     productID,
		SalesVelocity: round2(velocity),
		TotalUnits:    totalUnits,
		PeriodDays:    days,
		DaysWithSales: len(dailySales),
		Confidence:    round2(math.Min(0.95, consistency)),
		Message:       "Sales velocity calculated successfully",
	}, nil
}

// ScoreFactors are the weighted components of a demand score, each in [0,1].
type ScoreFactors struct {
	SalesVelocityScore float64 `json:"sales_velocity_score"`
	StockTurnoverScore float64 `json:"stock_turnover_score"`
	TrendScore         float64 `json:"trend_score"`
	ElasticityScore    float64 `json:"elasticity_score"`
}

type ScoreResult struct {
	ProductID     string       `json:"product_id"`
	DemandScore   float64      `json:"demand_score"`
	SalesVelocity float64      `json:"sales_velocity"`
	CurrentStock  int          `json:"current_stock"`
	ReorderPoint  int          `json:"reorder_point"`
	Factors       ScoreFactors `json:"factors"`
	Explanation   string       `json:"explanation"`
	Confidence    float64      `json:"confidence"`
}

// DemandScore fuses velocity, stock turnover, trend and elasticity into a
// single [0,1] score. Missing inventory falls back to stock 0 / reorder 10.
func (s *DemandService) DemandScore(ctx context.Context, productID string) (ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return ScoreResult{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ScoreResult{}, err
	}

	weekVelocity, err := s.SalesVelocity(ctx, productID, 7)
	if err != nil {
		return ScoreResult{}, err
	}

	currentStock := 0
	reorderPoint := 10
	snapshot, err := s.inventoryRepo.Latest(ctx, productID)
	switch {
	case err == nil:
		currentStock = snapshot.StockLevel
		reorderPoint = snapshot.ReorderPoint
	case errors.Is(err, domain.ErrNotFound):
		// no snapshot yet, keep the defaults
	default:
		return ScoreResult{}, err
	}

	recentVelocity, err := s.SalesVelocity(ctx, productID, 3)
	if err != nil {
		return ScoreResult{}, err
	}

	factors := ScoreFactors{
		SalesVelocityScore: velocityScore(weekVelocity.SalesVelocity),
		StockTurnoverScore: turnoverScore(currentStock, reorderPoint),
		TrendScore:         trendScore(recentVelocity.SalesVelocity, weekVelocity.SalesVelocity),
		ElasticityScore:    elasticityScore(product.PriceElasticity),
	}

	score := factors.SalesVelocityScore*weightVelocity +
		factors.StockTurnoverScore*weightTurnover +
		factors.TrendScore*weightTrend +
		factors.ElasticityScore*weightElasticity

	var explanationParts []string
	if factors.SalesVelocityScore > 0.7 {
		explanationParts = append(explanationParts, "High sales velocity indicates strong demand")
	}
	if factors.StockTurnoverScore > 0.7 {
		explanationParts = append(explanationParts, "Low stock levels suggest high demand")
	}
	if factors.TrendScore > 0.8 {
		explanationParts = append(explanationParts, "Increasing sales trend")
	}

	explanation := "Moderate demand based on current metrics"
	if len(explanationParts) > 0 {
		explanation = strings.Join(explanationParts, ". ")
	}

	return ScoreResult{
		ProductID:     productID,
		DemandScore:   round2(score),
		SalesVelocity: weekVelocity.SalesVelocity,
		CurrentStock:  currentStock,
		ReorderPoint:  reorderPoint,
		Factors:       factors,
		Explanation:   explanation,
		Confidence:    weekVelocity.Confidence,
	}, nil
}
