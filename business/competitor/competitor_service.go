package competitor

import (
	"context"
	"dynamicPricing/domain"
	"dynamicPricing/pkg/logger"
	"fmt"
	"math"
	"time"
)

// ---- Repository interfaces ----

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

type CompetitorRepository interface {
	Create(ctx context.Context, observation *domain.CompetitorObservation) error
	ListSince(ctx context.Context, productID string, since time.Time) ([]domain.CompetitorObservation, error)
}

type DecisionRepository interface {
	CreateDecision(ctx context.Context, decision *domain.AgentDecision) error
}

// ---- Service ----

// recentWindowDays bounds how old an observation may be and still count as
// market signal.
const recentWindowDays = 7

type CompetitorService struct {
	productRepo    ProductRepository
	competitorRepo CompetitorRepository
	decisionRepo   DecisionRepository
}

func NewCompetitorService(
	productRepo ProductRepository,
	competitorRepo CompetitorRepository,
	decisionRepo DecisionRepository,
) *CompetitorService {
	return &CompetitorService{
		productRepo:    productRepo,
		competitorRepo: competitorRepo,
		decisionRepo:   decisionRepo,
	}
}

// AnalysisResult positions our price against recent competitor observations.
type AnalysisResult struct {
	ProductID       string    `json:"product_id"`
	OurPrice        float64   `json:"our_price"`
	CompetitorAvg   float64   `json:"competitor_avg"`
	CompetitorMin   float64   `json:"competitor_min"`
	CompetitorMax   float64   `json:"competitor_max"`
	Prices          []float64 `json:"competitor_prices"`
	PricePosition   string    `json:"price_position"`
	PriceAdvantage  float64   `json:"price_advantage"`
	Recommendation  string    `json:"recommendation"`
	CompetitorCount int       `json:"competitor_count"`
	Confidence      float64   `json:"confidence"`
}

// Analyze grades our effective price against the last week of competitor
// observations. Without any recent observation it returns ErrNoRecentData
// and a maintain recommendation so callers can degrade instead of halting.
// Confidence grows with the number of observations and caps at 0.95.
func (s *CompetitorService) Analyze(ctx context.Context, productID string) (AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("product %s: %w", productID, err)
	}

	cutoff := time.Now().AddDate(0, 0, -recentWindowDays)
	observations, err := s.competitorRepo.ListSince(ctx, productID, cutoff)
	if err != nil {
		return AnalysisResult{}, err
	}

	if len(observations) == 0 {
		return AnalysisResult{
				ProductID:      productID,
				Recommendation: "maintain_current_price",
			}, fmt.Errorf("competitor analysis for product %s: %w",
				productID, domain.ErrNoRecentData)
	}

	prices := make([]float64, 0, len(observations))
	sum := 0.0
	minPrice := observations[0].CompetitorPrice
	maxPrice := observations[0].CompetitorPrice
	for _, obs := range observations {
		prices = append(prices, obs.CompetitorPrice)
		sum += obs.CompetitorPrice
		if obs.CompetitorPrice < minPrice {
			minPrice = obs.CompetitorPrice
		}
		if obs.CompetitorPrice > maxPrice {
			maxPrice = obs.CompetitorPrice
		}
	}
	avgPrice := sum / float64(len(prices))
	ourPrice := product.EffectivePrice()

	position := "competitive"
	advantage := 0.0
	switch {
	case ourPrice < minPrice:
		position = "lowest"
		advantage = minPrice - ourPrice
	case ourPrice > maxPrice:
		position = "highest"
		advantage = ourPrice - maxPrice
	}

	recommendation := "maintain_current_price"
	if position == "lowest" && advantage > avgPrice*0.1 {
		recommendation = "consider_price_increase"
	} else if position == "highest" && advantage > avgPrice*0.15 {
		recommendation = "consider_price_decrease"
	}

	result := AnalysisResult{
		ProductID:       productID,
		OurPrice:        ourPrice,
		CompetitorAvg:   round2(avgPrice),
		CompetitorMin:   round2(minPrice),
		CompetitorMax:   round2(maxPrice),
		Prices:          prices,
		PricePosition:   position,
		PriceAdvantage:  round2(advantage),
		Recommendation:  recommendation,
		CompetitorCount: len(observations),
		Confidence:      math.Min(0.95, float64(len(observations))/5),
	}

	logger.Info("Completed competitor analysis",
		"agent", domain.AgentCompetitor,
		"product_id", productID,
		"position", position,
		"competitors", len(observations),
	)

	return result, nil
}

// RecordObservation stores a competitor price point for a known product and
// leaves a monitoring audit row behind.
func (s *CompetitorService) RecordObservation(ctx context.Context, observation *domain.CompetitorObservation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if _, err := s.productRepo.FindByID(ctx, observation.ProductID); err != nil {
		return fmt.Errorf("product %s: %w", observation.ProductID, err)
	}

	if observation.ScrapedAt.IsZero() {
		observation.ScrapedAt = time.Now()
	}
	if observation.ConfidenceScore == 0 {
		observation.ConfidenceScore = 1.0
	}

	if err := s.competitorRepo.Create(ctx, observation); err != nil {
		logger.Error("Failed to store competitor observation", err)
		return err
	}

	decision := domain.AgentDecision{
		ProductID:    observation.ProductID,
		AgentName:    domain.AgentCompetitor,
		DecisionType: "monitoring",
		InputData:    domain.ToJSONMap(observation),
		OutputData: domain.ToJSONMap(map[string]string{
			"status": "stored",
		}),
		Explanation: "Processed competitor data and stored observation",
		Timestamp:   time.Now(),
	}
	if err := s.decisionRepo.CreateDecision(ctx, &decision); err != nil {
		logger.Warn("Failed to record monitoring decision", "product_id", observation.ProductID, "error", err)
	}

	return nil
}

// Signal converts an analysis into the bus payload consumed downstream.
func (r AnalysisResult) Signal() domain.CompetitorSignal {
	return domain.CompetitorSignal{
		ProductID:        r.ProductID,
		CompetitorPrices: r.Prices,
		AvgPrice:         r.CompetitorAvg,
		MinPrice:         r.CompetitorMin,
		MaxPrice:         r.CompetitorMax,
		PricePosition:    r.PricePosition,
		Recommendation:   r.Recommendation,
		NumCompetitors:   r.CompetitorCount,
		Confidence:       r.Confidence,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
