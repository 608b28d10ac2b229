package pricing

import (
	"context"
	"dynamicPricing/business/competitor"
	"dynamicPricing/pkg/logger"
	"fmt"
	"math"
	"time"
)

const elasticityWindowDays = 30

// OptimalFactors breaks an optimal-price suggestion into its inputs.
type OptimalFactors struct {
	CostBased             float64 `json:"cost_based"`
	DemandAdjustment      float64 `json:"demand_adjustment"`
	CompetitionAdjustment float64 `json:"competition_adjustment"`
	ElasticityAdjustment  float64 `json:"elasticity_adjustment"`
}

type OptimalPriceResult struct {
	ProductID          string         `json:"product_id"`
	CurrentPrice       float64        `json:"current_price"`
	OptimalPrice       float64        `json:"optimal_price"`
	PriceChangePercent float64        `json:"price_change_percent"`
	MinPrice           float64        `json:"min_price"`
	Factors            OptimalFactors `json:"factors"`
	Recommendation     string         `json:"recommendation"`
	Confidence         float64        `json:"confidence"`
}

// OptimalPrice suggests a margin-safe target price from cost, the stored
// demand score and elasticity, and the competitor average. The floor is a
// 20% margin over cost; the ceiling is 150% of the competitor average. A
// failed competitor analysis degrades to our own price as the market
// reference rather than failing the suggestion.
func (s *PricingService) OptimalPrice(ctx context.Context, productID string) (OptimalPriceResult, error) {
	if err := ctx.Err(); err != nil {
		return OptimalPriceResult{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return OptimalPriceResult{}, fmt.Errorf("find product %s: %w", productID, err)
	}

	costPrice := product.CostPrice
	currentPrice := product.EffectivePrice()

	demandScore := product.DemandScore
	if demandScore == 0 {
		demandScore = 0.5
	}

	elasticity := product.PriceElasticity
	if elasticity == 0 {
		elasticity = -1.0
	}

	competitorAvg := currentPrice
	if analysis, err := s.competitorSvc.Analyze(ctx, productID); err == nil {
		competitorAvg = analysis.CompetitorAvg
	}

	minPrice := costPrice * 1.2
	demandAdjustment := 1.0 + (demandScore-0.5)*0.2

	competitionRatio := 1.0
	if currentPrice > 0 {
		competitionRatio = competitorAvg / currentPrice
	}
	competitionAdjustment := math.Min(math.Max(competitionRatio, 0.8), 1.2)

	elasticityAdjustment := 1.0
	switch {
	case elasticity < -1.5:
		elasticityAdjustment = 0.95
	case elasticity > -0.5:
		elasticityAdjustment = 1.05
	}

	optimalPrice := minPrice * demandAdjustment * competitionAdjustment * elasticityAdjustment
	optimalPrice = math.Max(optimalPrice, minPrice)
	optimalPrice = math.Min(optimalPrice, competitorAvg*1.5)

	priceChange := 0.0
	if currentPrice > 0 {
		priceChange = (optimalPrice - currentPrice) / currentPrice * 100
	}

	recommendation := "maintain"
	switch {
	case priceChange > 2:
		recommendation = "increase"
	case priceChange < -2:
		recommendation = "decrease"
	}

	return OptimalPriceResult{
		ProductID:          productID,
		CurrentPrice:       round2(currentPrice),
		OptimalPrice:       round2(optimalPrice),
		PriceChangePercent: round1(priceChange),
		MinPrice:           round2(minPrice),
		Factors: OptimalFactors{
			CostBased:             round2(minPrice),
			DemandAdjustment:      round3(demandAdjustment),
			CompetitionAdjustment: round3(competitionAdjustment),
			ElasticityAdjustment:  round3(elasticityAdjustment),
		},
		Recommendation: recommendation,
		Confidence:     0.8,
	}, nil
}

// RecommendationsResult aggregates the three pricing analyses. Sections that
// could not be computed are omitted rather than failing the whole report.
type RecommendationsResult struct {
	ProductID             string                     `json:"product_id"`
	Timestamp             time.Time                  `json:"timestamp"`
	ElasticityAnalysis    *ElasticityResult          `json:"elasticity_analysis,omitempty"`
	CompetitorAnalysis    *competitor.AnalysisResult `json:"competitor_analysis,omitempty"`
	OptimalPriceAnalysis  *OptimalPriceResult        `json:"optimal_price_analysis,omitempty"`
	OverallRecommendation string                     `json:"overall_recommendation"`
	Confidence            float64                    `json:"confidence"`
	Reasoning             []string                   `json:"reasoning"`
}

// Recommendations combines elasticity, competitor and optimal-price analyses
// into one report with an overall call to action. The optimal-price analysis
// decides the overall recommendation; the competitor analysis only adds
// reasoning.
func (s *PricingService) Recommendations(ctx context.Context, productID string) (RecommendationsResult, error) {
	if err := ctx.Err(); err != nil {
		return RecommendationsResult{}, fmt.Errorf("context error: %w", err)
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return RecommendationsResult{}, fmt.Errorf("find product %s: %w", productID, err)
	}

	result := RecommendationsResult{
		ProductID:             productID,
		Timestamp:             time.Now(),
		OverallRecommendation: "maintain_current_price",
		Confidence:            0.7,
		Reasoning:             []string{},
	}

	if elasticity, err := s.PriceElasticity(ctx, productID, elasticityWindowDays); err != nil {
		logger.Warn("Elasticity analysis unavailable", "productID", productID, "error", err)
	} else {
		result.ElasticityAnalysis = &elasticity
	}

	if analysis, err := s.competitorSvc.Analyze(ctx, productID); err != nil {
		logger.Warn("Competitor analysis unavailable", "productID", productID, "error", err)
	} else {
		result.CompetitorAnalysis = &analysis
	}

	if optimal, err := s.OptimalPrice(ctx, productID); err != nil {
		logger.Warn("Optimal price analysis unavailable", "productID", productID, "error", err)
	} else {
		result.OptimalPriceAnalysis = &optimal
	}

	if optimal := result.OptimalPriceAnalysis; optimal != nil {
		switch optimal.Recommendation {
		case "increase":
			result.OverallRecommendation = "increase_price"
			result.Reasoning = append(result.Reasoning, "Optimal price analysis suggests price increase")
		case "decrease":
			result.OverallRecommendation = "decrease_price"
			result.Reasoning = append(result.Reasoning, "Optimal price analysis suggests price decrease")
		}
	}

	if analysis := result.CompetitorAnalysis; analysis != nil {
		switch analysis.Recommendation {
		case "consider_price_increase":
			result.Reasoning = append(result.Reasoning, "Competitor analysis suggests potential price increase")
		case "consider_price_decrease":
			result.Reasoning = append(result.Reasoning, "Competitor analysis suggests potential price decrease")
		}
	}

	return result, nil
}
