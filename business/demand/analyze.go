package demand

import (
	"context"
	"dynamicPricing/domain"
	"dynamicPricing/pkg/logger"
	"fmt"
	"strings"
	"time"
)

type OverallAssessment struct {
	DemandLevel     string   `json:"demand_level"`
	Confidence      float64  `json:"confidence"`
	Trend           string   `json:"trend"`
	Recommendations []string `json:"recommendations"`
}

// AnalysisResult is the full demand picture for one product. It becomes the
// demand_score signal payload and the audit row's output.
type AnalysisResult struct {
	ProductID         string            `json:"product_id"`
	Timestamp         time.Time         `json:"timestamp"`
	VelocityAnalysis  VelocityResult    `json:"sales_velocity_analysis"`
	ScoreAnalysis     ScoreResult       `json:"demand_score_analysis"`
	Forecast          ForecastResult    `json:"demand_forecast"`
	Signals           SignalsResult     `json:"demand_signals"`
	ReasoningChain    []string          `json:"reasoning_chain"`
	Reflection        string            `json:"reflection"`
	OverallAssessment OverallAssessment `json:"overall_demand_assessment"`
}

// Analyze runs the complete demand workflow for a product: velocity, score,
// 30-day forecast and signal distillation, with a reasoning chain and a
// recorded audit row. A forecast short on history degrades the analysis, it
// does not fail it.
func (s *DemandService) Analyze(ctx context.Context, productID string) (AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, fmt.Errorf("context error: %w", err)
	}

	logger.Info("Starting demand analysis", "agent", domain.AgentDemand, "product_id", productID)

	velocity, err := s.SalesVelocity(ctx, productID, 7)
	if err != nil {
		return AnalysisResult{}, err
	}

	score, err := s.DemandScore(ctx, productID)
	if err != nil {
		return AnalysisResult{}, err
	}

	forecast, forecastErr := s.ForecastDemand(ctx, productID, 30)
	if forecastErr != nil {
		logger.Warn("Demand forecast degraded", "product_id", productID, "error", forecastErr)
	}

	signals, err := s.DemandSignals(ctx, productID)
	if err != nil {
		return AnalysisResult{}, err
	}

	chain := []string{"Step 1: Analyzing sales velocity"}
	chain = append(chain, fmt.Sprintf("Sales velocity: %.2f units/day", velocity.SalesVelocity))
	switch {
	case velocity.SalesVelocity > 10:
		chain = append(chain, "High sales velocity indicates strong demand")
	case velocity.SalesVelocity > 5:
		chain = append(chain, "Moderate sales velocity indicates steady demand")
	default:
		chain = append(chain, "Low sales velocity indicates weak demand")
	}

	chain = append(chain, "Step 2: Calculating demand score")
	chain = append(chain, fmt.Sprintf("Demand score: %.2f", score.DemandScore))
	switch {
	case score.DemandScore > 0.8:
		chain = append(chain, "High demand score suggests strong market interest")
	case score.DemandScore < 0.3:
		chain = append(chain, "Low demand score suggests weak market interest")
	default:
		chain = append(chain, "Moderate demand score suggests stable market interest")
	}

	chain = append(chain, "Step 3: Forecasting future demand")
	if forecastErr == nil {
		chain = append(chain, fmt.Sprintf("Forecasted daily demand: %.1f units", forecast.AvgDailyForecast))
	}

	chain = append(chain, "Step 4: Analyzing demand signals")
	chain = append(chain, fmt.Sprintf("Overall demand sentiment: %s", signals.OverallSentiment))

	reflection := demandReflection(score, forecast, forecastErr)

	result := AnalysisResult{
		ProductID:         productID,
		Timestamp:         time.Now(),
		VelocityAnalysis:  velocity,
		ScoreAnalysis:     score,
		Forecast:          forecast,
		Signals:           signals,
		ReasoningChain:    chain,
		Reflection:        reflection,
		OverallAssessment: overallAssessment(score, signals),
	}

	decision := domain.AgentDecision{
		ProductID:       productID,
		AgentName:       domain.AgentDemand,
		DecisionType:    "demand_analysis",
		InputData:       domain.ToJSONMap(map[string]string{"product_id": productID}),
		OutputData:      domain.ToJSONMap(result),
		ConfidenceScore: 0.9,
		Explanation:     "Comprehensive demand analysis completed using multiple analytical tools",
		Reflection:      reflection,
		ReasoningChain:  chain,
		Timestamp:       time.Now(),
	}
	if err := s.decisionRepo.CreateDecision(ctx, &decision); err != nil {
		// the analysis stands even when the audit row does not
		logger.Warn("Failed to record demand analysis decision", "product_id", productID, "error", err)
	}

	logger.Info("Completed demand analysis", "agent", domain.AgentDemand, "product_id", productID, "demand_score", score.DemandScore)

	return result, nil
}

func demandReflection(score ScoreResult, forecast ForecastResult, forecastErr error) string {
	var parts []string

	if forecastErr != nil {
		parts = append(parts, "Analysis limited by missing: demand forecast data")
	} else {
		parts = append(parts, "Analysis benefited from comprehensive data availability")
	}

	switch {
	case score.DemandScore > 0.8:
		parts = append(parts, "Strong demand signals detected, suggesting favorable market conditions")
	case score.DemandScore < 0.3:
		parts = append(parts, "Weak demand signals detected, suggesting challenging market conditions")
	default:
		parts = append(parts, "Moderate demand signals detected, suggesting stable market conditions")
	}

	if score.CurrentStock == 0 {
		parts = append(parts, "Inventory out of stock - demand may be underestimated")
	} else if score.CurrentStock <= score.ReorderPoint {
		parts = append(parts, "Low inventory levels - demand may be constrained by supply")
	}

	if forecastErr == nil {
		if forecast.Confidence > 0.8 {
			parts = append(parts, "High confidence in demand forecasting due to consistent historical data")
		} else if forecast.Confidence < 0.5 {
			parts = append(parts, "Low confidence in demand forecasting due to limited or inconsistent data")
		}
	}

	parts = append(parts, "Recommendation: Monitor demand patterns closely and adjust analysis as new data becomes available.")

	return strings.Join(parts, " ")
}

func overallAssessment(score ScoreResult, signals SignalsResult) OverallAssessment {
	assessment := OverallAssessment{
		DemandLevel:     "moderate",
		Confidence:      0.7,
		Trend:           "stable",
		Recommendations: []string{},
	}

	if score.DemandScore > 0.8 {
		assessment.DemandLevel = "high"
	} else if score.DemandScore < 0.3 {
		assessment.DemandLevel = "low"
	}

	if signals.OverallSentiment == "positive" {
		assessment.Trend = "increasing"
	} else if signals.OverallSentiment == "negative" {
		assessment.Trend = "decreasing"
	}

	switch assessment.DemandLevel {
	case "high":
		assessment.Recommendations = append(assessment.Recommendations,
			"Consider price optimization to maximize revenue",
			"Ensure adequate inventory to meet demand",
		)
	case "low":
		assessment.Recommendations = append(assessment.Recommendations,
			"Consider promotional activities to boost demand",
			"Review pricing strategy for competitiveness",
		)
	}

	switch assessment.Trend {
	case "increasing":
		assessment.Recommendations = append(assessment.Recommendations, "Prepare for increased inventory needs")
	case "decreasing":
		assessment.Recommendations = append(assessment.Recommendations, "Monitor closely for further decline")
	}

	return assessment
}

// Signal converts an analysis into the bus payload consumed downstream.
func (r AnalysisResult) Signal() domain.DemandSignal {
	return domain.DemandSignal{
		ProductID:     r.ProductID,
		DemandScore:   r.ScoreAnalysis.DemandScore,
		SalesVelocity: r.ScoreAnalysis.SalesVelocity,
		Sentiment:     r.Signals.OverallSentiment,
		Confidence:    r.ScoreAnalysis.Confidence,
		Explanation:   r.ScoreAnalysis.Explanation,
	}
}
