package pricing

import (
	"context"
	"fmt"
	"math"
	"time"
)

// ElasticityResult estimates how demand responds to price moves. An
// elasticity of -1.0 with confidence 0.5 is the default when history is too
// thin to measure; callers treat it as unit-elastic.
type ElasticityResult struct {
	ProductID    string  `json:"product_id"`
	Elasticity   float64 `json:"elasticity"`
	Confidence   float64 `json:"confidence"`
	DataPoints   int     `json:"data_points"`
	PriceChanges int     `json:"price_changes,omitempty"`
	Message      string  `json:"message"`
}

// PriceElasticity pairs consecutive price changes with consecutive sales
// quantities over the window and averages the quantity/price percentage
// ratios. Pairing is bounded by the shorter of the two series. Thin history
// is not an error: the default elasticity comes back with a message instead,
// so scoring keeps working for new products.
func (s *PricingService) PriceElasticity(ctx context.Context, productID string, days int) (ElasticityResult, error) {
	if err := ctx.Err(); err != nil {
		return ElasticityResult{}, fmt.Errorf("context error: %w", err)
	}

	since := time.Now().AddDate(0, 0, -days)

	history, err := s.decisionRepo.ListPriceChangesSince(ctx, productID, since)
	if err != nil {
		return ElasticityResult{}, fmt.Errorf("load price history for product %s: %w", productID, err)
	}

	sales, err := s.salesRepo.ListSince(ctx, productID, since)
	if err != nil {
		return ElasticityResult{}, fmt.Errorf("load sales for product %s: %w", productID, err)
	}

	result := ElasticityResult{
		ProductID:  productID,
		Elasticity: -1.0,
		Confidence: 0.5,
		DataPoints: len(history),
	}

	if len(history) < 2 || len(sales) < 2 {
		result.Message = "Insufficient data for accurate elasticity calculation"
		return result, nil
	}

	pairs := len(history)
	if len(sales) < pairs {
		pairs = len(sales)
	}

	var ratios []float64
	for i := 1; i < pairs; i++ {
		prevPrice := history[i-1].NewPrice
		if prevPrice == 0 {
			continue
		}
		priceChange := (history[i].NewPrice - prevPrice) / prevPrice
		if priceChange == 0 {
			continue
		}

		quantityChange := 0.0
		if prev := sales[i-1].QuantitySold; prev > 0 {
			quantityChange = float64(sales[i].QuantitySold-prev) / float64(prev)
		}

		ratios = append(ratios, quantityChange/priceChange)
	}

	if len(ratios) == 0 {
		result.Message = "No price changes detected in the period"
		return result, nil
	}

	sum := 0.0
	for _, r := range ratios {
		sum += r
	}

	result.Elasticity = round2(sum / float64(len(ratios)))
	result.Confidence = math.Min(0.9, float64(len(ratios))/10)
	result.PriceChanges = len(ratios)
	result.Message = "Elasticity calculated successfully"
	return result, nil
}
