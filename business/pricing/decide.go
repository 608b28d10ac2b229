package pricing

import (
	"dynamicPricing/domain"
	"fmt"
	"math"
)

// PriceFactors are the multiplicative adjustments behind a decision.
type PriceFactors struct {
	Demand     float64 `json:"demand_factor"`
	Inventory  float64 `json:"inventory_factor"`
	Competitor float64 `json:"competitor_factor"`
}

// DecidePrice is the bounded real-time decision function. It is pure: all
// market state comes in as arguments, and the same inputs always produce the
// same price. The returned trace records every step for the audit trail; it
// never influences the calculation. The result is clamped to
// [0.8, 1.3] x basePrice, so a runaway factor combination cannot move the
// price more than 30% in either direction.
func DecidePrice(competitorPrices []float64, demandScore float64, inventoryLevel int, basePrice float64) (float64, PriceFactors, []string, error) {
	if basePrice <= 0 {
		return 0, PriceFactors{}, nil, fmt.Errorf("base price must be positive, got %.2f: %w",
			basePrice, domain.ErrComputation)
	}

	chain := []string{"Step 1: Analyzing demand score"}
	demandFactor := 1.0
	switch {
	case demandScore > 0.8:
		chain = append(chain, "High demand detected (>0.8) - considering price increase")
		demandFactor = 1.10
	case demandScore < 0.3:
		chain = append(chain, "Low demand detected (<0.3) - considering price decrease")
		demandFactor = 0.95
	default:
		chain = append(chain, "Moderate demand - maintaining current pricing strategy")
	}

	chain = append(chain, "Step 2: Analyzing inventory level")
	inventoryFactor := 1.0
	switch {
	case inventoryLevel < 5:
		chain = append(chain, "Low inventory (<5 units) - considering price increase to manage demand")
		inventoryFactor = 1.05
	case inventoryLevel > 50:
		chain = append(chain, "High inventory (>50 units) - considering price decrease to boost sales")
		inventoryFactor = 0.98
	default:
		chain = append(chain, "Moderate inventory - no inventory-based price adjustment")
	}

	chain = append(chain, "Step 3: Analyzing competitor prices")
	competitorFactor := 1.0
	if len(competitorPrices) > 0 {
		sum := 0.0
		for _, price := range competitorPrices {
			sum += price
		}
		avg := sum / float64(len(competitorPrices))
		chain = append(chain, fmt.Sprintf("Average competitor price: $%.2f", avg))

		switch {
		case basePrice < avg*0.9:
			chain = append(chain, "Our price is significantly below competitors - considering increase")
			competitorFactor = math.Min(1.05, avg/basePrice)
		case basePrice > avg*1.1:
			chain = append(chain, "Our price is significantly above competitors - considering decrease")
			competitorFactor = math.Max(0.95, avg/basePrice)
		default:
			chain = append(chain, "Our price is competitive with market")
		}
	} else {
		chain = append(chain, "No competitor data available - using base pricing")
	}

	chain = append(chain, "Step 4: Calculating final price")
	newPrice := basePrice * demandFactor * inventoryFactor * competitorFactor
	newPrice = math.Max(newPrice, basePrice*0.8)
	newPrice = math.Min(newPrice, basePrice*1.3)
	newPrice = round2(newPrice)
	chain = append(chain, fmt.Sprintf("Final price calculated: $%.2f", newPrice))

	factors := PriceFactors{
		Demand:     demandFactor,
		Inventory:  inventoryFactor,
		Competitor: competitorFactor,
	}
	return newPrice, factors, chain, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
