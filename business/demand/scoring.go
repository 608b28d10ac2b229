package demand

import "math"

// Sub-score weights for the composite demand score.
const (
	weightVelocity   = 0.4
	weightTurnover   = 0.3
	weightTrend      = 0.2
	weightElasticity = 0.1
)

// velocityScore maps units/day onto [0,1].
func velocityScore(velocity float64) float64 {
	switch {
	case velocity > 20:
		return 1.0
	case velocity > 10:
		return 0.8
	case velocity > 5:
		return 0.6
	case velocity > 1:
		return 0.4
	default:
		return 0.2
	}
}

// turnoverScore maps stock against the reorder point onto [0,1]. Out of
// stock reads as maximum demand.
func turnoverScore(stock, reorderPoint int) float64 {
	switch {
	case stock == 0:
		return 1.0
	case stock <= reorderPoint:
		return 0.9
	case stock <= reorderPoint*2:
		return 0.7
	case stock <= reorderPoint*3:
		return 0.5
	default:
		return 0.3
	}
}

// trendScore compares the short-window velocity against the long-window one.
func trendScore(recent, older float64) float64 {
	switch {
	case recent > older:
		return 0.9
	case recent == older:
		return 0.7
	default:
		return 0.5
	}
}

// elasticityScore maps price elasticity onto [0,1]. A zero value is treated
// as the -1.0 default (unmeasured).
func elasticityScore(elasticity float64) float64 {
	if elasticity == 0 {
		elasticity = -1.0
	}
	switch {
	case elasticity < -1.5:
		return 0.8
	case elasticity > -0.5:
		return 0.6
	default:
		return 0.7
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
