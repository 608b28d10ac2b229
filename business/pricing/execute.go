package pricing

import (
	"context"
	"dynamicPricing/business/demand"
	"dynamicPricing/business/inventory"
	"dynamicPricing/domain"
	"dynamicPricing/pkg/logger"
	"dynamicPricing/pkg/metrics"
	"fmt"
	"strings"
	"time"
)

// DecisionResult is the outcome of one executed pricing decision, including
// the full audit trail that also lands in agent_decisions.
type DecisionResult struct {
	ProductID          string                  `json:"product_id"`
	OldPrice           float64                 `json:"old_price"`
	NewPrice           float64                 `json:"new_price"`
	PriceChangePercent float64                 `json:"price_change_percent"`
	Factors            PriceFactors            `json:"factors"`
	ReasoningChain     []string                `json:"reasoning_chain"`
	Reflection         string                  `json:"reflection"`
	Recommendations    *RecommendationsResult  `json:"pricing_recommendations,omitempty"`
	DemandAnalysis     *demand.ScoreResult     `json:"demand_analysis,omitempty"`
	InventoryAnalysis  *inventory.HealthResult `json:"inventory_analysis,omitempty"`
	Confidence         float64                 `json:"confidence"`
	Timestamp          time.Time               `json:"timestamp"`
}

// Signal converts the result into the bus payload for TopicPriceDecision.
func (r DecisionResult) Signal() domain.DecisionSignal {
	return domain.DecisionSignal{
		ProductID:          r.ProductID,
		OldPrice:           r.OldPrice,
		NewPrice:           r.NewPrice,
		PriceChangePercent: r.PriceChangePercent,
		DemandFactor:       r.Factors.Demand,
		InventoryFactor:    r.Factors.Inventory,
		CompetitorFactor:   r.Factors.Competitor,
		ReasoningChain:     r.ReasoningChain,
		Confidence:         r.Confidence,
	}
}

// ExecuteDecision runs the full decision workflow for one product: gather
// inputs, decide the new price, apply it, then audit and publish. Inputs
// come from the correlated signal set when the correlator provides one;
// direct triggers (REST, supervisor) fall back to store state. The decision
// anchors to base_price, so repeated cycles cannot compound drift onto the
// current price.
//
// Decisions for the same product are serialized; different products run in
// parallel. Audit writes are retried once and alerted on, but never roll
// back or block an applied price.
func (s *PricingService) ExecuteDecision(ctx context.Context, productID string, signals *domain.SignalSet) (DecisionResult, error) {
	if err := ctx.Err(); err != nil {
		return DecisionResult{}, fmt.Errorf("context error: %w", err)
	}

	start := time.Now()
	outcome := "failed"
	defer func() {
		DecisionOutcomesTotal.WithLabelValues(outcome).Inc()
		metrics.DecisionDuration.Observe(time.Since(start).Seconds())
	}()

	lock := s.locks.forProduct(productID)
	lock.Lock()
	defer lock.Unlock()

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return DecisionResult{}, fmt.Errorf("find product %s: %w", productID, err)
	}

	logger.Info("Running pricing decision", "productID", productID)

	// Companion analyses feed the audit trail and reflection. Any of them
	// may be degraded; the decision itself only needs the raw inputs below.
	var recommendations *RecommendationsResult
	if recs, err := s.Recommendations(ctx, productID); err != nil {
		logger.Warn("Pricing recommendations unavailable", "productID", productID, "error", err)
	} else {
		recommendations = &recs
	}

	var demandAnalysis *demand.ScoreResult
	if score, err := s.demandSvc.DemandScore(ctx, productID); err != nil {
		logger.Warn("Demand analysis unavailable", "productID", productID, "error", err)
	} else {
		demandAnalysis = &score
	}

	var inventoryAnalysis *inventory.HealthResult
	if health, err := s.inventorySvc.AnalyzeHealth(ctx, productID); err != nil {
		logger.Warn("Inventory analysis unavailable", "productID", productID, "error", err)
	} else {
		inventoryAnalysis = &health
	}

	var competitorPrices []float64
	if signals != nil && signals.Competitor != nil {
		competitorPrices = signals.Competitor.CompetitorPrices
	} else if observations, err := s.competitorRepo.FindAllByProduct(ctx, productID); err != nil {
		logger.Warn("Competitor price lookup failed, deciding without market data",
			"productID", productID, "error", err)
	} else {
		for _, observation := range observations {
			competitorPrices = append(competitorPrices, observation.CompetitorPrice)
		}
	}

	demandScore := product.DemandScore
	if signals != nil && signals.Demand != nil {
		demandScore = signals.Demand.DemandScore
	} else if demandScore == 0 {
		demandScore = 0.5
	}

	inventoryLevel := product.StockLevel
	if signals != nil && signals.Inventory != nil {
		inventoryLevel = signals.Inventory.StockLevel
	}

	newPrice, factors, chain, err := DecidePrice(competitorPrices, demandScore, inventoryLevel, product.BasePrice)
	if err != nil {
		return DecisionResult{}, fmt.Errorf("decide price for product %s: %w", productID, err)
	}

	oldPrice := product.CurrentPrice
	changePercent := 0.0
	if oldPrice > 0 {
		changePercent = (newPrice - oldPrice) / oldPrice * 100
	}

	reflection := pricingReflection(oldPrice, newPrice,
		demandAnalysis != nil, inventoryAnalysis != nil, recommendations != nil)

	if err := s.productRepo.UpdatePrice(ctx, productID, newPrice); err != nil {
		return DecisionResult{}, fmt.Errorf("apply price %.2f to product %s: %w", newPrice, productID, err)
	}

	now := time.Now()
	result := DecisionResult{
		ProductID:          productID,
		OldPrice:           oldPrice,
		NewPrice:           newPrice,
		PriceChangePercent: changePercent,
		Factors:            factors,
		ReasoningChain:     chain,
		Reflection:         reflection,
		Recommendations:    recommendations,
		DemandAnalysis:     demandAnalysis,
		InventoryAnalysis:  inventoryAnalysis,
		Confidence:         0.95,
		Timestamp:          now,
	}

	s.persistAudit(ctx, productID, "price change", func(ctx context.Context) error {
		return s.decisionRepo.CreatePriceChange(ctx, &domain.PriceChange{
			ProductID:       productID,
			OldPrice:        oldPrice,
			NewPrice:        newPrice,
			ChangePercent:   changePercent,
			ChangeReason:    "Automated pricing decision with comprehensive analysis",
			AgentName:       domain.AgentPricing,
			ConfidenceScore: 0.95,
			CreatedAt:       now,
		})
	})

	s.persistAudit(ctx, productID, "agent decision", func(ctx context.Context) error {
		return s.decisionRepo.CreateDecision(ctx, &domain.AgentDecision{
			ProductID:    productID,
			AgentName:    domain.AgentPricing,
			DecisionType: "price_update",
			InputData: domain.ToJSONMap(map[string]any{
				"demand_score":      demandScore,
				"inventory_level":   inventoryLevel,
				"competitor_prices": competitorPrices,
				"base_price":        product.BasePrice,
				"old_price":         oldPrice,
			}),
			OutputData: domain.ToJSONMap(map[string]any{
				"new_price":               newPrice,
				"price_change_percent":    changePercent,
				"pricing_recommendations": recommendations,
				"demand_analysis":         demandAnalysis,
				"inventory_analysis":      inventoryAnalysis,
			}),
			ConfidenceScore: 0.95,
			Explanation: fmt.Sprintf("Price updated from $%.2f to $%.2f based on comprehensive market analysis",
				oldPrice, newPrice),
			Reflection:     reflection,
			ReasoningChain: chain,
			Timestamp:      now,
		})
	})

	s.publishDecision(ctx, result)

	logger.Info("Updated product price",
		"productID", productID,
		"oldPrice", oldPrice,
		"newPrice", newPrice,
	)

	outcome = "applied"
	metrics.DecisionTotal.Inc()

	return result, nil
}

// persistAudit writes one audit row with a single retry. A final failure is
// logged, counted and alerted, never returned: the price is already applied
// and must not be rolled back over a missing audit row.
func (s *PricingService) persistAudit(ctx context.Context, productID, kind string, write func(context.Context) error) {
	err := write(ctx)
	if err == nil {
		return
	}

	logger.Warn("Audit write failed, retrying", "kind", kind, "productID", productID, "error", err)
	if err = write(ctx); err == nil {
		return
	}

	AuditWriteFailuresTotal.Inc()
	logger.Error("Audit write failed after retry", "kind", kind, "productID", productID, "error", err)

	if s.notifier == nil {
		return
	}
	alert := fmt.Sprintf("%s audit write failed for product %s", kind, productID)
	if alertErr := s.notifier.SendAlert(ctx, "critical", "pricing", alert, err.Error()); alertErr != nil {
		logger.Error("Alert delivery failed", "productID", productID, "error", alertErr)
	}
}

func (s *PricingService) publishDecision(ctx context.Context, result DecisionResult) {
	if s.bus == nil {
		return
	}

	env, err := domain.NewSignalEnvelope(domain.TopicPriceDecision, domain.AgentPricing, result.Signal())
	if err != nil {
		logger.Error("Price decision envelope marshal failed", "productID", result.ProductID, "error", err)
		return
	}

	if err := s.bus.Publish(ctx, domain.TopicPriceDecision, env); err != nil {
		logger.Error("Price decision publish failed", "productID", result.ProductID, "error", err)
	}
}

// pricingReflection narrates the decision for the audit trail. The wording
// keys off the realized change percent and which companion analyses were
// available.
func pricingReflection(oldPrice, newPrice float64, demandOK, inventoryOK, recommendationsOK bool) string {
	priceChange := 0.0
	if oldPrice > 0 {
		priceChange = (newPrice - oldPrice) / oldPrice * 100
	}

	var parts []string
	switch {
	case priceChange > 5:
		parts = append(parts, "Significant price increase implemented. This decision was based on strong demand signals and competitive positioning.")
	case priceChange < -5:
		parts = append(parts, "Significant price decrease implemented. This decision was based on low demand and inventory management needs.")
	default:
		parts = append(parts, "Moderate price adjustment implemented. This maintains competitive positioning while optimizing for demand.")
	}

	if demandOK && inventoryOK {
		parts = append(parts, "The decision benefited from comprehensive demand and inventory analysis.")
	}
	if recommendationsOK {
		parts = append(parts, "Pricing recommendations were incorporated into the decision-making process.")
	}

	switch {
	case priceChange > 10:
		parts = append(parts, "Large price increase may impact customer perception and sales volume. Monitor closely.")
	case priceChange < -10:
		parts = append(parts, "Large price decrease may impact profit margins. Ensure inventory can support increased demand.")
	}

	parts = append(parts, "The decision should be monitored for effectiveness and adjusted based on market response.")

	return strings.Join(parts, " ")
}
