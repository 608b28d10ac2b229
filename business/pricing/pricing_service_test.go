package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dynamicPricing/business/competitor"
	"dynamicPricing/business/demand"
	"dynamicPricing/business/inventory"
	"dynamicPricing/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Fakes ----

type fakeProductRepo struct {
	products     map[string]domain.Product
	priceUpdates map[string]float64
	failUpdate   bool
}

func (f *fakeProductRepo) FindByID(_ context.Context, id string) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) UpdatePrice(_ context.Context, id string, price float64) error {
	if f.failUpdate {
		return domain.ErrUpstreamUnavailable
	}
	f.priceUpdates[id] = price
	return nil
}

type fakeCompetitorRepo struct {
	observations []domain.CompetitorObservation
	calls        int
}

func (f *fakeCompetitorRepo) FindAllByProduct(_ context.Context, productID string) ([]domain.CompetitorObservation, error) {
	f.calls++
	var out []domain.CompetitorObservation
	for _, obs := range f.observations {
		if obs.ProductID == productID {
			out = append(out, obs)
		}
	}
	return out, nil
}

type fakeSalesRepo struct {
	sales []domain.SaleEvent
}

func (f *fakeSalesRepo) ListSince(_ context.Context, productID string, since time.Time) ([]domain.SaleEvent, error) {
	var out []domain.SaleEvent
	for _, sale := range f.sales {
		if sale.ProductID == productID && !sale.SaleDate.Before(since) {
			out = append(out, sale)
		}
	}
	return out, nil
}

type fakeDecisionRepo struct {
	decisions    []domain.AgentDecision
	priceChanges []domain.PriceChange
	history      []domain.PriceChange
	failWrites   bool
}

func (f *fakeDecisionRepo) CreateDecision(_ context.Context, d *domain.AgentDecision) error {
	if f.failWrites {
		return domain.ErrUpstreamUnavailable
	}
	f.decisions = append(f.decisions, *d)
	return nil
}

func (f *fakeDecisionRepo) CreatePriceChange(_ context.Context, change *domain.PriceChange) error {
	if f.failWrites {
		return domain.ErrUpstreamUnavailable
	}
	f.priceChanges = append(f.priceChanges, *change)
	return nil
}

func (f *fakeDecisionRepo) ListDecisions(_ context.Context, productID string, limit int) ([]domain.AgentDecision, error) {
	var out []domain.AgentDecision
	for i := len(f.decisions) - 1; i >= 0 && len(out) < limit; i-- {
		if f.decisions[i].ProductID == productID {
			out = append(out, f.decisions[i])
		}
	}
	return out, nil
}

func (f *fakeDecisionRepo) ListPriceChangesSince(_ context.Context, productID string, since time.Time) ([]domain.PriceChange, error) {
	var out []domain.PriceChange
	for _, change := range f.history {
		if change.ProductID == productID && !change.CreatedAt.Before(since) {
			out = append(out, change)
		}
	}
	return out, nil
}

type fakeCompetitorAnalyzer struct {
	result competitor.AnalysisResult
	err    error
}

func (f *fakeCompetitorAnalyzer) Analyze(_ context.Context, _ string) (competitor.AnalysisResult, error) {
	return f.result, f.err
}

type fakeDemandAnalyzer struct {
	result demand.ScoreResult
	err    error
}

func (f *fakeDemandAnalyzer) DemandScore(_ context.Context, _ string) (demand.ScoreResult, error) {
	return f.result, f.err
}

type fakeInventoryAnalyzer struct {
	result inventory.HealthResult
	err    error
}

func (f *fakeInventoryAnalyzer) AnalyzeHealth(_ context.Context, _ string) (inventory.HealthResult, error) {
	return f.result, f.err
}

type publishedSignal struct {
	topic string
	env   domain.SignalEnvelope
}

type fakeBus struct {
	published []publishedSignal
}

func (f *fakeBus) Publish(_ context.Context, topic string, env domain.SignalEnvelope) error {
	f.published = append(f.published, publishedSignal{topic: topic, env: env})
	return nil
}

type fakeNotifier struct {
	alerts []string
}

func (f *fakeNotifier) SendAlert(_ context.Context, severity, component, message, _ string) error {
	f.alerts = append(f.alerts, severity+"/"+component+": "+message)
	return nil
}

type pricingFixture struct {
	svc            *PricingService
	productRepo    *fakeProductRepo
	competitorRepo *fakeCompetitorRepo
	salesRepo      *fakeSalesRepo
	decisionRepo   *fakeDecisionRepo
	competitorSvc  *fakeCompetitorAnalyzer
	demandSvc      *fakeDemandAnalyzer
	inventorySvc   *fakeInventoryAnalyzer
	bus            *fakeBus
	notifier       *fakeNotifier
}

func newFixture(products map[string]domain.Product) *pricingFixture {
	f := &pricingFixture{
		productRepo:    &fakeProductRepo{products: products, priceUpdates: map[string]float64{}},
		competitorRepo: &fakeCompetitorRepo{},
		salesRepo:      &fakeSalesRepo{},
		decisionRepo:   &fakeDecisionRepo{},
		competitorSvc:  &fakeCompetitorAnalyzer{err: domain.ErrNoRecentData},
		demandSvc:      &fakeDemandAnalyzer{},
		inventorySvc:   &fakeInventoryAnalyzer{},
		bus:            &fakeBus{},
		notifier:       &fakeNotifier{},
	}
	f.svc = NewPricingService(
		f.productRepo, f.competitorRepo, f.salesRepo, f.decisionRepo,
		f.competitorSvc, f.demandSvc, f.inventorySvc,
		f.bus, f.notifier,
	)
	return f
}

// ---- Elasticity ----

func TestPriceElasticityInsufficientData(t *testing.T) {
	f := newFixture(map[string]domain.Product{"P1001": {ID: "P1001"}})
	f.decisionRepo.history = []domain.PriceChange{
		{ProductID: "P1001", NewPrice: 100, CreatedAt: time.Now().AddDate(0, 0, -5)},
	}

	result, err := f.svc.PriceElasticity(context.Background(), "P1001", 30)
	require.NoError(t, err)

	assert.InDelta(t, -1.0, result.Elasticity, 1e-9)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.Equal(t, 1, result.DataPoints)
	assert.Equal(t, "Insufficient data for accurate elasticity calculation", result.Message)
}

func TestPriceElasticityComputed(t *testing.T) {
	f := newFixture(map[string]domain.Product{"P1001": {ID: "P1001"}})
	now := time.Now()
	f.decisionRepo.history = []domain.PriceChange{
		{ProductID: "P1001", NewPrice: 100, CreatedAt: now.AddDate(0, 0, -10)},
		{ProductID: "P1001", NewPrice: 110, CreatedAt: now.AddDate(0, 0, -5)},
	}
	f.salesRepo.sales = []domain.SaleEvent{
		{ProductID: "P1001", QuantitySold: 10, SaleDate: now.AddDate(0, 0, -10)},
		{ProductID: "P1001", QuantitySold: 8, SaleDate: now.AddDate(0, 0, -5)},
	}

	result, err := f.svc.PriceElasticity(context.Background(), "P1001", 30)
	require.NoError(t, err)

	// +10% price, -20% quantity -> elasticity -2.0 from one usable pair.
	assert.InDelta(t, -2.0, result.Elasticity, 1e-9)
	assert.InDelta(t, 0.1, result.Confidence, 1e-9)
	assert.Equal(t, 2, result.DataPoints)
	assert.Equal(t, 1, result.PriceChanges)
	assert.Equal(t, "Elasticity calculated successfully", result.Message)
}

func TestPriceElasticityNoPriceMoves(t *testing.T) {
	f := newFixture(map[string]domain.Product{"P1001": {ID: "P1001"}})
	now := time.Now()
	f.decisionRepo.history = []domain.PriceChange{
		{ProductID: "P1001", NewPrice: 100, CreatedAt: now.AddDate(0, 0, -10)},
		{ProductID: "P1001", NewPrice: 100, CreatedAt: now.AddDate(0, 0, -5)},
	}
	f.salesRepo.sales = []domain.SaleEvent{
		{ProductID: "P1001", QuantitySold: 10, SaleDate: now.AddDate(0, 0, -10)},
		{ProductID: "P1001", QuantitySold: 12, SaleDate: now.AddDate(0, 0, -5)},
	}

	result, err := f.svc.PriceElasticity(context.Background(), "P1001", 30)
	require.NoError(t, err)

	assert.InDelta(t, -1.0, result.Elasticity, 1e-9)
	assert.Equal(t, "No price changes detected in the period", result.Message)
}

func TestPriceElasticityBoundedPairing(t *testing.T) {
	f := newFixture(map[string]domain.Product{"P1001": {ID: "P1001"}})
	now := time.Now()
	f.decisionRepo.history = []domain.PriceChange{
		{ProductID: "P1001", NewPrice: 100, CreatedAt: now.AddDate(0, 0, -15)},
		{ProductID: "P1001", NewPrice: 120, CreatedAt: now.AddDate(0, 0, -10)},
		{ProductID: "P1001", NewPrice: 150, CreatedAt: now.AddDate(0, 0, -5)},
	}
	// Only two sales rows: the third price change has no quantity partner.
	f.salesRepo.sales = []domain.SaleEvent{
		{ProductID: "P1001", QuantitySold: 10, SaleDate: now.AddDate(0, 0, -15)},
		{ProductID: "P1001", QuantitySold: 9, SaleDate: now.AddDate(0, 0, -10)},
	}

	result, err := f.svc.PriceElasticity(context.Background(), "P1001", 30)
	require.NoError(t, err)

	// +20% price, -10% quantity -> -0.5 from the single bounded pair.
	assert.InDelta(t, -0.5, result.Elasticity, 1e-9)
	assert.Equal(t, 3, result.DataPoints)
	assert.Equal(t, 1, result.PriceChanges)
}

// ---- Optimal price ----

func TestOptimalPriceCostFloor(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", CostPrice: 50, CurrentPrice: 100, DemandScore: 0.5},
	})
	f.competitorSvc.result = competitor.AnalysisResult{CompetitorAvg: 100}
	f.competitorSvc.err = nil

	result, err := f.svc.OptimalPrice(context.Background(), "P1001")
	require.NoError(t, err)

	assert.InDelta(t, 100.0, result.CurrentPrice, 1e-9)
	assert.InDelta(t, 60.0, result.MinPrice, 1e-9)
	assert.InDelta(t, 60.0, result.OptimalPrice, 1e-9)
	assert.InDelta(t, -40.0, result.PriceChangePercent, 1e-9)
	assert.Equal(t, "decrease", result.Recommendation)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
	assert.InDelta(t, 1.0, result.Factors.DemandAdjustment, 1e-9)
	assert.InDelta(t, 1.0, result.Factors.CompetitionAdjustment, 1e-9)
	assert.InDelta(t, 1.0, result.Factors.ElasticityAdjustment, 1e-9)
}

func TestOptimalPriceDemandPush(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", CostPrice: 50, CurrentPrice: 60, DemandScore: 0.9, PriceElasticity: -2},
	})
	f.competitorSvc.result = competitor.AnalysisResult{CompetitorAvg: 66}
	f.competitorSvc.err = nil

	result, err := f.svc.OptimalPrice(context.Background(), "P1001")
	require.NoError(t, err)

	assert.InDelta(t, 1.08, result.Factors.DemandAdjustment, 1e-9)
	assert.InDelta(t, 1.1, result.Factors.CompetitionAdjustment, 1e-9)
	assert.InDelta(t, 0.95, result.Factors.ElasticityAdjustment, 1e-9)
	assert.InDelta(t, 67.72, result.OptimalPrice, 0.001)
	assert.InDelta(t, 12.9, result.PriceChangePercent, 0.001)
	assert.Equal(t, "increase", result.Recommendation)
}

func TestOptimalPriceCompetitorFallback(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", CostPrice: 50, CurrentPrice: 100, DemandScore: 0.5},
	})
	// Default analyzer error: market reference degrades to our own price.
	result, err := f.svc.OptimalPrice(context.Background(), "P1001")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.Factors.CompetitionAdjustment, 1e-9)
	assert.InDelta(t, 60.0, result.OptimalPrice, 1e-9)
}

func TestOptimalPriceUnknownProduct(t *testing.T) {
	f := newFixture(map[string]domain.Product{})
	_, err := f.svc.OptimalPrice(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Recommendations ----

func TestRecommendationsIncrease(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", CostPrice: 100, CurrentPrice: 100},
	})
	f.competitorSvc.result = competitor.AnalysisResult{
		CompetitorAvg:  100,
		Recommendation: "consider_price_increase",
	}
	f.competitorSvc.err = nil

	result, err := f.svc.Recommendations(context.Background(), "P1001")
	require.NoError(t, err)

	assert.Equal(t, "increase_price", result.OverallRecommendation)
	assert.Equal(t, []string{
		"Optimal price analysis suggests price increase",
		"Competitor analysis suggests potential price increase",
	}, result.Reasoning)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)

	require.NotNil(t, result.ElasticityAnalysis)
	assert.InDelta(t, -1.0, result.ElasticityAnalysis.Elasticity, 1e-9)
	require.NotNil(t, result.OptimalPriceAnalysis)
	assert.Equal(t, "increase", result.OptimalPriceAnalysis.Recommendation)
	require.NotNil(t, result.CompetitorAnalysis)
}

func TestRecommendationsDegradedCompetitor(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", CostPrice: 50, CurrentPrice: 100, DemandScore: 0.5},
	})

	result, err := f.svc.Recommendations(context.Background(), "P1001")
	require.NoError(t, err)

	assert.Nil(t, result.CompetitorAnalysis)
	require.NotNil(t, result.OptimalPriceAnalysis)
	assert.Equal(t, "decrease_price", result.OverallRecommendation)
	assert.Equal(t, []string{"Optimal price analysis suggests price decrease"}, result.Reasoning)
}

func TestRecommendationsUnknownProduct(t *testing.T) {
	f := newFixture(map[string]domain.Product{})
	_, err := f.svc.Recommendations(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ExecuteDecision ----

func TestExecuteDecisionAppliesAndAudits(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", BasePrice: 100, CurrentPrice: 100, CostPrice: 50, DemandScore: 0.9, StockLevel: 3},
	})
	f.competitorRepo.observations = []domain.CompetitorObservation{
		{ProductID: "P1001", CompetitorPrice: 95},
		{ProductID: "P1001", CompetitorPrice: 105},
	}
	f.competitorSvc.result = competitor.AnalysisResult{CompetitorAvg: 100, Recommendation: "maintain_current_price"}
	f.competitorSvc.err = nil
	f.demandSvc.result = demand.ScoreResult{ProductID: "P1001", DemandScore: 0.9}
	f.inventorySvc.result = inventory.HealthResult{ProductID: "P1001", CurrentStock: 3, Status: "critical_low"}

	result, err := f.svc.ExecuteDecision(context.Background(), "P1001", nil)
	require.NoError(t, err)

	assert.InDelta(t, 115.50, result.NewPrice, 1e-9)
	assert.InDelta(t, 100.0, result.OldPrice, 1e-9)
	assert.InDelta(t, 15.5, result.PriceChangePercent, 1e-9)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	assert.InDelta(t, 115.50, f.productRepo.priceUpdates["P1001"], 1e-9)

	assert.Contains(t, result.Reflection, "Significant price increase implemented.")
	assert.Contains(t, result.Reflection, "Large price increase may impact customer perception and sales volume. Monitor closely.")
	assert.Contains(t, result.Reflection, "The decision benefited from comprehensive demand and inventory analysis.")
	assert.Contains(t, result.Reflection, "Pricing recommendations were incorporated into the decision-making process.")

	require.Len(t, f.decisionRepo.priceChanges, 1)
	change := f.decisionRepo.priceChanges[0]
	assert.InDelta(t, 100.0, change.OldPrice, 1e-9)
	assert.InDelta(t, 115.50, change.NewPrice, 1e-9)
	assert.InDelta(t, 15.5, change.ChangePercent, 1e-9)
	assert.Equal(t, "Automated pricing decision with comprehensive analysis", change.ChangeReason)
	assert.Equal(t, domain.AgentPricing, change.AgentName)
	assert.InDelta(t, 0.95, change.ConfidenceScore, 1e-9)

	require.Len(t, f.decisionRepo.decisions, 1)
	decision := f.decisionRepo.decisions[0]
	assert.Equal(t, "price_update", decision.DecisionType)
	assert.Equal(t, domain.AgentPricing, decision.AgentName)
	assert.Equal(t, "Price updated from $100.00 to $115.50 based on comprehensive market analysis", decision.Explanation)
	assert.InDelta(t, 0.9, decision.InputData["demand_score"].(float64), 1e-9)
	assert.InDelta(t, 100.0, decision.InputData["base_price"].(float64), 1e-9)
	assert.InDelta(t, 115.5, decision.OutputData["new_price"].(float64), 1e-9)
	assert.NotEmpty(t, decision.ReasoningChain)

	require.Len(t, f.bus.published, 1)
	published := f.bus.published[0]
	assert.Equal(t, domain.TopicPriceDecision, published.topic)
	assert.Equal(t, domain.TopicPriceDecision, published.env.Type)
	assert.Equal(t, domain.AgentPricing, published.env.Agent)

	var signal domain.DecisionSignal
	require.NoError(t, json.Unmarshal(published.env.Payload, &signal))
	assert.Equal(t, "P1001", signal.ProductID)
	assert.InDelta(t, 115.50, signal.NewPrice, 1e-9)
	assert.InDelta(t, 1.10, signal.DemandFactor, 1e-9)
}

func TestExecuteDecisionUsesCorrelatedSignals(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", BasePrice: 100, DemandScore: 0.9, StockLevel: 3},
	})

	signals := &domain.SignalSet{
		Competitor: &domain.CompetitorSignal{ProductID: "P1001", CompetitorPrices: []float64{200}},
		Demand:     &domain.DemandSignal{ProductID: "P1001", DemandScore: 0.5},
		Inventory:  &domain.InventorySignal{ProductID: "P1001", StockLevel: 60},
	}

	result, err := f.svc.ExecuteDecision(context.Background(), "P1001", signals)
	require.NoError(t, err)

	// Signal values override the stale store state (0.9 demand, 3 units).
	assert.InDelta(t, 1.0, result.Factors.Demand, 1e-9)
	assert.InDelta(t, 0.98, result.Factors.Inventory, 1e-9)
	assert.InDelta(t, 1.05, result.Factors.Competitor, 1e-9)
	assert.InDelta(t, 102.9, result.NewPrice, 1e-9)
	assert.Zero(t, f.competitorRepo.calls)

	// No previous price: change percent stays zero.
	assert.Zero(t, result.OldPrice)
	assert.Zero(t, result.PriceChangePercent)
}

func TestExecuteDecisionStoreFallbackDemandDefault(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", BasePrice: 100, StockLevel: 20},
	})

	result, err := f.svc.ExecuteDecision(context.Background(), "P1001", nil)
	require.NoError(t, err)

	// Unset demand score defaults to 0.5: the moderate branch.
	assert.InDelta(t, 1.0, result.Factors.Demand, 1e-9)
	assert.Contains(t, result.ReasoningChain, "Moderate demand - maintaining current pricing strategy")
}

func TestExecuteDecisionUnknownProduct(t *testing.T) {
	f := newFixture(map[string]domain.Product{})
	_, err := f.svc.ExecuteDecision(context.Background(), "ghost", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.bus.published)
}

func TestExecuteDecisionInvalidBasePrice(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", BasePrice: 0, StockLevel: 10},
	})

	_, err := f.svc.ExecuteDecision(context.Background(), "P1001", nil)
	assert.ErrorIs(t, err, domain.ErrComputation)
	assert.Empty(t, f.productRepo.priceUpdates)
	assert.Empty(t, f.bus.published)
}

func TestExecuteDecisionAuditFailureDoesNotBlock(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", BasePrice: 100, CurrentPrice: 100, StockLevel: 20, DemandScore: 0.5},
	})
	f.decisionRepo.failWrites = true

	result, err := f.svc.ExecuteDecision(context.Background(), "P1001", nil)
	require.NoError(t, err)

	// Price is applied and announced even though both audit writes failed.
	assert.InDelta(t, 100.0, f.productRepo.priceUpdates["P1001"], 1e-9)
	require.Len(t, f.bus.published, 1)
	assert.InDelta(t, 100.0, result.NewPrice, 1e-9)

	require.Len(t, f.notifier.alerts, 2)
	assert.Contains(t, f.notifier.alerts[0], "critical/pricing")
}

func TestExecuteDecisionUpdateFailure(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", BasePrice: 100, StockLevel: 20},
	})
	f.productRepo.failUpdate = true

	_, err := f.svc.ExecuteDecision(context.Background(), "P1001", nil)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Empty(t, f.decisionRepo.priceChanges)
	assert.Empty(t, f.bus.published)
}

func TestExecuteDecisionDegradedAnalyses(t *testing.T) {
	f := newFixture(map[string]domain.Product{
		"P1001": {ID: "P1001", BasePrice: 100, CurrentPrice: 100, StockLevel: 20, DemandScore: 0.5},
	})
	f.demandSvc.err = domain.ErrInsufficientData
	f.inventorySvc.err = domain.ErrNotFound

	result, err := f.svc.ExecuteDecision(context.Background(), "P1001", nil)
	require.NoError(t, err)

	assert.Nil(t, result.DemandAnalysis)
	assert.Nil(t, result.InventoryAnalysis)
	assert.NotContains(t, result.Reflection, "The decision benefited from comprehensive demand and inventory analysis.")
	assert.InDelta(t, 100.0, f.productRepo.priceUpdates["P1001"], 1e-9)
}

func TestExecuteDecisionContextCancelled(t *testing.T) {
	f := newFixture(map[string]domain.Product{"P1001": {ID: "P1001", BasePrice: 100}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.ExecuteDecision(ctx, "P1001", nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

// ---- audit read tests ----

func TestDecisionHistoryNewestFirstWithLimit(t *testing.T) {
	f := newFixture(nil)
	f.decisionRepo.decisions = []domain.AgentDecision{
		{ProductID: "P1001", DecisionType: "price_update", ConfidenceScore: 0.95},
		{ProductID: "P2002", DecisionType: "price_update", ConfidenceScore: 0.95},
		{ProductID: "P1001", DecisionType: "price_update", ConfidenceScore: 0.90},
		{ProductID: "P1001", DecisionType: "price_update", ConfidenceScore: 0.85},
	}

	decisions, err := f.svc.DecisionHistory(context.Background(), "P1001", 2)
	require.NoError(t, err)

	require.Len(t, decisions, 2)
	assert.Equal(t, 0.85, decisions[0].ConfidenceScore)
	assert.Equal(t, 0.90, decisions[1].ConfidenceScore)
}

func TestDecisionHistoryDefaultLimit(t *testing.T) {
	f := newFixture(nil)
	for i := 0; i < 25; i++ {
		f.decisionRepo.decisions = append(f.decisionRepo.decisions,
			domain.AgentDecision{ProductID: "P1001", DecisionType: "price_update"})
	}

	decisions, err := f.svc.DecisionHistory(context.Background(), "P1001", 0)
	require.NoError(t, err)
	assert.Len(t, decisions, 20)
}

func TestPriceChangesWindow(t *testing.T) {
	f := newFixture(nil)
	now := time.Now()
	f.decisionRepo.history = []domain.PriceChange{
		{ProductID: "P1001", OldPrice: 100, NewPrice: 105, CreatedAt: now.AddDate(0, 0, -40)},
		{ProductID: "P1001", OldPrice: 105, NewPrice: 110, CreatedAt: now.AddDate(0, 0, -10)},
		{ProductID: "P2002", OldPrice: 50, NewPrice: 55, CreatedAt: now.AddDate(0, 0, -5)},
	}

	changes, err := f.svc.PriceChanges(context.Background(), "P1001", 30)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, 110.0, changes[0].NewPrice)
}

func TestPriceChangesDefaultWindow(t *testing.T) {
	f := newFixture(nil)
	now := time.Now()
	f.decisionRepo.history = []domain.PriceChange{
		{ProductID: "P1001", NewPrice: 110, CreatedAt: now.AddDate(0, 0, -10)},
		{ProductID: "P1001", NewPrice: 120, CreatedAt: now.AddDate(0, 0, -45)},
	}

	changes, err := f.svc.PriceChanges(context.Background(), "P1001", 0)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, 110.0, changes[0].NewPrice)
}
