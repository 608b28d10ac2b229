package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dynamicPricing/business/pricing"
	"dynamicPricing/business/supervisor"
	"dynamicPricing/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakePricingService struct {
	decision   pricing.DecisionResult
	optimal    pricing.OptimalPriceResult
	recs       pricing.RecommendationsResult
	elasticity pricing.ElasticityResult
	decisions  []domain.AgentDecision
	changes    []domain.PriceChange
	err        error

	gotProductID string
	gotDays      int
	gotLimit     int
}

func (f *fakePricingService) ExecuteDecision(_ context.Context, productID string, _ *domain.SignalSet) (pricing.DecisionResult, error) {
	f.gotProductID = productID
	return f.decision, f.err
}

func (f *fakePricingService) OptimalPrice(_ context.Context, productID string) (pricing.OptimalPriceResult, error) {
	f.gotProductID = productID
	return f.optimal, f.err
}

func (f *fakePricingService) Recommendations(_ context.Context, productID string) (pricing.RecommendationsResult, error) {
	f.gotProductID = productID
	return f.recs, f.err
}

func (f *fakePricingService) PriceElasticity(_ context.Context, productID string, days int) (pricing.ElasticityResult, error) {
	f.gotProductID = productID
	f.gotDays = days
	return f.elasticity, f.err
}

func (f *fakePricingService) DecisionHistory(_ context.Context, productID string, limit int) ([]domain.AgentDecision, error) {
	f.gotProductID = productID
	f.gotLimit = limit
	return f.decisions, f.err
}

func (f *fakePricingService) PriceChanges(_ context.Context, productID string, days int) ([]domain.PriceChange, error) {
	f.gotProductID = productID
	f.gotDays = days
	return f.changes, f.err
}

type fakeCycleRunner struct {
	cycle   supervisor.CycleResult
	history []supervisor.HistoryEntry
	err     error

	gotIDs  []string
	gotDays int
}

func (f *fakeCycleRunner) RunCycle(_ context.Context, productIDs []string) (supervisor.CycleResult, error) {
	f.gotIDs = productIDs
	return f.cycle, f.err
}

func (f *fakeCycleRunner) PricingHistory(_ context.Context, productID string, days int) ([]supervisor.HistoryEntry, error) {
	f.gotDays = days
	return f.history, f.err
}

type pricingHandlerFixture struct {
	pricingSvc  *fakePricingService
	cycleRunner *fakeCycleRunner
	handler     *PricingHandler
}

func newPricingFixture() *pricingHandlerFixture {
	f := &pricingHandlerFixture{
		pricingSvc:  &fakePricingService{},
		cycleRunner: &fakeCycleRunner{},
	}
	f.handler = NewPricingHandler(f.pricingSvc, f.cycleRunner)
	return f
}

func newEchoContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// ---- cycle trigger ----

func TestRunCycleEndpoint(t *testing.T) {
	f := newPricingFixture()
	f.cycleRunner.cycle = supervisor.CycleResult{
		CycleID:       "0b7a9f3e",
		CycleNumber:   1,
		OverallStatus: "completed",
	}

	c, rec := newEchoContext(http.MethodPost, "/api/v1/pricing/cycle", `{"product_ids":["P1001","P2002"]}`)
	require.NoError(t, f.handler.RunCycle(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"P1001", "P2002"}, f.cycleRunner.gotIDs)
	assert.Contains(t, rec.Body.String(), "0b7a9f3e")
	assert.Contains(t, rec.Body.String(), "completed")
}

func TestRunCycleEndpointNoBody(t *testing.T) {
	f := newPricingFixture()
	f.cycleRunner.cycle = supervisor.CycleResult{OverallStatus: "completed"}

	c, rec := newEchoContext(http.MethodPost, "/api/v1/pricing/cycle", "")
	require.NoError(t, f.handler.RunCycle(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.cycleRunner.gotIDs)
}

func TestRunCycleEndpointMalformedBody(t *testing.T) {
	f := newPricingFixture()

	c, rec := newEchoContext(http.MethodPost, "/api/v1/pricing/cycle", `{"product_ids": "oops"}`)
	require.NoError(t, f.handler.RunCycle(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunCycleEndpointFailure(t *testing.T) {
	f := newPricingFixture()
	f.cycleRunner.err = domain.ErrUpstreamUnavailable

	c, rec := newEchoContext(http.MethodPost, "/api/v1/pricing/cycle", "")
	require.NoError(t, f.handler.RunCycle(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ---- manual decision ----

func TestExecuteDecisionEndpoint(t *testing.T) {
	f := newPricingFixture()
	f.pricingSvc.decision = pricing.DecisionResult{
		ProductID:          "P1001",
		OldPrice:           100,
		NewPrice:           115.5,
		PriceChangePercent: 15.5,
		Confidence:         0.95,
	}

	c, rec := newEchoContext(http.MethodPost, "/api/v1/pricing/decisions/P1001", "")
	c.SetPath("/api/v1/pricing/decisions/:id")
	c.SetParamNames("id")
	c.SetParamValues("P1001")
	require.NoError(t, f.handler.ExecuteDecision(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "P1001", f.pricingSvc.gotProductID)
	assert.Contains(t, rec.Body.String(), "115.5")
}

func TestExecuteDecisionEndpointNotFound(t *testing.T) {
	f := newPricingFixture()
	f.pricingSvc.err = domain.ErrNotFound

	c, rec := newEchoContext(http.MethodPost, "/api/v1/pricing/decisions/P9999", "")
	c.SetPath("/api/v1/pricing/decisions/:id")
	c.SetParamNames("id")
	c.SetParamValues("P9999")
	require.NoError(t, f.handler.ExecuteDecision(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "product not found")
}

func TestExecuteDecisionEndpointFailure(t *testing.T) {
	f := newPricingFixture()
	f.pricingSvc.err = domain.ErrComputation

	c, rec := newEchoContext(http.MethodPost, "/api/v1/pricing/decisions/P1001", "")
	c.SetPath("/api/v1/pricing/decisions/:id")
	c.SetParamNames("id")
	c.SetParamValues("P1001")
	require.NoError(t, f.handler.ExecuteDecision(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ---- analysis reads ----

func TestOptimalPriceEndpoint(t *testing.T) {
	f := newPricingFixture()
	f.pricingSvc.optimal = pricing.OptimalPriceResult{
		ProductID:      "P1001",
		CurrentPrice:   100,
		OptimalPrice:   108.9,
		Recommendation: "increase",
	}

	c, rec := newEchoContext(http.MethodGet, "/api/v1/pricing/optimal/P1001", "")
	c.SetPath("/api/v1/pricing/optimal/:id")
	c.SetParamNames("id")
	c.SetParamValues("P1001")
	require.NoError(t, f.handler.OptimalPrice(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "108.9")
	assert.Contains(t, rec.Body.String(), "increase")
}

func TestRecommendationsEndpointNotFound(t *testing.T) {
	f := newPricingFixture()
	f.pricingSvc.err = domain.ErrNotFound

	c, rec := newEchoContext(http.MethodGet, "/api/v1/pricing/recommendations/P9999", "")
	c.SetPath("/api/v1/pricing/recommendations/:id")
	c.SetParamNames("id")
	c.SetParamValues("P9999")
	require.NoError(t, f.handler.Recommendations(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestElasticityEndpointDefaultDays(t *testing.T) {
	f := newPricingFixture()
	f.pricingSvc.elasticity = pricing.ElasticityResult{ProductID: "P1001", Elasticity: -1.5}

	c, rec := newEchoContext(http.MethodGet, "/api/v1/pricing/elasticity/P1001", "")
	c.SetPath("/api/v1/pricing/elasticity/:id")
	c.SetParamNames("id")
	c.SetParamValues("P1001")
	require.NoError(t, f.handler.Elasticity(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, f.pricingSvc.gotDays)
	assert.Contains(t, rec.Body.String(), "-1.5")
}

func TestElasticityEndpointInvalidDays(t *testing.T) {
	f := newPricingFixture()

	for _, days := range []string{"abc", "-3", "0"} {
		c, rec := newEchoContext(http.MethodGet, "/api/v1/pricing/elasticity/P1001?days="+days, "")
		c.SetPath("/api/v1/pricing/elasticity/:id")
		c.SetParamNames("id")
		c.SetParamValues("P1001")
		require.NoError(t, f.handler.Elasticity(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "days=%s", days)
	}
}

// ---- audit reads ----

func TestPricingHistoryEndpoint(t *testing.T) {
	f := newPricingFixture()
	f.cycleRunner.history = []supervisor.HistoryEntry{
		{CompetitorName: "TechStore", CompetitorPrice: 94.5, ScrapedAt: time.Now()},
	}

	c, rec := newEchoContext(http.MethodGet, "/api/v1/pricing/history/P1001?days=7", "")
	c.SetPath("/api/v1/pricing/history/:id")
	c.SetParamNames("id")
	c.SetParamValues("P1001")
	require.NoError(t, f.handler.PricingHistory(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, f.cycleRunner.gotDays)
	assert.Contains(t, rec.Body.String(), "TechStore")
	assert.Contains(t, rec.Body.String(), "P1001")
}

func TestPriceChangesEndpoint(t *testing.T) {
	f := newPricingFixture()
	f.pricingSvc.changes = []domain.PriceChange{
		{ProductID: "P1001", OldPrice: 100, NewPrice: 110, ChangePercent: 10},
	}

	c, rec := newEchoContext(http.MethodGet, "/api/v1/pricing/changes/P1001", "")
	c.SetPath("/api/v1/pricing/changes/:id")
	c.SetParamNames("id")
	c.SetParamValues("P1001")
	require.NoError(t, f.handler.PriceChanges(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, f.pricingSvc.gotDays)
	assert.Contains(t, rec.Body.String(), "110")
}

func TestDecisionsEndpoint(t *testing.T) {
	f := newPricingFixture()
	f.pricingSvc.decisions = []domain.AgentDecision{
		{ProductID: "P1001", DecisionType: "price_update", ConfidenceScore: 0.95},
	}

	c, rec := newEchoContext(http.MethodGet, "/api/v1/pricing/decisions/P1001", "")
	c.SetPath("/api/v1/pricing/decisions/:id")
	c.SetParamNames("id")
	c.SetParamValues("P1001")
	require.NoError(t, f.handler.Decisions(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, f.pricingSvc.gotLimit)
	assert.Contains(t, rec.Body.String(), "price_update")
}
