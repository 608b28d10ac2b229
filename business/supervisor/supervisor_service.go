package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dynamicPricing/business/competitor"
	"dynamicPricing/business/demand"
	"dynamicPricing/business/inventory"
	"dynamicPricing/domain"
	"dynamicPricing/pkg/logger"
	"dynamicPricing/pkg/metrics"

	"github.com/google/uuid"
)

const recheckInterval = time.Minute

// ---- Repository interfaces ----

type ProductRepository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
}

type CompetitorRepository interface {
	ListSince(ctx context.Context, productID string, since time.Time) ([]domain.CompetitorObservation, error)
}

// ---- Agent analyzers ----

type DemandAnalyzer interface {
	Analyze(ctx context.Context, productID string) (demand.AnalysisResult, error)
}

type InventoryAnalyzer interface {
	Analyze(ctx context.Context, productID string) (inventory.AnalysisResult, error)
}

type CompetitorAnalyzer interface {
	Analyze(ctx context.Context, productID string) (competitor.AnalysisResult, error)
}

// ---- Outbound ports ----

type Publisher interface {
	Publish(ctx context.Context, topic string, env domain.SignalEnvelope) error
}

type Notifier interface {
	SendAlert(ctx context.Context, severity, component, message, detail string) error
}

// ---- Service ----

// SupervisorService orchestrates pricing cycles: it runs the three analyses
// per product and publishes their signals, leaving the actual decision to
// the correlator once the triple lands. Cycle state lives in memory; a
// restart starts counting from cycle one again.
type SupervisorService struct {
	productRepo    ProductRepository
	competitorRepo CompetitorRepository

	demandSvc     DemandAnalyzer
	inventorySvc  InventoryAnalyzer
	competitorSvc CompetitorAnalyzer

	bus      Publisher
	notifier Notifier

	interval time.Duration

	mu         sync.Mutex
	cycleCount int
	lastCycle  time.Time
}

func NewSupervisorService(
	productRepo ProductRepository,
	competitorRepo CompetitorRepository,
	demandSvc DemandAnalyzer,
	inventorySvc InventoryAnalyzer,
	competitorSvc CompetitorAnalyzer,
	bus Publisher,
	notifier Notifier,
	interval time.Duration,
) *SupervisorService {
	return &SupervisorService{
		productRepo:    productRepo,
		competitorRepo: competitorRepo,
		demandSvc:      demandSvc,
		inventorySvc:   inventorySvc,
		competitorSvc:  competitorSvc,
		bus:            bus,
		notifier:       notifier,
		interval:       interval,
	}
}

// ProductCycleResult summarizes one product's pass through a cycle.
type ProductCycleResult struct {
	ProductID          string    `json:"product_id"`
	Status             string    `json:"status"`
	DemandScore        float64   `json:"demand_score,omitempty"`
	InventoryStatus    string    `json:"inventory_status,omitempty"`
	CompetitorPosition string    `json:"competitor_position,omitempty"`
	Error              string    `json:"error,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// CycleResult is the published record of one full pricing cycle.
type CycleResult struct {
	CycleID       string               `json:"cycle_id"`
	CycleNumber   int                  `json:"cycle_number"`
	StartedAt     time.Time            `json:"started_at"`
	CompletedAt   time.Time            `json:"completed_at"`
	Duration      string               `json:"duration"`
	Products      []ProductCycleResult `json:"products"`
	OverallStatus string               `json:"overall_status"`
}

// RunCycle runs one pricing cycle over the given products, or over every
// product when none are named. A failing product is recorded and skipped;
// it never aborts the rest of the cycle. The cycle result is published on
// the cycle-completed topic for anyone watching.
func (s *SupervisorService) RunCycle(ctx context.Context, productIDs []string) (CycleResult, error) {
	if err := ctx.Err(); err != nil {
		return CycleResult{}, fmt.Errorf("context error: %w", err)
	}

	if len(productIDs) == 0 {
		products, err := s.productRepo.FindAll(ctx)
		if err != nil {
			return CycleResult{}, fmt.Errorf("list products for cycle: %w", err)
		}
		for _, product := range products {
			productIDs = append(productIDs, product.ID)
		}
	}

	s.mu.Lock()
	s.cycleCount++
	number := s.cycleCount
	s.mu.Unlock()

	result := CycleResult{
		CycleID:       uuid.NewString(),
		CycleNumber:   number,
		StartedAt:     time.Now(),
		Products:      make([]ProductCycleResult, 0, len(productIDs)),
		OverallStatus: "completed",
	}

	logger.Info("Starting pricing cycle",
		"agent", domain.AgentSupervisor,
		"cycle", number,
		"products", len(productIDs),
	)

	for _, productID := range productIDs {
		productResult := s.processProduct(ctx, productID)
		result.Products = append(result.Products, productResult)
		if productResult.Status == "error" {
			result.OverallStatus = "completed_with_errors"
		}
	}

	s.mu.Lock()
	s.lastCycle = time.Now()
	s.mu.Unlock()

	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt).String()

	if env, err := domain.NewSignalEnvelope(domain.TopicCycleCompleted, domain.AgentSupervisor, result); err != nil {
		logger.Error("Cycle envelope marshal failed", "cycle", number, "error", err)
	} else if err := s.bus.Publish(ctx, domain.TopicCycleCompleted, env); err != nil {
		logger.Error("Cycle completion publish failed", "cycle", number, "error", err)
	}

	metrics.CycleTotal.Inc()
	logger.Info("Pricing cycle completed",
		"agent", domain.AgentSupervisor,
		"cycle", number,
		"status", result.OverallStatus,
		"duration", result.Duration,
	)

	return result, nil
}

// processProduct runs the three analyses for one product and publishes each
// signal as it lands. Stale competitor data is expected for quiet products:
// it publishes the maintain recommendation instead of failing the product.
func (s *SupervisorService) processProduct(ctx context.Context, productID string) ProductCycleResult {
	result := ProductCycleResult{
		ProductID: productID,
		Status:    "success",
		Timestamp: time.Now(),
	}

	demandAnalysis, err := s.demandSvc.Analyze(ctx, productID)
	if err != nil {
		return s.failProduct(result, "demand analysis", err)
	}
	result.DemandScore = demandAnalysis.ScoreAnalysis.DemandScore
	if err := s.publish(ctx, domain.TopicDemandScore, domain.AgentDemand, demandAnalysis.Signal()); err != nil {
		return s.failProduct(result, "demand signal publish", err)
	}

	inventoryAnalysis, err := s.inventorySvc.Analyze(ctx, productID)
	if err != nil {
		return s.failProduct(result, "inventory analysis", err)
	}
	result.InventoryStatus = inventoryAnalysis.Health.Status
	if err := s.publish(ctx, domain.TopicInventoryUpdate, domain.AgentInventory, inventoryAnalysis.Signal()); err != nil {
		return s.failProduct(result, "inventory signal publish", err)
	}

	competitorAnalysis, err := s.competitorSvc.Analyze(ctx, productID)
	if err != nil {
		if !errors.Is(err, domain.ErrNoRecentData) {
			return s.failProduct(result, "competitor analysis", err)
		}
		logger.Warn("No recent competitor data, publishing maintain recommendation",
			"agent", domain.AgentSupervisor, "productID", productID)
	}
	result.CompetitorPosition = competitorAnalysis.PricePosition
	if err := s.publish(ctx, domain.TopicCompetitorData, domain.AgentCompetitor, competitorAnalysis.Signal()); err != nil {
		return s.failProduct(result, "competitor signal publish", err)
	}

	return result
}

func (s *SupervisorService) failProduct(result ProductCycleResult, stage string, err error) ProductCycleResult {
	logger.Error("Cycle step failed",
		"agent", domain.AgentSupervisor,
		"productID", result.ProductID,
		"stage", stage,
		"error", err,
	)
	result.Status = "error"
	result.Error = fmt.Sprintf("%s: %v", stage, err)
	return result
}

func (s *SupervisorService) publish(ctx context.Context, topic, agent string, payload any) error {
	env, err := domain.NewSignalEnvelope(topic, agent, payload)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", topic, err)
	}
	if err := s.bus.Publish(ctx, topic, env); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// ShouldRunCycle gates cycle frequency: true when no cycle has run yet or
// the configured interval has elapsed since the last one.
func (s *SupervisorService) ShouldRunCycle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastCycle.IsZero() {
		return true
	}
	return time.Since(s.lastCycle) >= s.interval
}

// RunContinuous re-checks the cycle gate every minute and runs a full cycle
// over all products whenever it opens. Blocks until ctx ends; meant to run
// on its own goroutine.
func (s *SupervisorService) RunContinuous(ctx context.Context) {
	logger.Info("Starting continuous monitoring",
		"agent", domain.AgentSupervisor,
		"interval", s.interval.String(),
	)

	ticker := time.NewTicker(recheckInterval)
	defer ticker.Stop()

	for {
		if s.ShouldRunCycle() {
			if _, err := s.RunCycle(ctx, nil); err != nil {
				logger.Error("Pricing cycle failed", "agent", domain.AgentSupervisor, "error", err)
				if s.notifier != nil {
					if alertErr := s.notifier.SendAlert(ctx, "critical", "supervisor",
						"pricing cycle failed", err.Error()); alertErr != nil {
						logger.Error("Alert delivery failed", "error", alertErr)
					}
				}
			}
		}

		select {
		case <-ctx.Done():
			logger.Info("Continuous monitoring stopped", "agent", domain.AgentSupervisor)
			return
		case <-ticker.C:
		}
	}
}

// HistoryEntry is one competitor observation in a product's pricing history.
type HistoryEntry struct {
	CompetitorName  string    `json:"competitor_name"`
	CompetitorPrice float64   `json:"competitor_price"`
	ScrapedAt       time.Time `json:"scraped_at"`
}

// PricingHistory lists a product's competitor observations over the window,
// newest first.
func (s *SupervisorService) PricingHistory(ctx context.Context, productID string, days int) ([]HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	since := time.Now().AddDate(0, 0, -days)
	observations, err := s.competitorRepo.ListSince(ctx, productID, since)
	if err != nil {
		return nil, fmt.Errorf("load pricing history for product %s: %w", productID, err)
	}

	history := make([]HistoryEntry, 0, len(observations))
	for i := len(observations) - 1; i >= 0; i-- {
		history = append(history, HistoryEntry{
			CompetitorName:  observations[i].CompetitorName,
			CompetitorPrice: observations[i].CompetitorPrice,
			ScrapedAt:       observations[i].ScrapedAt,
		})
	}

	return history, nil
}
