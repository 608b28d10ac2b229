package pricing

import (
	"context"
	"dynamicPricing/business/competitor"
	"dynamicPricing/business/demand"
	"dynamicPricing/business/inventory"
	"dynamicPricing/domain"
	"fmt"
	"time"
)

// ---- Repository interfaces ----

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
	UpdatePrice(ctx context.Context, id string, price float64) error
}

type CompetitorRepository interface {
	FindAllByProduct(ctx context.Context, productID string) ([]domain.CompetitorObservation, error)
}

type SalesRepository interface {
	ListSince(ctx context.Context, productID string, since time.Time) ([]domain.SaleEvent, error)
}

type DecisionRepository interface {
	CreateDecision(ctx context.Context, decision *domain.AgentDecision) error
	CreatePriceChange(ctx context.Context, change *domain.PriceChange) error
	ListDecisions(ctx context.Context, productID string, limit int) ([]domain.AgentDecision, error)
	ListPriceChangesSince(ctx context.Context, productID string, since time.Time) ([]domain.PriceChange, error)
}

// ---- Sibling analyzers ----
//
// The decision path embeds the other agents' analyses in its audit trail and
// reflection. Taking them as interfaces keeps this package decoupled from the
// concrete services while reusing their result types.

type CompetitorAnalyzer interface {
	Analyze(ctx context.Context, productID string) (competitor.AnalysisResult, error)
}

type DemandAnalyzer interface {
	DemandScore(ctx context.Context, productID string) (demand.ScoreResult, error)
}

type InventoryAnalyzer interface {
	AnalyzeHealth(ctx context.Context, productID string) (inventory.HealthResult, error)
}

// ---- Outbound ports ----

type Publisher interface {
	Publish(ctx context.Context, topic string, env domain.SignalEnvelope) error
}

type Notifier interface {
	SendAlert(ctx context.Context, severity, component, message, detail string) error
}

// ---- Service ----

type PricingService struct {
	productRepo    ProductRepository
	competitorRepo CompetitorRepository
	salesRepo      SalesRepository
	decisionRepo   DecisionRepository

	competitorSvc CompetitorAnalyzer
	demandSvc     DemandAnalyzer
	inventorySvc  InventoryAnalyzer

	bus      Publisher
	notifier Notifier

	locks *productLocks
}

func NewPricingService(
	productRepo ProductRepository,
	competitorRepo CompetitorRepository,
	salesRepo SalesRepository,
	decisionRepo DecisionRepository,
	competitorSvc CompetitorAnalyzer,
	demandSvc DemandAnalyzer,
	inventorySvc InventoryAnalyzer,
	bus Publisher,
	notifier Notifier,
) *PricingService {
	return &PricingService{
		productRepo:    productRepo,
		competitorRepo: competitorRepo,
		salesRepo:      salesRepo,
		decisionRepo:   decisionRepo,
		competitorSvc:  competitorSvc,
		demandSvc:      demandSvc,
		inventorySvc:   inventorySvc,
		bus:            bus,
		notifier:       notifier,
		locks:          newProductLocks(),
	}
}

// ---- Audit reads ----

// DecisionHistory lists a product's recorded agent decisions, newest first.
func (s *PricingService) DecisionHistory(ctx context.Context, productID string, limit int) ([]domain.AgentDecision, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}

	decisions, err := s.decisionRepo.ListDecisions(ctx, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("load decisions for product %s: %w", productID, err)
	}

	return decisions, nil
}

// PriceChanges lists a product's applied price changes over the window,
// oldest first.
func (s *PricingService) PriceChanges(ctx context.Context, productID string, days int) ([]domain.PriceChange, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if days <= 0 {
		days = 30
	}

	since := time.Now().AddDate(0, 0, -days)
	changes, err := s.decisionRepo.ListPriceChangesSince(ctx, productID, since)
	if err != nil {
		return nil, fmt.Errorf("load price changes for product %s: %w", productID, err)
	}

	return changes, nil
}
