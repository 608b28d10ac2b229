package correlator

import (
	"context"
	"dynamicPricing/business/pricing"
	"dynamicPricing/domain"
	"dynamicPricing/pkg/logger"
	"encoding/json"
	"sync"
	"time"
)

const decisionTimeout = 30 * time.Second

// DecisionExecutor runs one pricing decision from a correlated signal set.
type DecisionExecutor interface {
	ExecuteDecision(ctx context.Context, productID string, signals *domain.SignalSet) (pricing.DecisionResult, error)
}

// Subscriber is the bus side the correlator consumes from.
type Subscriber interface {
	StartForwarder(ctx context.Context, onMsg func(topic string, env domain.SignalEnvelope), topics ...string) error
}

// Correlator aggregates the three analysis signals per product and fires a
// pricing decision once a product's triple is complete. Slots are in-memory
// only: a restart forgets partial triples and the next cycle refills them.
// Each slot is last-write-wins, so a fresher analysis replaces a stale one
// that never got its partners.
type Correlator struct {
	executor DecisionExecutor
	bus      Subscriber

	mu    sync.Mutex
	slots map[string]*domain.SignalSet

	wg sync.WaitGroup
}

func NewCorrelator(executor DecisionExecutor, bus Subscriber) *Correlator {
	return &Correlator{
		executor: executor,
		bus:      bus,
		slots:    make(map[string]*domain.SignalSet),
	}
}

// Run subscribes to the three analysis topics and correlates until ctx ends.
// Ingestion stays on the forwarder goroutine so arrival order is preserved;
// completed triples run their decision on their own goroutine, so slow
// decisions for one product never stall correlation for the others.
func (c *Correlator) Run(ctx context.Context) error {
	logger.Info("Correlator listening",
		"topics", []string{domain.TopicCompetitorData, domain.TopicDemandScore, domain.TopicInventoryUpdate},
	)

	return c.bus.StartForwarder(ctx, func(topic string, env domain.SignalEnvelope) {
		productID, set, ready := c.ingest(topic, env)
		if !ready {
			return
		}
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.execute(ctx, productID, set)
		}()
	}, domain.TopicCompetitorData, domain.TopicDemandScore, domain.TopicInventoryUpdate)
}

// Wait blocks until in-flight decisions have finished. Called on shutdown
// after the run context is cancelled.
func (c *Correlator) Wait() {
	c.wg.Wait()
}

// ingest parses one envelope into its slot. It reports the completed triple
// exactly once: the slots are cleared before the decision runs, so signals
// arriving during the decision start the next round instead of re-firing
// this one.
func (c *Correlator) ingest(topic string, env domain.SignalEnvelope) (string, domain.SignalSet, bool) {
	productID := env.ProductID()
	if productID == "" {
		logger.Warn("Dropping signal without product identity", "topic", topic, "agent", env.Agent)
		return "", domain.SignalSet{}, false
	}

	var (
		competitorSignal *domain.CompetitorSignal
		demandSignal     *domain.DemandSignal
		inventorySignal  *domain.InventorySignal
	)

	switch topic {
	case domain.TopicCompetitorData:
		var signal domain.CompetitorSignal
		if err := json.Unmarshal(env.Payload, &signal); err != nil {
			logger.Warn("Malformed competitor signal", "productID", productID, "error", err)
			return "", domain.SignalSet{}, false
		}
		competitorSignal = &signal
	case domain.TopicDemandScore:
		var signal domain.DemandSignal
		if err := json.Unmarshal(env.Payload, &signal); err != nil {
			logger.Warn("Malformed demand signal", "productID", productID, "error", err)
			return "", domain.SignalSet{}, false
		}
		demandSignal = &signal
	case domain.TopicInventoryUpdate:
		var signal domain.InventorySignal
		if err := json.Unmarshal(env.Payload, &signal); err != nil {
			logger.Warn("Malformed inventory signal", "productID", productID, "error", err)
			return "", domain.SignalSet{}, false
		}
		inventorySignal = &signal
	default:
		return "", domain.SignalSet{}, false
	}

	SignalsReceivedTotal.WithLabelValues(topic).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	set, ok := c.slots[productID]
	if !ok {
		set = &domain.SignalSet{}
		c.slots[productID] = set
	}

	switch {
	case competitorSignal != nil:
		set.Competitor = competitorSignal
	case demandSignal != nil:
		set.Demand = demandSignal
	case inventorySignal != nil:
		set.Inventory = inventorySignal
	}

	if !set.Complete() {
		OpenProducts.Set(float64(len(c.slots)))
		return productID, domain.SignalSet{}, false
	}

	snapshot := *set
	delete(c.slots, productID)
	OpenProducts.Set(float64(len(c.slots)))
	CorrelationsFiredTotal.Inc()

	return productID, snapshot, true
}

func (c *Correlator) execute(ctx context.Context, productID string, set domain.SignalSet) {
	ctx, cancel := context.WithTimeout(ctx, decisionTimeout)
	defer cancel()

	logger.Info("All signals correlated, executing pricing decision", "productID", productID)

	if _, err := c.executor.ExecuteDecision(ctx, productID, &set); err != nil {
		logger.Error("Correlated pricing decision failed", "productID", productID, "error", err)
	}
}
