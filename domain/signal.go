package domain

import (
	"encoding/json"
	"time"
)

// Bus topics. The correlator consumes the first three and fires
// TopicPriceDecision; the supervisor reports on TopicCycleCompleted.
const (
	TopicCompetitorData  = "competitor_data"
	TopicDemandScore     = "demand_score"
	TopicInventoryUpdate = "inventory_update"
	TopicPriceDecision   = "price_decision"
	TopicCycleCompleted  = "pricing_cycle_completed"
)

// Agent names stamped on envelopes and audit rows.
const (
	AgentDemand     = "DemandAnalysisAgent"
	AgentInventory  = "InventoryTrackingAgent"
	AgentCompetitor = "CompetitorMonitoringAgent"
	AgentPricing    = "PricingDecisionAgent"
	AgentSupervisor = "SupervisorAgent"
)

// SignalEnvelope is the wire format shared by every agent message.
type SignalEnvelope struct {
	Type      string          `json:"type"`
	Agent     string          `json:"agent"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewSignalEnvelope wraps a payload for publishing.
func NewSignalEnvelope(typ, agent string, payload any) (SignalEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return SignalEnvelope{}, err
	}
	return SignalEnvelope{
		Type:      typ,
		Agent:     agent,
		Timestamp: time.Now(),
		Payload:   raw,
	}, nil
}

// ProductID digs the product identity out of the payload. Producers write
// product_id; a few legacy ones still send id.
func (e SignalEnvelope) ProductID() string {
	var probe struct {
		ProductID string `json:"product_id"`
		ID        string `json:"id"`
	}
	if err := json.Unmarshal(e.Payload, &probe); err != nil {
		return ""
	}
	if probe.ProductID != "" {
		return probe.ProductID
	}
	return probe.ID
}

// DemandSignal is the payload on TopicDemandScore.
type DemandSignal struct {
	ProductID     string  `json:"product_id"`
	DemandScore   float64 `json:"demand_score"`
	SalesVelocity float64 `json:"sales_velocity"`
	Sentiment     string  `json:"overall_sentiment"`
	Confidence    float64 `json:"confidence"`
	Explanation   string  `json:"explanation"`
}

// InventorySignal is the payload on TopicInventoryUpdate.
type InventorySignal struct {
	ProductID     string   `json:"product_id"`
	StockLevel    int      `json:"stock_level"`
	ReorderPoint  int      `json:"reorder_point"`
	Status        string   `json:"inventory_status"`
	Urgency       string   `json:"urgency"`
	DaysRemaining *float64 `json:"days_of_stock_remaining,omitempty"`
}

// CompetitorSignal is the payload on TopicCompetitorData.
type CompetitorSignal struct {
	ProductID        string    `json:"product_id"`
	CompetitorPrices []float64 `json:"competitor_prices"`
	AvgPrice         float64   `json:"avg_competitor_price"`
	MinPrice         float64   `json:"min_competitor_price"`
	MaxPrice         float64   `json:"max_competitor_price"`
	PricePosition    string    `json:"price_position"`
	Recommendation   string    `json:"recommendation"`
	NumCompetitors   int       `json:"num_competitors"`
	Confidence       float64   `json:"confidence"`
}

// DecisionSignal is the payload on TopicPriceDecision.
type DecisionSignal struct {
	ProductID          string   `json:"product_id"`
	OldPrice           float64  `json:"old_price"`
	NewPrice           float64  `json:"new_price"`
	PriceChangePercent float64  `json:"price_change_percent"`
	DemandFactor       float64  `json:"demand_factor"`
	InventoryFactor    float64  `json:"inventory_factor"`
	CompetitorFactor   float64  `json:"competitor_factor"`
	ReasoningChain     []string `json:"reasoning_chain"`
	Confidence         float64  `json:"confidence"`
}

// SignalSet is one product's correlated triple, handed to the decision path
// once all three slots are filled.
type SignalSet struct {
	Competitor *CompetitorSignal
	Demand     *DemandSignal
	Inventory  *InventorySignal
}

// Complete reports whether all three signal types have arrived.
func (s SignalSet) Complete() bool {
	return s.Competitor != nil && s.Demand != nil && s.Inventory != nil
}
