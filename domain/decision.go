package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.agent_decisions (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     product_id       VARCHAR(20) REFERENCES products(id),
//     agent_name       TEXT,
//     decision_type    TEXT,
//     input_data       JSONB,
//     output_data      JSONB,
//     confidence_score NUMERIC,
//     explanation      TEXT,
//     reflection       TEXT,
//     reasoning_chain  JSONB,
//     timestamp        TIMESTAMPTZ DEFAULT NOW()
// );

type AgentDecision struct {
	ID              uint64                      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID       string                      `gorm:"column:product_id;index" json:"product_id"`
	AgentName       string                      `gorm:"column:agent_name;type:text" json:"agent_name"`
	DecisionType    string                      `gorm:"column:decision_type;type:text" json:"decision_type"`
	InputData       datatypes.JSONMap           `gorm:"column:input_data;type:jsonb" json:"input_data"`
	OutputData      datatypes.JSONMap           `gorm:"column:output_data;type:jsonb" json:"output_data"`
	ConfidenceScore float64                     `gorm:"column:confidence_score;type:numeric" json:"confidence_score"`
	Explanation     string                      `gorm:"column:explanation;type:text" json:"explanation"`
	Reflection      string                      `gorm:"column:reflection;type:text" json:"reflection"`
	ReasoningChain  datatypes.JSONSlice[string] `gorm:"column:reasoning_chain;type:jsonb" json:"reasoning_chain"`
	Timestamp       time.Time                   `gorm:"column:timestamp" json:"timestamp"`
}

func (AgentDecision) TableName() string {
	return "agent_decisions"
}

// CREATE TABLE public.price_history (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     product_id       VARCHAR(20) REFERENCES products(id),
//     old_price        NUMERIC,
//     new_price        NUMERIC,
//     change_percent   NUMERIC,
//     change_reason    TEXT,
//     agent_name       TEXT,
//     confidence_score NUMERIC,
//     created_at       TIMESTAMPTZ DEFAULT NOW()
// );

type PriceChange struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID       string    `gorm:"column:product_id;index" json:"product_id"`
	OldPrice        float64   `gorm:"column:old_price;type:numeric" json:"old_price"`
	NewPrice        float64   `gorm:"column:new_price;type:numeric" json:"new_price"`
	ChangePercent   float64   `gorm:"column:change_percent;type:numeric" json:"change_percent"`
	ChangeReason    string    `gorm:"column:change_reason;type:text" json:"change_reason"`
	AgentName       string    `gorm:"column:agent_name;type:text" json:"agent_name"`
	ConfidenceScore float64   `gorm:"column:confidence_score;type:numeric" json:"confidence_score"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PriceChange) TableName() string {
	return "price_history"
}

// ToJSONMap renders a JSON-marshalable value as a jsonb map for audit rows.
func ToJSONMap(v any) datatypes.JSONMap {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSONMap{}
	}

	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return datatypes.JSONMap{}
	}

	return m
}
