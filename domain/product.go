package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id               VARCHAR(20) PRIMARY KEY,
//     name             TEXT,
//     category         TEXT,
//     base_price       NUMERIC,
//     current_price    NUMERIC,
//     cost_price       NUMERIC,
//     stock_level      INTEGER,
//     reorder_point    INTEGER DEFAULT 10,
//     max_stock        INTEGER,
//     demand_score     NUMERIC,
//     sales_velocity   NUMERIC,
//     price_elasticity NUMERIC,
//     market_position  TEXT,
//     is_active        BOOLEAN DEFAULT TRUE,
//     created_at       TIMESTAMPTZ DEFAULT NOW(),
//     last_updated     TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID              string    `gorm:"column:id;primaryKey" json:"id"`
	Name            string    `gorm:"column:name;type:text" json:"name"`
	Category        string    `gorm:"column:category;type:text" json:"category"`
	BasePrice       float64   `gorm:"column:base_price;type:numeric" json:"base_price"`
	CurrentPrice    float64   `gorm:"column:current_price;type:numeric" json:"current_price"`
	CostPrice       float64   `gorm:"column:cost_price;type:numeric" json:"cost_price"`
	StockLevel      int       `gorm:"column:stock_level" json:"stock_level"`
	ReorderPoint    int       `gorm:"column:reorder_point;default:10" json:"reorder_point"`
	MaxStock        int       `gorm:"column:max_stock" json:"max_stock"`
	DemandScore     float64   `gorm:"column:demand_score;type:numeric" json:"demand_score"`
	SalesVelocity   float64   `gorm:"column:sales_velocity;type:numeric" json:"sales_velocity"`
	PriceElasticity float64   `gorm:"column:price_elasticity;type:numeric" json:"price_elasticity"`
	MarketPosition  string    `gorm:"column:market_position;type:text" json:"market_position"`
	IsActive        bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	LastUpdated     time.Time `gorm:"column:last_updated" json:"last_updated"`
}

func (Product) TableName() string {
	return "products"
}

// EffectivePrice is the price decisions reason against. current_price is
// zero until the first decision runs, so fall back to base_price.
func (p Product) EffectivePrice() float64 {
	if p.CurrentPrice > 0 {
		return p.CurrentPrice
	}
	return p.BasePrice
}
