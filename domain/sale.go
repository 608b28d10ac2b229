package domain

import "time"

// CREATE TABLE public.sales_data (
//     id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     product_id    VARCHAR(20) REFERENCES products(id),
//     quantity_sold INTEGER,
//     sale_price    NUMERIC,
//     total_revenue NUMERIC,
//     demand_signal NUMERIC,
//     sale_date     TIMESTAMPTZ
// );

type SaleEvent struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID    string    `gorm:"column:product_id;index" json:"product_id"`
	QuantitySold int       `gorm:"column:quantity_sold" json:"quantity_sold"`
	SalePrice    float64   `gorm:"column:sale_price;type:numeric" json:"sale_price"`
	TotalRevenue float64   `gorm:"column:total_revenue;type:numeric" json:"total_revenue"`
	DemandSignal float64   `gorm:"column:demand_signal;type:numeric" json:"demand_signal"`
	SaleDate     time.Time `gorm:"column:sale_date;index" json:"sale_date"`
}

func (SaleEvent) TableName() string {
	return "sales_data"
}
