package domain

import "time"

// CREATE TABLE public.competitor_prices (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     product_id       VARCHAR(20),
//     product_name     TEXT,
//     category         TEXT,
//     competitor_name  TEXT,
//     competitor_price NUMERIC,
//     competitor_url   TEXT,
//     availability     BOOLEAN DEFAULT TRUE,
//     shipping_cost    NUMERIC,
//     rating           NUMERIC,
//     review_count     INTEGER,
//     confidence_score NUMERIC DEFAULT 1.0,
//     scraped_at       TIMESTAMPTZ
// );

type CompetitorObservation struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID       string    `gorm:"column:product_id;index" json:"product_id"`
	ProductName     string    `gorm:"column:product_name;type:text" json:"product_name"`
	Category        string    `gorm:"column:category;type:text" json:"category"`
	CompetitorName  string    `gorm:"column:competitor_name;type:text" json:"competitor_name"`
	CompetitorPrice float64   `gorm:"column:competitor_price;type:numeric" json:"competitor_price"`
	CompetitorURL   string    `gorm:"column:competitor_url;type:text" json:"competitor_url"`
	Availability    bool      `gorm:"column:availability;default:true" json:"availability"`
	ShippingCost    float64   `gorm:"column:shipping_cost;type:numeric" json:"shipping_cost"`
	Rating          float64   `gorm:"column:rating;type:numeric" json:"rating"`
	ReviewCount     int       `gorm:"column:review_count" json:"review_count"`
	ConfidenceScore float64   `gorm:"column:confidence_score;type:numeric;default:1.0" json:"confidence_score"`
	ScrapedAt       time.Time `gorm:"column:scraped_at;index" json:"scraped_at"`
}

func (CompetitorObservation) TableName() string {
	return "competitor_prices"
}
