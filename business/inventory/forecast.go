package inventory

import (
	"context"
	"dynamicPricing/domain"
	"fmt"
	"math"
	"time"
)

const minForecastHistory = 7

// ProjectedDay is one step of the depletion forecast.
type ProjectedDay struct {
	Date           string  `json:"date"`
	ProjectedStock float64 `json:"projected_stock"`
	Status         string  `json:"status"`
}

// NeedsForecast projects stock depletion and sizes the next reorder.
type NeedsForecast struct {
	ProductID          string         `json:"product_id"`
	CurrentStock       int            `json:"current_stock"`
	AvgDailySales      float64        `json:"avg_daily_sales"`
	ForecastPeriodDays int            `json:"forecast_period_days"`
	StockoutDay        *int           `json:"projected_stockout_day,omitempty"`
	ReorderQuantity    int            `json:"recommended_reorder_quantity"`
	Forecast           []ProjectedDay `json:"forecast"`
	Confidence         float64        `json:"confidence"`
}

// ForecastNeeds depletes current stock linearly at the historical average
// daily rate. The recommended reorder quantity covers lead time, safety
// stock, and the whole forecast horizon.
func (s *InventoryService) ForecastNeeds(ctx context.Context, productID string, daysAhead int) (NeedsForecast, error) {
	if err := ctx.Err(); err != nil {
		return NeedsForecast{}, fmt.Errorf("context error: %w", err)
	}

	snapshot, err := s.inventoryRepo.Latest(ctx, productID)
	if err != nil {
		return NeedsForecast{}, fmt.Errorf("inventory for product %s: %w", productID, err)
	}

	historyDays := daysAhead * 2
	if historyDays < 60 {
		historyDays = 60
	}
	cutoff := time.Now().AddDate(0, 0, -historyDays)
	sales, err := s.salesRepo.ListSince(ctx, productID, cutoff)
	if err != nil {
		return NeedsForecast{}, err
	}

	if len(sales) < minForecastHistory {
		return NeedsForecast{ProductID: productID, CurrentStock: snapshot.StockLevel},
			fmt.Errorf("inventory forecast for product %s: %w", productID, domain.ErrInsufficientData)
	}

	dailySales := map[string]float64{}
	for _, sale := range sales {
		dateKey := sale.SaleDate.Format("2006-01-02")
		dailySales[dateKey] += float64(sale.QuantitySold)
	}

	total := 0.0
	for _, units := range dailySales {
		total += units
	}
	avgDaily := total / float64(len(dailySales))

	forecast := make([]ProjectedDay, 0, daysAhead)
	today := time.Now()
	var stockoutDay *int
	for day := 0; day < daysAhead; day++ {
		projected := round1(math.Max(0, float64(snapshot.StockLevel)-avgDaily*float64(day+1)))

		status := "healthy"
		if projected <= 0 {
			status = "out_of_stock"
		} else if projected <= float64(snapshot.ReorderPoint) {
			status = "low_stock"
		}

		if projected <= 0 && stockoutDay == nil {
			d := day + 1
			stockoutDay = &d
		}

		forecast = append(forecast, ProjectedDay{
			Date:           today.AddDate(0, 0, day+1).Format("2006-01-02"),
			ProjectedStock: projected,
			Status:         status,
		})
	}

	reorderQuantity := int(avgDaily*float64(leadTimeDays+daysAhead) + float64(safetyStockDays)*avgDaily)

	return NeedsForecast{
		ProductID:          productID,
		CurrentStock:       snapshot.StockLevel,
		AvgDailySales:      round2(avgDaily),
		ForecastPeriodDays: daysAhead,
		StockoutDay:        stockoutDay,
		ReorderQuantity:    reorderQuantity,
		Forecast:           forecast,
		Confidence:         0.7,
	}, nil
}
