package demand

import (
	"context"
	"dynamicPricing/domain"
	"fmt"
	"math"
	"sort"
	"time"
)

type ForecastDay struct {
	Date           string  `json:"date"`
	PredictedSales float64 `json:"predicted_sales"`
	Confidence     float64 `json:"confidence"`
}

type ForecastResult struct {
	ProductID          string        `json:"product_id"`
	ForecastPeriodDays int           `json:"forecast_period_days"`
	TotalForecast      float64       `json:"total_forecasted_sales"`
	AvgDailyForecast   float64       `json:"avg_daily_forecast"`
	Trend              float64       `json:"trend"`
	Forecast           []ForecastDay `json:"forecast"`
	Confidence         float64       `json:"confidence"`
	Method             string        `json:"method"`
	MinRequiredDays    int           `json:"min_required_days,omitempty"`
	AvailableDays      int           `json:"available_days,omitempty"`
}

const minForecastHistory = 7

// ForecastDemand projects daily sales with a 7-day moving average plus a
// linear trend. It needs at least a week of history on both axes: seven
// sale events and seven distinct sale days.
func (s *DemandService) ForecastDemand(ctx context.Context, productID string, daysAhead int) (ForecastResult, error) {
	if err := ctx.Err(); err != nil {
		return ForecastResult{}, fmt.Errorf("context error: %w", err)
	}

	historicalDays := daysAhead * 2
	if historicalDays < 60 {
		historicalDays = 60
	}
	cutoff := time.Now().AddDate(0, 0, -historicalDays)

	sales, err := s.salesRepo.ListSince(ctx, productID, cutoff)
	if err != nil {
		return ForecastResult{}, err
	}

	if len(sales) < minForecastHistory {
		return ForecastResult{
			ProductID:       productID,
			MinRequiredDays: minForecastHistory,
			AvailableDays:   len(sales),
		}, fmt.Errorf("forecast for product %s: %w", productID, domain.ErrInsufficientData)
	}

	dailySales := map[string]float64{}
	for _, sale := range sales {
		dateKey := sale.SaleDate.Format("2006-01-02")
		dailySales[dateKey] += float64(sale.QuantitySold)
	}

	dates := make([]string, 0, len(dailySales))
	for date := range dailySales {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	if len(dates) < minForecastHistory {
		return ForecastResult{
			ProductID:       productID,
			MinRequiredDays: minForecastHistory,
			AvailableDays:   len(dates),
		}, fmt.Errorf("forecast for product %s: %w", productID, domain.ErrInsufficientData)
	}

	// moving average over the last seven sale days
	recentDates := dates[len(dates)-7:]
	recentTotal := 0.0
	for _, date := range recentDates {
		recentTotal += dailySales[date]
	}
	avgDaily := recentTotal / float64(len(recentDates))
	trend := (dailySales[recentDates[len(recentDates)-1]] - dailySales[recentDates[0]]) / float64(len(recentDates))

	forecast := make([]ForecastDay, 0, daysAhead)
	today := time.Now()
	total := 0.0
	for i := 0; i < daysAhead; i++ {
		predicted := math.Max(0, avgDaily+trend*float64(i))
		predicted = round1(predicted)
		total += predicted
		forecast = append(forecast, ForecastDay{
			Date:           today.AddDate(0, 0, i+1).Format("2006-01-02"),
			PredictedSales: predicted,
			Confidence:     math.Max(0.3, 1.0-float64(i)*0.02),
		})
	}

	return ForecastResult{
		ProductID:          productID,
		ForecastPeriodDays: daysAhead,
		TotalForecast:      round1(total),
		AvgDailyForecast:   round1(total / float64(daysAhead)),
		Trend:              round2(trend),
		Forecast:           forecast,
		Confidence:         0.7,
		Method:             "moving_average",
	}, nil
}

type SignalsResult struct {
	ProductID         string   `json:"product_id"`
	DemandScore       float64  `json:"demand_score"`
	SalesVelocity     float64  `json:"sales_velocity"`
	ShortTermForecast float64  `json:"short_term_forecast"`
	Signals           []string `json:"signals"`
	OverallSentiment  string   `json:"overall_sentiment"`
}

// DemandSignals distills score, velocity and short-term trend into named
// signals plus an overall sentiment. A failed forecast simply contributes
// no trend signal.
func (s *DemandService) DemandSignals(ctx context.Context, productID string) (SignalsResult, error) {
	if err := ctx.Err(); err != nil {
		return SignalsResult{}, fmt.Errorf("context error: %w", err)
	}

	scoreData, err := s.DemandScore(ctx, productID)
	if err != nil {
		return SignalsResult{}, err
	}

	velocityData, err := s.SalesVelocity(ctx, productID, 7)
	if err != nil {
		return SignalsResult{}, err
	}

	trend := 0.0
	shortTermForecast := 0.0
	forecastData, err := s.ForecastDemand(ctx, productID, 7)
	if err == nil {
		trend = forecastData.Trend
		shortTermForecast = forecastData.AvgDailyForecast
	}

	result := SignalsResult{
		ProductID:         productID,
		DemandScore:       scoreData.DemandScore,
		SalesVelocity:     velocityData.SalesVelocity,
		ShortTermForecast: shortTermForecast,
		Signals:           []string{},
		OverallSentiment:  "neutral",
	}

	positive := 0
	negative := 0

	if scoreData.DemandScore > 0.8 {
		result.Signals = append(result.Signals, "high_demand_score")
		positive++
	} else if scoreData.DemandScore < 0.3 {
		result.Signals = append(result.Signals, "low_demand_score")
		negative++
	}

	if velocityData.SalesVelocity > 10 {
		result.Signals = append(result.Signals, "high_sales_velocity")
		positive++
	} else if velocityData.SalesVelocity < 1 {
		result.Signals = append(result.Signals, "low_sales_velocity")
		negative++
	}

	if trend > 0.5 {
		result.Signals = append(result.Signals, "increasing_trend")
		positive++
	} else if trend < -0.5 {
		result.Signals = append(result.Signals, "decreasing_trend")
		negative++
	}

	if positive > negative {
		result.OverallSentiment = "positive"
	} else if negative > positive {
		result.OverallSentiment = "negative"
	}

	return result, nil
}
