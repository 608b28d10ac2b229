package rest

import (
	"context"
	"dynamicPricing/business/pricing"
	"dynamicPricing/business/supervisor"
	"dynamicPricing/domain"
	"dynamicPricing/pkg/logger"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type (
	PricingHandler struct {
		validate    *validator.Validate
		pricingSvc  PricingService
		cycleRunner CycleRunner

		timeout      time.Duration
		cycleTimeout time.Duration
	}

	PricingService interface {
		ExecuteDecision(ctx context.Context, productID string, signals *domain.SignalSet) (pricing.DecisionResult, error)
		OptimalPrice(ctx context.Context, productID string) (pricing.OptimalPriceResult, error)
		Recommendations(ctx context.Context, productID string) (pricing.RecommendationsResult, error)
		PriceElasticity(ctx context.Context, productID string, days int) (pricing.ElasticityResult, error)
		DecisionHistory(ctx context.Context, productID string, limit int) ([]domain.AgentDecision, error)
		PriceChanges(ctx context.Context, productID string, days int) ([]domain.PriceChange, error)
	}

	CycleRunner interface {
		RunCycle(ctx context.Context, productIDs []string) (supervisor.CycleResult, error)
		PricingHistory(ctx context.Context, productID string, days int) ([]supervisor.HistoryEntry, error)
	}

	CycleRequest struct {
		ProductIDs []string `json:"product_ids" validate:"omitempty,dive,required"`
	}

	PricingHistoryResponse struct {
		ProductID string                    `json:"product_id"`
		Days      int                       `json:"days"`
		History   []supervisor.HistoryEntry `json:"history"`
	}
)

func NewPricingHandler(pricingSvc PricingService, cycleRunner CycleRunner) *PricingHandler {
	return &PricingHandler{
		validate:     validator.New(),
		pricingSvc:   pricingSvc,
		cycleRunner:  cycleRunner,
		timeout:      10 * time.Second,
		cycleTimeout: 2 * time.Minute,
	}
}

// POST /api/v1/pricing/cycle
func (h *PricingHandler) RunCycle(c echo.Context) error {
	var req CycleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.cycleTimeout)
	defer cancel()

	result, err := h.cycleRunner.RunCycle(ctx, req.ProductIDs)
	if err != nil {
		logger.Error("Failed to run pricing cycle", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// POST /api/v1/pricing/decisions/:id
func (h *PricingHandler) ExecuteDecision(c echo.Context) error {
	productID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.pricingSvc.ExecuteDecision(ctx, productID, nil)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "product not found"})
		}
		logger.Error("Failed to execute pricing decision", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// GET /api/v1/pricing/optimal/:id
func (h *PricingHandler) OptimalPrice(c echo.Context) error {
	productID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.pricingSvc.OptimalPrice(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "product not found"})
		}
		logger.Error("Failed to calculate optimal price", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// GET /api/v1/pricing/recommendations/:id
func (h *PricingHandler) Recommendations(c echo.Context) error {
	productID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.pricingSvc.Recommendations(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "product not found"})
		}
		logger.Error("Failed to build pricing recommendations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// GET /api/v1/pricing/elasticity/:id?days=30
func (h *PricingHandler) Elasticity(c echo.Context) error {
	productID := c.Param("id")

	days, err := queryInt(c, "days", 30)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.pricingSvc.PriceElasticity(ctx, productID, days)
	if err != nil {
		logger.Error("Failed to calculate price elasticity", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// GET /api/v1/pricing/history/:id?days=30
func (h *PricingHandler) PricingHistory(c echo.Context) error {
	productID := c.Param("id")

	days, err := queryInt(c, "days", 30)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	history, err := h.cycleRunner.PricingHistory(ctx, productID, days)
	if err != nil {
		logger.Error("Failed to load pricing history", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(PricingHistoryResponse{
		ProductID: productID,
		Days:      days,
		History:   history,
	}))
}

// GET /api/v1/pricing/changes/:id?days=30
func (h *PricingHandler) PriceChanges(c echo.Context) error {
	productID := c.Param("id")

	days, err := queryInt(c, "days", 30)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	changes, err := h.pricingSvc.PriceChanges(ctx, productID, days)
	if err != nil {
		logger.Error("Failed to load price changes", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(changes))
}

// GET /api/v1/pricing/decisions/:id?limit=20
func (h *PricingHandler) Decisions(c echo.Context) error {
	productID := c.Param("id")

	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	decisions, err := h.pricingSvc.DecisionHistory(ctx, productID, limit)
	if err != nil {
		logger.Error("Failed to load decision history", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(decisions))
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}

	return v, nil
}
