package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// PingFunc probes one dependency; nil means the dependency is not checked.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	service string
	version string
	dbPing  PingFunc
	busPing PingFunc
	timeout time.Duration
}

func NewHealthHandler(service, version string, dbPing, busPing PingFunc) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		dbPing:  dbPing,
		busPing: busPing,
		timeout: 5 * time.Second,
	}
}

// GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	report := map[string]interface{}{
		"status":    "healthy",
		"service":   h.service,
		"version":   h.version,
		"timestamp": time.Now(),
	}

	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			report["status"] = "degraded"
			report["database"] = "disconnected"
			status = http.StatusServiceUnavailable
		} else {
			report["database"] = "connected"
		}
	}

	if h.busPing != nil {
		if err := h.busPing(ctx); err != nil {
			report["status"] = "degraded"
			report["bus"] = "disconnected"
			status = http.StatusServiceUnavailable
		} else {
			report["bus"] = "connected"
		}
	}

	return c.JSON(status, report)
}
