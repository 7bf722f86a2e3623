package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"
)

// HealthHandler handles GET /health (liveness) and GET /health/ready
// (readiness). Readiness pings every configured dependency and reports the
// current order counts.
type HealthHandler struct {
	deps    map[string]ports.Pinger
	counter orderCounter
	backend string
	version string
}

type orderCounter interface {
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
}

func NewHealthHandler(deps map[string]ports.Pinger, counter orderCounter, backend, version string) *HealthHandler {
	if deps == nil {
		deps = map[string]ports.Pinger{}
	}
	return &HealthHandler{deps: deps, counter: counter, backend: backend, version: version}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Backend      string                      `json:"database"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
	Orders       map[string]int64            `json:"orders,omitempty"`
	Timestamp    time.Time                   `json:"timestamp"`
}

type bannerResponse struct {
	Message   string    `json:"message"`
	Version   string    `json:"version"`
	Backend   string    `json:"database"`
	Endpoints []string  `json:"endpoints"`
	Timestamp time.Time `json:"timestamp"`
}

// Liveness godoc
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readiness godoc
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps))
	healthy := true

	for name, p := range h.deps {
		if err := p.Ping(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	var orders map[string]int64
	if h.counter != nil && healthy {
		counts, err := h.counter.CountByStatus(ctx)
		if err != nil {
			deps["orders"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			orders = make(map[string]int64, len(counts))
			for st, n := range counts {
				orders[string(st)] = n
			}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Backend:      h.backend,
		Dependencies: deps,
		Orders:       orders,
		Timestamp:    time.Now().UTC(),
	})
}

// Banner handles GET / with the service name and the registered routes.
func (h *HealthHandler) Banner(c echo.Context) error {
	var endpoints []string
	for _, r := range c.Echo().Routes() {
		endpoints = append(endpoints, r.Method+" "+r.Path)
	}
	sort.Strings(endpoints)

	return c.JSON(http.StatusOK, bannerResponse{
		Message:   "API Entregadores 67 - Sistema de Entregas",
		Version:   h.version,
		Backend:   h.backend,
		Endpoints: endpoints,
		Timestamp: time.Now().UTC(),
	})
}
