package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/adapters/api"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	*BaseHandler
	version string
	db      Pinger // nil reports degraded
	clock   clock.Clock
}

func NewHealthHandler(base *BaseHandler, version string, db Pinger, clk clock.Clock) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		version:     version,
		db:          db,
		clock:       clk,
	}
}

// GetLiveness is a lightweight check with no external dependencies
func (h *HealthHandler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	h.WriteJSONResponse(w, r, api.HealthStatus{
		Status:    api.Healthy,
		Timestamp: h.clock.Now(),
		Version:   &h.version,
	}, http.StatusOK)
}

// GetReadiness checks the database
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	response := api.HealthStatus{
		Status:    api.Healthy,
		Timestamp: h.clock.Now(),
		Version:   &h.version,
	}
	httpStatus := http.StatusOK

	if h.db == nil {
		response.Status = api.Degraded
		h.WriteJSONResponse(w, r, response, httpStatus)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := api.Up
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn(r.Context(), "readiness check failed", "error", err)
		dbStatus = api.Down
		response.Status = api.Unhealthy
		httpStatus = http.StatusServiceUnavailable
	}
	response.Checks = &api.HealthStatusChecks{Database: &dbStatus}

	h.WriteJSONResponse(w, r, response, httpStatus)
}
