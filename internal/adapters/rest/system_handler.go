package rest

import (
	"net/http"

	"github.com/casira/connect/internal/adapters/api"
	"github.com/casira/connect/internal/platform/cache"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
)

// CacheReporter is implemented by services that keep a read cache
type CacheReporter interface {
	CacheStats() cache.Stats
}

// SystemHandler exposes event bus introspection to admins
type SystemHandler struct {
	*BaseHandler
	bus    *eventbus.Bus
	caches []CacheReporter
}

func NewSystemHandler(base *BaseHandler, bus *eventbus.Bus, caches ...CacheReporter) *SystemHandler {
	return &SystemHandler{
		BaseHandler: base,
		bus:         bus,
		caches:      caches,
	}
}

// GetEventBusStats reports registered listeners and cache counters
func (h *SystemHandler) GetEventBusStats(w http.ResponseWriter, r *http.Request) {
	stats := h.bus.Stats()

	response := api.EventBusStats{
		NormalEvents:       topicNames(stats.NormalTopics),
		OnceEvents:         topicNames(stats.OnceTopics),
		TotalListeners:     stats.TotalListeners,
		TotalOnceListeners: stats.TotalOnceListeners,
		WildcardListeners:  stats.WildcardListeners,
		TotalEvents:        stats.TotalTopics,
		DebugMode:          h.bus.DebugMode(),
		Caches:             make([]api.CacheStats, 0, len(h.caches)),
	}
	for _, c := range h.caches {
		s := c.CacheStats()
		response.Caches = append(response.Caches, api.CacheStats{Name: s.Name, Size: s.Size, Hits: s.Hits, Misses: s.Misses})
	}
	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

// SetEventBusDebug toggles dispatch tracing at runtime
func (h *SystemHandler) SetEventBusDebug(w http.ResponseWriter, r *http.Request) {
	var req api.DebugModeRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	h.bus.SetDebugMode(req.Enabled)
	h.logger.Info(r.Context(), "event bus debug mode changed",
		"enabled", req.Enabled,
		"user_id", h.GetUserIDFromContext(r),
	)
	w.WriteHeader(http.StatusNoContent)
}

// InvalidateCache broadcasts cache.invalidate; every cache listening drops matching keys
func (h *SystemHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	var req api.CacheInvalidateRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	h.bus.Emit(r.Context(), events.CacheInvalidateTopic, events.CacheInvalidateEvent{
		Pattern: deref(req.Pattern),
	}, eventbus.WithSource("SystemHandler"))
	w.WriteHeader(http.StatusAccepted)
}

func topicNames(topics []eventbus.Topic) []string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = string(t)
	}
	return names
}
