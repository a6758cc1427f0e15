package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bouwshop/api/internal/platform/httpx"
)

const (
	serviceName    = "bouwshop-api"
	serviceVersion = "1.0.0"
)

// HealthHandlers serves liveness and the service banner.
type HealthHandlers struct {
	started time.Time
	// ping probes the backing store; nil means liveness only.
	ping func(ctx context.Context) error
}

// NewHealthHandlers constructs health handlers with an optional store probe.
func NewHealthHandlers(ping func(ctx context.Context) error) *HealthHandlers {
	return &HealthHandlers{
		started: time.Now().UTC(),
		ping:    ping,
	}
}

// Healthz reports process liveness and, when a probe is configured, store
// reachability.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	}
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			payload["status"] = "degraded"
			payload["store"] = "unreachable"
			httpx.WriteJSON(w, http.StatusServiceUnavailable, payload)
			return
		}
		payload["store"] = "ok"
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}

// Banner answers the API root with the service identity.
func (h *HealthHandlers) Banner(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Belgian Hardware Store API",
		"version": serviceVersion,
		"service": serviceName,
	})
}
