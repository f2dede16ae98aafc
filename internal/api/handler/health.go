package handler

import (
	"context"
	"net/http"

	"github.com/Pradipwasre/xumo-support-ai/internal/api/response"
)

// Pinger checks liveness of one dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health.
// Reports per-dependency status; the endpoint itself always answers 200 so
// load balancers can distinguish degraded from down.
func NewHealthHandler(db, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{
			"server":   "ok",
			"database": pingStatus(r.Context(), db),
			"cache":    pingStatus(r.Context(), cache),
		}
		response.JSON(w, status)
	}
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "unavailable"
	}
	return "ok"
}
