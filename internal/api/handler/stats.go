package handler

import (
	"net/http"

	"github.com/Pradipwasre/xumo-support-ai/internal/api/response"
	"github.com/Pradipwasre/xumo-support-ai/internal/store"
)

// NewStatsHandler returns an http.HandlerFunc for GET /api/v1/stats.
func NewStatsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := st.GetStats(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to compute stats", nil)
			return
		}
		response.JSON(w, stats)
	}
}
