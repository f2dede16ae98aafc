// Package handler implements the HTTP endpoints. Handlers validate input,
// delegate to the pipeline and store, and translate errors into response
// envelopes; they contain no domain logic of their own.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Pradipwasre/xumo-support-ai/internal/ai"
	"github.com/Pradipwasre/xumo-support-ai/internal/api/response"
	"github.com/Pradipwasre/xumo-support-ai/internal/store"
	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

// maxTicketBytes caps the request body; tickets are pasted text, not uploads.
const maxTicketBytes = 64 * 1024

// TicketProcessor runs raw ticket text through the pipeline.
type TicketProcessor interface {
	Process(ctx context.Context, rawText string) (*ai.ProcessResult, error)
}

// NewProcessTicketHandler returns an http.HandlerFunc for POST /api/v1/tickets.
func NewProcessTicketHandler(svc TicketProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxTicketBytes)

		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "text is required", nil)
			return
		}

		result, err := svc.Process(r.Context(), req.Text)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to process ticket", nil)
			return
		}

		response.Created(w, result)
	}
}

// ticketWithAnalysis pairs a stored ticket with its most recent analysis.
// Analysis is nil when the pipeline ran without persistence enabled.
type ticketWithAnalysis struct {
	Ticket   *models.TicketRecord   `json:"ticket"`
	Analysis *models.TicketAnalysis `json:"analysis,omitempty"`
}

// NewGetTicketHandler returns an http.HandlerFunc for GET /api/v1/tickets/{ticketID}.
func NewGetTicketHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID := chi.URLParam(r, "ticketID")

		rec, err := st.GetTicket(r.Context(), ticketID)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Ticket not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load ticket", nil)
			return
		}

		analysis, err := st.GetAnalysisByTicket(r.Context(), rec.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load analysis", nil)
			return
		}

		response.JSON(w, ticketWithAnalysis{Ticket: rec, Analysis: analysis})
	}
}

// NewListTicketsHandler returns an http.HandlerFunc for GET /api/v1/tickets.
func NewListTicketsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.TicketFilter{
			EscalationStatus: r.URL.Query().Get("status"),
		}

		if since := r.URL.Query().Get("since"); since != "" {
			t, err := time.Parse(time.RFC3339, since)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"since must be a valid RFC3339 timestamp", nil)
				return
			}
			filter.Since = t
		}

		filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
		filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

		tickets, total, err := st.ListTickets(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to list tickets", nil)
			return
		}

		page := filter.Page
		if page <= 0 {
			page = 1
		}
		limit := filter.Limit
		if limit <= 0 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}

		if tickets == nil {
			tickets = []*models.TicketRecord{}
		}

		response.Collection(w, tickets, response.PaginationMeta{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasNext: page*limit < total,
		})
	}
}
