package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketAnalysis is the persisted outcome of one pipeline run over a ticket:
// the escalation assessment, the privacy audit, the data-quality confidence
// label, and the suggested next steps.
type TicketAnalysis struct {
	ID               uuid.UUID            `db:"id"                json:"id"`
	TicketID         uuid.UUID            `db:"ticket_id"         json:"ticket_id"`
	Assessment       EscalationAssessment `db:"-"                 json:"assessment"`
	DataConfidence   ConfidenceLevel      `db:"data_confidence"   json:"data_confidence"`
	PrivacyReport    PrivacyReport        `db:"-"                 json:"privacy_report"`
	SuggestedSteps   []string             `db:"suggested_steps"   json:"suggested_steps"`
	Provider         string               `db:"provider"          json:"provider"`
	ProviderFallback bool                 `db:"provider_fallback" json:"provider_fallback"`
	CreatedAt        time.Time            `db:"created_at"        json:"created_at"`
}

// TicketStats aggregates stored analyses for the stats endpoint.
type TicketStats struct {
	TotalTickets   int     `json:"total_tickets"`
	TotalAnalyzed  int     `json:"total_analyzed"`
	EscalationRate float64 `json:"escalation_rate"` // percent of analyses with probability >= 70
}
