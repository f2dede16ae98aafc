// Package models contains shared data models used across the support pipeline codebase.
package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketRecord is the canonical structured representation of one support
// interaction. RawText holds the original input only until anonymization;
// after AnonymizeTicket runs, every copy of the record carries redacted text.
type TicketRecord struct {
	ID                       uuid.UUID         `db:"id"                        json:"id"`
	TicketID                 string            `db:"ticket_id"                 json:"ticket_id"`
	Timestamp                time.Time         `db:"created_at"                json:"timestamp"`
	RawText                  string            `db:"raw_text"                  json:"raw_text"`
	IssueDescription         string            `db:"issue_description"         json:"issue_description"`
	CustomerName             string            `db:"customer_name"             json:"customer_name"`
	ContactNumber            string            `db:"contact_number"            json:"contact_number"`
	Email                    string            `db:"email"                     json:"email"`
	DeviceDetails            map[string]string `db:"device_details"            json:"device_details"`
	TroubleshootingCompleted []string          `db:"troubleshooting_completed" json:"troubleshooting_completed"`
	EscalationStatus         string            `db:"escalation_status"         json:"escalation_status"`
}

// NewTicketID builds the human-facing ticket identifier assigned at
// persistence time, e.g. "TKT_20260115_093042".
func NewTicketID(t time.Time) string {
	return "TKT_" + t.UTC().Format("20060102_150405")
}

// Clone returns a deep copy so anonymization never mutates the caller's record.
func (r TicketRecord) Clone() TicketRecord {
	out := r
	if r.DeviceDetails != nil {
		out.DeviceDetails = make(map[string]string, len(r.DeviceDetails))
		for k, v := range r.DeviceDetails {
			out.DeviceDetails[k] = v
		}
	}
	if r.TroubleshootingCompleted != nil {
		out.TroubleshootingCompleted = append([]string(nil), r.TroubleshootingCompleted...)
	}
	return out
}
