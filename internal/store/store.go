package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID) error

	CreateTicket(ctx context.Context, rec *models.TicketRecord) error
	GetTicket(ctx context.Context, ticketID string) (*models.TicketRecord, error)
	ListTickets(ctx context.Context, filter TicketFilter) ([]*models.TicketRecord, int, error)

	CreateAnalysis(ctx context.Context, analysis *models.TicketAnalysis) error
	GetAnalysisByTicket(ctx context.Context, ticketRef uuid.UUID) (*models.TicketAnalysis, error)

	GetStats(ctx context.Context) (*models.TicketStats, error)
}

// TicketFilter narrows and pages ListTickets.
type TicketFilter struct {
	EscalationStatus string
	Since            time.Time
	Page             int
	Limit            int
}
