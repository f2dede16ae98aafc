package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		key.ID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE deleted_at IS NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Tickets ---

func (s *PostgresStore) CreateTicket(ctx context.Context, rec *models.TicketRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tickets (id, ticket_id, raw_text, issue_description, customer_name, contact_number, email, device_details, troubleshooting_completed, escalation_status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.TicketID, rec.RawText, rec.IssueDescription, rec.CustomerName,
		rec.ContactNumber, rec.Email, rec.DeviceDetails, rec.TroubleshootingCompleted,
		rec.EscalationStatus, rec.Timestamp)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTicket(ctx context.Context, ticketID string) (*models.TicketRecord, error) {
	var r models.TicketRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, ticket_id, raw_text, issue_description, customer_name, contact_number, email, device_details, troubleshooting_completed, escalation_status, created_at
		 FROM tickets WHERE ticket_id = $1`, ticketID,
	).Scan(&r.ID, &r.TicketID, &r.RawText, &r.IssueDescription, &r.CustomerName,
		&r.ContactNumber, &r.Email, &r.DeviceDetails, &r.TroubleshootingCompleted,
		&r.EscalationStatus, &r.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) ListTickets(ctx context.Context, filter TicketFilter) ([]*models.TicketRecord, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filter.EscalationStatus != "" {
		conditions = append(conditions, fmt.Sprintf("escalation_status ILIKE $%d", argIdx))
		args = append(args, "%"+filter.EscalationStatus+"%")
		argIdx++
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, filter.Since)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM tickets WHERE " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	dataQuery := fmt.Sprintf(
		`SELECT id, ticket_id, raw_text, issue_description, customer_name, contact_number, email, device_details, troubleshooting_completed, escalation_status, created_at
		 FROM tickets WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.TicketRecord
	for rows.Next() {
		var r models.TicketRecord
		if err := rows.Scan(&r.ID, &r.TicketID, &r.RawText, &r.IssueDescription, &r.CustomerName,
			&r.ContactNumber, &r.Email, &r.DeviceDetails, &r.TroubleshootingCompleted,
			&r.EscalationStatus, &r.Timestamp); err != nil {
			return nil, 0, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, &r)
	}
	return tickets, total, rows.Err()
}

// --- Analyses ---

func (s *PostgresStore) CreateAnalysis(ctx context.Context, a *models.TicketAnalysis) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ticket_analyses (id, ticket_ref, probability, reason, recommended_path, urgency, assessment_confidence, data_confidence, privacy_report, suggested_steps, provider, provider_fallback, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.TicketID, a.Assessment.Probability, a.Assessment.Reason,
		a.Assessment.RecommendedPath, a.Assessment.Urgency, a.Assessment.Confidence,
		a.DataConfidence, a.PrivacyReport, a.SuggestedSteps, a.Provider,
		a.ProviderFallback, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create analysis: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAnalysisByTicket(ctx context.Context, ticketRef uuid.UUID) (*models.TicketAnalysis, error) {
	var a models.TicketAnalysis
	err := s.pool.QueryRow(ctx,
		`SELECT id, ticket_ref, probability, reason, recommended_path, urgency, assessment_confidence, data_confidence, privacy_report, suggested_steps, provider, provider_fallback, created_at
		 FROM ticket_analyses WHERE ticket_ref = $1 ORDER BY created_at DESC LIMIT 1`, ticketRef,
	).Scan(&a.ID, &a.TicketID, &a.Assessment.Probability, &a.Assessment.Reason,
		&a.Assessment.RecommendedPath, &a.Assessment.Urgency, &a.Assessment.Confidence,
		&a.DataConfidence, &a.PrivacyReport, &a.SuggestedSteps, &a.Provider,
		&a.ProviderFallback, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis by ticket: %w", err)
	}
	return &a, nil
}

// --- Stats ---

func (s *PostgresStore) GetStats(ctx context.Context) (*models.TicketStats, error) {
	var stats models.TicketStats
	err := s.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM tickets),
		   (SELECT COUNT(*) FROM ticket_analyses),
		   COALESCE((SELECT 100.0 * COUNT(*) FILTER (WHERE probability >= 70) / NULLIF(COUNT(*), 0) FROM ticket_analyses), 0)`,
	).Scan(&stats.TotalTickets, &stats.TotalAnalyzed, &stats.EscalationRate)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &stats, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Store = (*PostgresStore)(nil)
