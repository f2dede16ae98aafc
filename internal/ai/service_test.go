package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Pradipwasre/xumo-support-ai/internal/ai/mock"
	"github.com/Pradipwasre/xumo-support-ai/internal/cache"
	"github.com/Pradipwasre/xumo-support-ai/internal/config"
	"github.com/Pradipwasre/xumo-support-ai/internal/knowledge"
	"github.com/Pradipwasre/xumo-support-ai/internal/privacy"
	"github.com/Pradipwasre/xumo-support-ai/internal/store"
	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

// --- mocks ---

type mockStore struct {
	mu                sync.Mutex
	tickets           []*models.TicketRecord
	analyses          []*models.TicketAnalysis
	createTicketErr   error
	createAnalysisErr error
}

func (s *mockStore) Ping(_ context.Context) error { return nil }
func (s *mockStore) GetAPIKeyByPrefix(_ context.Context, _ string) ([]*models.APIKey, error) {
	return nil, nil
}
func (s *mockStore) UpdateAPIKeyLastUsed(_ context.Context, _ uuid.UUID) error { return nil }
func (s *mockStore) CreateAPIKey(_ context.Context, _ *models.APIKey) error    { return nil }
func (s *mockStore) ListAPIKeys(_ context.Context) ([]*models.APIKey, error)   { return nil, nil }
func (s *mockStore) RevokeAPIKey(_ context.Context, _ uuid.UUID) error         { return nil }
func (s *mockStore) GetTicket(_ context.Context, _ string) (*models.TicketRecord, error) {
	return nil, store.ErrNotFound
}
func (s *mockStore) ListTickets(_ context.Context, _ store.TicketFilter) ([]*models.TicketRecord, int, error) {
	return nil, 0, nil
}
func (s *mockStore) GetAnalysisByTicket(_ context.Context, _ uuid.UUID) (*models.TicketAnalysis, error) {
	return nil, store.ErrNotFound
}
func (s *mockStore) GetStats(_ context.Context) (*models.TicketStats, error) { return nil, nil }

func (s *mockStore) CreateTicket(_ context.Context, rec *models.TicketRecord) error {
	if s.createTicketErr != nil {
		return s.createTicketErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = append(s.tickets, rec)
	return nil
}

func (s *mockStore) CreateAnalysis(_ context.Context, a *models.TicketAnalysis) error {
	if s.createAnalysisErr != nil {
		return s.createAnalysisErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses = append(s.analyses, a)
	return nil
}

type mockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string][]byte{}}
}

func (c *mockCache) Ping(_ context.Context) error { return nil }
func (c *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}
func (c *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok, nil
}
func (c *mockCache) Delete(_ context.Context, key string) error { return nil }
func (c *mockCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, nil
}

var _ cache.Cache = (*mockCache)(nil)
var _ store.Store = (*mockStore)(nil)

const serviceSample = `Issue Description: Device cannot connect to WiFi after firmware update rollout
Customer Name: John Smith
Contact Number: 555-123-4567
Email: john.smith@example.com
Device Details:
MAC Address: AA:BB:CC:DD:EE:FF
Serial Number: SN-998877
Troubleshooting Steps:
✅ Restarted the device
✅ Checked router settings
Customer requested escalation`

func newTestService(provider models.ReplyProvider, st store.Store, ca cache.Cache) *Service {
	anon := privacy.New(config.PrivacyConfig{PreserveFormat: true})
	return NewService(provider, anon, knowledge.Default(), st, ca, 5*time.Second)
}

// dualReplyProvider answers the escalation and suggestion requests with
// different canned replies, keyed off the request's token budget.
func dualReplyProvider(escalation, suggestions string) *mock.MockProvider {
	return &mock.MockProvider{
		Name_: "mock",
		CompleteFunc: func(_ context.Context, req models.ReplyRequest) (string, error) {
			if req.MaxTokens == escalationMaxTokens {
				return escalation, nil
			}
			return suggestions, nil
		},
	}
}

func TestProcess_EmptyInput(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(mock.NewStaticProvider("ignored"), st, nil)

	result, err := svc.Process(context.Background(), "   \n ")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if !result.ProviderFallback {
		t.Error("empty input must be flagged as fallback")
	}
	if result.Confidence != models.ConfidenceLow {
		t.Errorf("confidence = %s, want Low", result.Confidence)
	}
	if result.Assessment != models.DefaultEscalationAssessment() {
		t.Errorf("assessment = %+v, want defaults", result.Assessment)
	}
	if len(result.SuggestedSteps) == 0 {
		t.Error("suggested steps must never be empty")
	}
	if len(st.tickets) != 0 {
		t.Error("empty input must not be persisted")
	}
}

func TestProcess_NilProviderUsesDefaults(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(nil, st, nil)

	result, err := svc.Process(context.Background(), serviceSample)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if !result.ProviderFallback {
		t.Error("nil provider must flag fallback")
	}
	if result.Assessment != models.DefaultEscalationAssessment() {
		t.Errorf("assessment = %+v, want defaults", result.Assessment)
	}
	if result.Provider != "none" {
		t.Errorf("provider = %q, want none", result.Provider)
	}
	if len(st.tickets) != 1 || len(st.analyses) != 1 {
		t.Errorf("persisted tickets=%d analyses=%d, want 1 and 1", len(st.tickets), len(st.analyses))
	}
}

func TestProcess_FullPipeline(t *testing.T) {
	provider := dualReplyProvider(
		"Probability: 85%, Reason: Multiple failed attempts, Path: Engineering, Urgency: High",
		"1. Re-register the MAC address\n2. Assign a static IP",
	)
	st := &mockStore{}
	svc := newTestService(provider, st, nil)

	result, err := svc.Process(context.Background(), serviceSample)
	if err != nil {
		t.Fatalf("err = %v", err)
	}

	if result.Assessment.Probability != 85 {
		t.Errorf("probability = %d, want 85", result.Assessment.Probability)
	}
	if result.Assessment.Confidence != models.ConfidenceHigh {
		t.Errorf("assessment confidence = %s", result.Assessment.Confidence)
	}
	if result.ProviderFallback {
		t.Error("fallback flagged on a successful run")
	}
	if result.Confidence != models.ConfidenceHigh {
		t.Errorf("data confidence = %s, want High for a rich ticket", result.Confidence)
	}

	// Redaction must be complete on the returned record.
	if result.Ticket.Email != "[EMAIL_REMOVED]" || result.Ticket.CustomerName != "[CUSTOMER_NAME]" {
		t.Errorf("ticket not anonymized: email=%q name=%q", result.Ticket.Email, result.Ticket.CustomerName)
	}
	if result.Ticket.DeviceDetails["mac_address"] != "AA:BB:CC:DD:EE:FF" {
		t.Error("device identifiers must survive anonymization")
	}
	if !result.Privacy.PIIRemoved {
		t.Error("privacy report must record removals")
	}
	if !strings.HasPrefix(result.Ticket.TicketID, "TKT_") {
		t.Errorf("ticket id = %q", result.Ticket.TicketID)
	}

	wantSteps := []string{"Re-register the MAC address", "Assign a static IP"}
	if len(result.SuggestedSteps) != 2 || result.SuggestedSteps[0] != wantSteps[0] || result.SuggestedSteps[1] != wantSteps[1] {
		t.Errorf("steps = %v, want %v", result.SuggestedSteps, wantSteps)
	}

	if len(st.tickets) != 1 || len(st.analyses) != 1 {
		t.Fatalf("persisted tickets=%d analyses=%d", len(st.tickets), len(st.analyses))
	}
	if st.analyses[0].TicketID != st.tickets[0].ID {
		t.Error("analysis must reference the stored ticket")
	}
}

func TestProcess_PIINeverReachesProvider(t *testing.T) {
	var prompts []string
	var mu sync.Mutex
	provider := &mock.MockProvider{
		Name_: "mock",
		CompleteFunc: func(_ context.Context, req models.ReplyRequest) (string, error) {
			mu.Lock()
			prompts = append(prompts, req.Prompt)
			mu.Unlock()
			return "Probability: 40%", nil
		},
	}
	svc := newTestService(provider, &mockStore{}, nil)

	if _, err := svc.Process(context.Background(), serviceSample); err != nil {
		t.Fatalf("err = %v", err)
	}

	for _, p := range prompts {
		for _, leaked := range []string{"john.smith@example.com", "555-123-4567", "John Smith"} {
			if strings.Contains(p, leaked) {
				t.Errorf("prompt leaked %q", leaked)
			}
		}
	}
}

func TestProcess_ProviderFailureFallsBack(t *testing.T) {
	provider := mock.NewFailingProvider(models.ErrProviderUnavailable)
	st := &mockStore{}
	svc := newTestService(provider, st, nil)

	result, err := svc.Process(context.Background(), serviceSample)
	if err != nil {
		t.Fatalf("provider failure must not fail the pipeline: %v", err)
	}
	if !result.ProviderFallback {
		t.Error("fallback not flagged")
	}
	if result.Assessment != models.DefaultEscalationAssessment() {
		t.Errorf("assessment = %+v, want defaults", result.Assessment)
	}
	if len(result.SuggestedSteps) != 5 {
		t.Errorf("steps = %v, want the 5 defaults", result.SuggestedSteps)
	}
	if len(st.tickets) != 1 {
		t.Error("ticket must still be persisted on provider failure")
	}
}

func TestProcess_UnparseableReplyDowngradesConfidence(t *testing.T) {
	provider := dualReplyProvider("this is not a valid response", "no steps either")
	svc := newTestService(provider, &mockStore{}, nil)

	result, err := svc.Process(context.Background(), serviceSample)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if result.ProviderFallback {
		t.Error("a reply arrived, so the run is not a provider fallback")
	}
	if result.Assessment.Confidence != models.ConfidenceLow {
		t.Errorf("assessment confidence = %s, want Low", result.Assessment.Confidence)
	}
	if result.Assessment.Probability != 50 {
		t.Errorf("probability = %d, want default 50", result.Assessment.Probability)
	}
	if len(result.SuggestedSteps) != 5 {
		t.Errorf("steps = %v, want the 5 defaults", result.SuggestedSteps)
	}
}

func TestProcess_StoreFailureSurfaces(t *testing.T) {
	st := &mockStore{createTicketErr: errors.New("connection refused")}
	svc := newTestService(nil, st, nil)

	if _, err := svc.Process(context.Background(), serviceSample); err == nil {
		t.Fatal("expected persistence error")
	}
}

func TestProcess_CacheRoundtrip(t *testing.T) {
	ca := newMockCache()
	st := &mockStore{}
	svc := newTestService(nil, st, ca)

	first, err := svc.Process(context.Background(), serviceSample)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if first.Cached {
		t.Error("first run must not be cached")
	}

	second, err := svc.Process(context.Background(), serviceSample)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if !second.Cached {
		t.Error("second run with identical text must hit the cache")
	}
	if second.Ticket.TicketID != first.Ticket.TicketID {
		t.Errorf("cached run changed ticket id: %q vs %q", second.Ticket.TicketID, first.Ticket.TicketID)
	}
	if len(st.tickets) != 1 {
		t.Errorf("cache hit must not persist again: %d tickets", len(st.tickets))
	}
}
