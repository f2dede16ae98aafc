// Package ai composes the ticket pipeline: parse, anonymize, score, ask the
// reply provider, interpret. It owns the only code path that talks to an
// external text-generation service, and it only ever sends anonymized text.
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Pradipwasre/xumo-support-ai/internal/cache"
	"github.com/Pradipwasre/xumo-support-ai/internal/knowledge"
	"github.com/Pradipwasre/xumo-support-ai/internal/privacy"
	"github.com/Pradipwasre/xumo-support-ai/internal/store"
	"github.com/Pradipwasre/xumo-support-ai/internal/ticket"
	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

// Token budgets per request type, matching the shape of each expected reply.
const (
	escalationMaxTokens = 200
	suggestionMaxTokens = 300
)

const resultCacheTTL = time.Hour

// ProcessResult is the complete outcome of one pipeline run. Every field is
// always populated: provider failures degrade individual stages, they never
// leave holes.
type ProcessResult struct {
	Ticket           models.TicketRecord         `json:"ticket"`
	Privacy          models.PrivacyReport        `json:"privacy_report"`
	PrivacySummary   string                      `json:"privacy_summary"`
	PrivacyWarnings  []string                    `json:"privacy_warnings,omitempty"`
	Assessment       models.EscalationAssessment `json:"assessment"`
	Confidence       models.ConfidenceLevel      `json:"confidence"`
	SuggestedSteps   []string                    `json:"suggested_steps"`
	Provider         string                      `json:"provider"`
	ProviderFallback bool                        `json:"provider_fallback"`
	Cached           bool                        `json:"cached"`
}

// Service runs the ticket pipeline end to end.
type Service struct {
	provider   models.ReplyProvider // nil means no provider configured
	anonymizer *privacy.Anonymizer
	kb         *knowledge.Base
	store      store.Store
	cache      cache.Cache
	timeout    time.Duration
}

// NewService creates a pipeline Service. provider may be nil (every run then
// uses deterministic fallbacks); store and cache may be nil in tests.
func NewService(provider models.ReplyProvider, anonymizer *privacy.Anonymizer, kb *knowledge.Base, st store.Store, ca cache.Cache, timeout time.Duration) *Service {
	return &Service{
		provider:   provider,
		anonymizer: anonymizer,
		kb:         kb,
		store:      st,
		cache:      ca,
		timeout:    timeout,
	}
}

// Process runs raw ticket text through the full pipeline:
// parse → anonymize → score → provider call → interpret → persist.
// It never returns a partial result: degraded stages fall back to documented
// defaults, and only infrastructure failures (persistence) surface as errors.
func (s *Service) Process(ctx context.Context, rawText string) (*ProcessResult, error) {
	if strings.TrimSpace(rawText) == "" {
		return s.emptyResult(), nil
	}

	cacheKey := cache.ResultKey(textHash(rawText))
	if cached, ok := s.cachedResult(ctx, cacheKey); ok {
		return cached, nil
	}

	now := time.Now().UTC()
	rec := ticket.Parse(rawText)
	rec.ID = uuid.New()
	rec.TicketID = models.NewTicketID(now)
	rec.Timestamp = now

	anon, report := s.anonymizer.AnonymizeTicket(rec)
	confidence := ticket.Score(anon)

	for category, clean := range s.anonymizer.Validate(anon.RawText) {
		if !clean {
			slog.Debug("pattern still matches after anonymization",
				"category", category, "ticket_id", anon.TicketID)
		}
	}
	warnings := s.anonymizer.EmergencyCheck(anon.RawText)

	summary := BuildTicketSummary(anon)
	assessment, fallback := s.assessEscalation(ctx, anon.TicketID, summary)
	steps := s.suggestSteps(ctx, anon.TicketID, summary, anon.IssueDescription)

	result := &ProcessResult{
		Ticket:           anon,
		Privacy:          report,
		PrivacySummary:   privacy.Summarize(report),
		PrivacyWarnings:  warnings,
		Assessment:       assessment,
		Confidence:       confidence,
		SuggestedSteps:   steps,
		Provider:         s.providerName(),
		ProviderFallback: fallback,
	}

	if s.store != nil {
		if err := s.store.CreateTicket(ctx, &anon); err != nil {
			return nil, fmt.Errorf("persisting ticket: %w", err)
		}
		analysis := &models.TicketAnalysis{
			ID:               uuid.New(),
			TicketID:         anon.ID,
			Assessment:       assessment,
			DataConfidence:   confidence,
			PrivacyReport:    report,
			SuggestedSteps:   steps,
			Provider:         s.providerName(),
			ProviderFallback: fallback,
			CreatedAt:        now,
		}
		if err := s.store.CreateAnalysis(ctx, analysis); err != nil {
			return nil, fmt.Errorf("persisting analysis: %w", err)
		}
	}

	s.cacheResult(ctx, cacheKey, result)

	slog.Info("ticket processed",
		"ticket_id", anon.TicketID,
		"confidence", confidence,
		"escalation_probability", assessment.Probability,
		"pii_removed", report.PIIRemoved,
		"provider_fallback", fallback,
	)

	return result, nil
}

// assessEscalation asks the provider for an escalation read and interprets
// the reply. Any failure collapses to the interpreter defaults; a missing
// provider or transport error additionally flags the run as a fallback.
func (s *Service) assessEscalation(ctx context.Context, ticketID, summary string) (models.EscalationAssessment, bool) {
	if s.provider == nil {
		return models.DefaultEscalationAssessment(), true
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.provider.Complete(callCtx, models.ReplyRequest{
		System:    escalationSystem,
		Prompt:    escalationPrompt(summary),
		MaxTokens: escalationMaxTokens,
	})
	if err != nil {
		slog.Warn("escalation request failed, using defaults",
			"error", err, "ticket_id", ticketID, "provider", s.provider.Name())
		return models.DefaultEscalationAssessment(), true
	}

	assessment, ierr := InterpretEscalation(reply)
	if ierr != nil {
		slog.Warn("escalation reply did not parse cleanly",
			"error", ierr, "ticket_id", ticketID)
	}
	return assessment, false
}

// suggestSteps asks the provider for next troubleshooting steps, seeded with
// knowledge-base context. Falls back to the deterministic default list.
func (s *Service) suggestSteps(ctx context.Context, ticketID, summary, issue string) []string {
	if s.provider == nil {
		return defaultSuggestedSteps()
	}

	var kbSteps []string
	if s.kb != nil {
		kbSteps = s.kb.Search(issue, "")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.provider.Complete(callCtx, models.ReplyRequest{
		System:    suggestionSystem,
		Prompt:    suggestionPrompt(summary, kbSteps),
		MaxTokens: suggestionMaxTokens,
	})
	if err != nil {
		slog.Warn("suggestion request failed, using defaults",
			"error", err, "ticket_id", ticketID, "provider", s.provider.Name())
		return defaultSuggestedSteps()
	}

	if steps := parseSuggestedSteps(reply); len(steps) > 0 {
		return steps
	}
	return defaultSuggestedSteps()
}

// emptyResult is what entirely unusable input produces: a recognizably-empty
// record with defaults everywhere, never an error or a missing field.
func (s *Service) emptyResult() *ProcessResult {
	return &ProcessResult{
		Ticket: models.TicketRecord{DeviceDetails: map[string]string{}},
		Privacy: models.PrivacyReport{
			CategoriesAffected: []string{},
			Summary:            map[string]int{},
		},
		PrivacySummary:   privacy.Summarize(models.PrivacyReport{}),
		Assessment:       models.DefaultEscalationAssessment(),
		Confidence:       models.ConfidenceLow,
		SuggestedSteps:   defaultSuggestedSteps(),
		Provider:         s.providerName(),
		ProviderFallback: true,
	}
}

func (s *Service) providerName() string {
	if s.provider == nil {
		return "none"
	}
	return s.provider.Name()
}

func (s *Service) cachedResult(ctx context.Context, key string) (*ProcessResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var result ProcessResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	result.Cached = true
	return &result, true
}

func (s *Service) cacheResult(ctx context.Context, key string, result *ProcessResult) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, data, resultCacheTTL)
}

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", sum)
}
