package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

// System prompts sent alongside each request type.
const (
	escalationSystem = `Analyze this support ticket and predict escalation needs. Consider:
- Issue complexity
- Previous troubleshooting attempts
- Customer sentiment
- Technical requirements

Provide escalation probability (0-100%) and reasoning.`

	suggestionSystem = `You are an expert customer support assistant. Analyze the support ticket and suggest practical next troubleshooting steps. Be concise, practical, and professional. Focus on actionable solutions.`
)

// maxSuggestedSteps bounds how many steps we keep from a reply.
const maxSuggestedSteps = 5

// BuildTicketSummary renders an anonymized record as the newline-joined
// prompt context: issue, then device details, then completed steps, then
// escalation status. Empty fields are skipped. Only ever call this with an
// anonymized record; the summary goes to an external service.
func BuildTicketSummary(rec models.TicketRecord) string {
	var parts []string

	if rec.IssueDescription != "" {
		parts = append(parts, "Issue: "+rec.IssueDescription)
	}

	if len(rec.DeviceDetails) > 0 {
		keys := make([]string, 0, len(rec.DeviceDetails))
		for k, v := range rec.DeviceDetails {
			if v != "" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var info []string
		for _, k := range keys {
			info = append(info, k+": "+rec.DeviceDetails[k])
		}
		if len(info) > 0 {
			parts = append(parts, "Device: "+strings.Join(info, ", "))
		}
	}

	if len(rec.TroubleshootingCompleted) > 0 {
		parts = append(parts, "Completed steps: "+strings.Join(rec.TroubleshootingCompleted, "; "))
	}

	if rec.EscalationStatus != "" {
		parts = append(parts, "Status: "+rec.EscalationStatus)
	}

	return strings.Join(parts, "\n")
}

func escalationPrompt(summary string) string {
	return fmt.Sprintf(`Analyze this support ticket for escalation needs:

%s

Provide:
1. Escalation probability (0-100%%)
2. Primary reason for escalation assessment
3. Recommended escalation path (Tier 2, Engineering, Manager, etc.)
4. Urgency level (Low, Medium, High, Critical)

Format as: Probability: X%%, Reason: [reason], Path: [path], Urgency: [level]`, summary)
}

func suggestionPrompt(summary string, kbSteps []string) string {
	kb := strings.Join(kbSteps, "\n")
	return fmt.Sprintf(`Ticket Summary:
%s

Available Knowledge Base Steps:
%s

Please suggest 3-5 specific next troubleshooting steps that haven't been completed yet.
Be practical and prioritize steps most likely to resolve the issue.
Return only the steps as a numbered list.`, summary, kb)
}

// parseSuggestedSteps pulls clean step text out of a numbered or bulleted
// reply. Returns nil when the reply yields nothing usable.
func parseSuggestedSteps(reply string) []string {
	var steps []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first := line[0]
		if (first < '0' || first > '9') && first != '-' && !strings.HasPrefix(line, "•") {
			continue
		}
		step := strings.TrimSpace(strings.TrimLeft(line, "0123456789.-• "))
		if step != "" {
			steps = append(steps, step)
		}
		if len(steps) == maxSuggestedSteps {
			break
		}
	}
	return steps
}

// defaultSuggestedSteps is the deterministic fallback when the provider is
// unavailable or its reply had no parseable steps.
func defaultSuggestedSteps() []string {
	return []string{
		"Verify device network connectivity with ping test",
		"Check DHCP lease and consider static IP assignment",
		"Examine router logs for connection errors",
		"Test with alternative network connection",
		"Contact ISP to verify service status",
	}
}
