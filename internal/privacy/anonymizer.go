package privacy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Pradipwasre/xumo-support-ai/internal/config"
	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

// Wholesale placeholders for fields that are sensitive by definition:
// the mere presence of a value is PII regardless of its shape.
const (
	placeholderName  = "[CUSTOMER_NAME]"
	placeholderPhone = "[PHONE_REMOVED]"
	placeholderEmail = "[EMAIL_REMOVED]"
)

// Detected-category keys used in report summaries.
const (
	summaryEmails      = "emails"
	summaryPhones      = "phones"
	summarySSNs        = "ssns"
	summaryCreditCards = "credit_cards"
	summaryNames       = "names"
)

var (
	rePhonePlusOne = regexp.MustCompile(`^\+1`)
	rePhoneParen   = regexp.MustCompile(`^\(\d{3}\)`)
	reNonDigit     = regexp.MustCompile(`\D`)
)

// Anonymizer replaces PII in text with format-preserving placeholders.
// Construct once at startup and share freely; it is immutable and safe for
// concurrent use.
type Anonymizer struct {
	preserveFormat bool
	strict         []pattern
	loose          []pattern
}

// New builds an Anonymizer from config. Patterns compile once here, never
// per call.
func New(cfg config.PrivacyConfig) *Anonymizer {
	return &Anonymizer{
		preserveFormat: cfg.PreserveFormat,
		strict:         strictPatterns(),
		loose:          loosePatterns(),
	}
}

// AnonymizeText replaces every strict-pattern match in text and returns the
// redacted text plus masked previews of what was found, keyed by summary
// category. Previews never contain enough of the original to reconstruct it.
func (a *Anonymizer) AnonymizeText(text string) (string, map[string][]string) {
	detected := map[string][]string{}
	if text == "" {
		return text, detected
	}

	out := text
	for _, p := range a.strict {
		for _, match := range p.re.FindAllString(out, -1) {
			// Exact-substring replacement: repeated literals all go at once.
			out = strings.ReplaceAll(out, match, a.replacement(match, p.category))
			key, preview := maskedPreview(match, p.category)
			detected[key] = append(detected[key], preview)
		}
	}

	return out, detected
}

// replacement picks the placeholder for one matched value.
func (a *Anonymizer) replacement(match, category string) string {
	if !a.preserveFormat {
		return "[" + strings.ToUpper(category) + "_REMOVED]"
	}

	switch category {
	case CategoryEmail:
		// Keep the domain for routing and debugging; the local part is the
		// identifying piece.
		domain := match
		if i := strings.LastIndex(match, "@"); i >= 0 {
			domain = match[i+1:]
		}
		return "user@" + domain
	case CategoryPhone:
		switch {
		case rePhonePlusOne.MatchString(match):
			return "+1-XXX-XXX-XXXX"
		case rePhoneParen.MatchString(match):
			return "(XXX) XXX-XXXX"
		default:
			return "XXX-XXX-XXXX"
		}
	case CategorySSN:
		return "XXX-XX-XXXX"
	case CategoryCreditCard:
		return "XXXX-XXXX-XXXX-XXXX"
	}
	return "[" + strings.ToUpper(category) + "_REMOVED]"
}

// maskedPreview builds the partially masked audit preview for a match.
// SSNs and card numbers are reported as fixed markers only: no digits kept.
func maskedPreview(match, category string) (summaryKey, preview string) {
	switch category {
	case CategoryEmail:
		return summaryEmails, maskEmail(match)
	case CategoryPhone:
		return summaryPhones, maskPhone(match)
	case CategorySSN:
		return summarySSNs, "***-**-****"
	case CategoryCreditCard:
		return summaryCreditCards, "****-****-****-****"
	}
	return category, strings.Repeat("*", len(match))
}

func maskEmail(addr string) string {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok {
		return maskTail(addr, 2)
	}
	return maskTail(local, 2) + "@" + domain
}

// maskTail keeps the first keep characters and stars the rest.
func maskTail(s string, keep int) string {
	if len(s) <= keep {
		return s
	}
	return s[:keep] + strings.Repeat("*", len(s)-keep)
}

func maskPhone(phone string) string {
	digits := reNonDigit.ReplaceAllString(phone, "")
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// AnonymizeTicket applies AnonymizeText to every text-bearing field of a
// record plus each troubleshooting step, then unconditionally replaces the
// customer name, contact number, and email fields with fixed placeholders.
// Device details are deliberately left alone: engineering teams need MAC
// addresses and serials, and they are not classified as personal data.
// The input record is never mutated; a redacted copy and an audit report are
// returned.
func (a *Anonymizer) AnonymizeTicket(rec models.TicketRecord) (models.TicketRecord, models.PrivacyReport) {
	out := rec.Clone()

	var affected []string
	seen := map[string]bool{}
	markChanged := func(field string) {
		if !seen[field] {
			seen[field] = true
			affected = append(affected, field)
		}
	}

	summary := map[string]int{}
	tally := func(detected map[string][]string) {
		for key, previews := range detected {
			summary[key] += len(previews)
		}
	}

	fields := []struct {
		name string
		val  *string
	}{
		{"raw_text", &out.RawText},
		{"issue_description", &out.IssueDescription},
		{"customer_name", &out.CustomerName},
		{"contact_number", &out.ContactNumber},
		{"email", &out.Email},
		{"escalation_status", &out.EscalationStatus},
	}

	for _, f := range fields {
		if *f.val == "" {
			continue
		}
		redacted, detected := a.AnonymizeText(*f.val)
		tally(detected)
		if redacted != *f.val {
			*f.val = redacted
			markChanged(f.name)
		}
	}

	for i, step := range out.TroubleshootingCompleted {
		redacted, detected := a.AnonymizeText(step)
		tally(detected)
		if redacted != step {
			out.TroubleshootingCompleted[i] = redacted
			markChanged("troubleshooting_completed")
		}
	}

	// Wholesale replacement: these fields are sensitive whenever non-empty,
	// whether or not a pattern fired. The name's masked preview goes into
	// the summary before the value is discarded.
	if out.CustomerName != "" {
		summary[summaryNames]++
		out.CustomerName = placeholderName
		markChanged("customer_name")
	}
	if out.ContactNumber != "" {
		out.ContactNumber = placeholderPhone
		markChanged("contact_number")
	}
	if out.Email != "" {
		out.Email = placeholderEmail
		markChanged("email")
	}

	if affected == nil {
		affected = []string{}
	}

	return out, models.PrivacyReport{
		PIIRemoved:         len(affected) > 0,
		ItemsAnonymized:    len(affected),
		CategoriesAffected: affected,
		Summary:            summary,
	}
}

// Validate re-applies the strict patterns to already-anonymized text and
// reports, per category, whether it came back clean (true = zero matches).
// A correctness check, not a blocking gate.
func (a *Anonymizer) Validate(text string) map[string]bool {
	results := make(map[string]bool, len(a.strict))
	for _, p := range a.strict {
		results[p.category] = !p.re.MatchString(text)
	}
	return results
}

// EmergencyCheck sweeps text with the loose patterns and returns advisory
// warnings for anything the strict pass may have missed.
func (a *Anonymizer) EmergencyCheck(text string) []string {
	var warnings []string
	for _, p := range a.loose {
		if n := len(p.re.FindAllString(text, -1)); n > 0 {
			warnings = append(warnings, fmt.Sprintf("potential %s detected: %d instances", p.category, n))
		}
	}
	return warnings
}

// Summarize renders a PrivacyReport as a short human-readable notice.
func Summarize(report models.PrivacyReport) string {
	if !report.PIIRemoved {
		return "No PII detected - no anonymization needed"
	}

	lines := []string{
		"PII anonymization completed",
		fmt.Sprintf("Items processed: %d", report.ItemsAnonymized),
	}
	if len(report.CategoriesAffected) > 0 {
		lines = append(lines, "Fields affected: "+strings.Join(report.CategoriesAffected, ", "))
	}
	if len(report.Summary) > 0 {
		var parts []string
		for _, key := range []string{summaryEmails, summaryPhones, summarySSNs, summaryCreditCards, summaryNames} {
			if n := report.Summary[key]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s: %d", key, n))
			}
		}
		if len(parts) > 0 {
			lines = append(lines, "PII types found: "+strings.Join(parts, ", "))
		}
	}
	lines = append(lines, "Device identifiers preserved for technical support")
	return strings.Join(lines, "\n")
}
