// Package privacy detects and replaces PII in ticket text. Detection is
// pattern-driven and best-effort: a strict pass drives replacement, a
// validation pass re-checks the output, and a loose emergency sweep surfaces
// near-misses as advisory warnings without ever mutating text.
package privacy

import "regexp"

// PII categories handled by the strict detection pass.
const (
	CategoryEmail      = "email"
	CategoryPhone      = "phone"
	CategorySSN        = "ssn"
	CategoryCreditCard = "credit_card"
)

// pattern pairs a compiled regex with its PII category. Order matters:
// categories are applied in the order listed in strictPatterns.
type pattern struct {
	category string
	re       *regexp.Regexp
}

// strictPatterns compiles the replacement-driving detection set.
// Case-insensitive throughout; word boundaries keep digit runs from matching
// inside longer identifiers such as MAC addresses or serials.
func strictPatterns() []pattern {
	return []pattern{
		{CategoryEmail, regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
		{CategoryPhone, regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}\b`)},
		{CategorySSN, regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`)},
		{CategoryCreditCard, regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)},
	}
}

// loosePatterns compiles the higher-recall emergency sweep. These are
// deliberately sloppy: they catch shapes the strict set misses at the cost
// of false positives, which is acceptable for an advisory check.
func loosePatterns() []pattern {
	return []pattern{
		{"email", regexp.MustCompile(`\b\w+@\w+\b`)},
		{"phone", regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
		{"ssn", regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`)},
	}
}
