package models

// PrivacyReport is the audit trail of one anonymization pass. It never holds
// original values; detected PII appears only as counts and masked previews.
type PrivacyReport struct {
	PIIRemoved         bool           `json:"pii_removed"`
	ItemsAnonymized    int            `json:"items_anonymized"`
	CategoriesAffected []string       `json:"categories_affected"`
	Summary            map[string]int `json:"summary"`
}
