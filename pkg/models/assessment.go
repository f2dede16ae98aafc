package models

// Urgency labels for an escalation assessment.
const (
	UrgencyLow      = "Low"
	UrgencyMedium   = "Medium"
	UrgencyHigh     = "High"
	UrgencyCritical = "Critical"
)

// ConfidenceLevel is a coarse three-level label. It grades both how complete
// the input data was (data-quality score) and how much of an escalation
// assessment came from reliable parsing rather than defaults.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

// EscalationAssessment is a derived opinion on whether a ticket needs hand-off.
type EscalationAssessment struct {
	Probability     int             `json:"probability"` // 0-100
	Reason          string          `json:"reason"`
	RecommendedPath string          `json:"recommended_path"`
	Urgency         string          `json:"urgency"`
	Confidence      ConfidenceLevel `json:"confidence"`
}

// DefaultEscalationAssessment returns the fixed baseline every interpretation
// starts from. Fields are overwritten only when their marker parses cleanly.
func DefaultEscalationAssessment() EscalationAssessment {
	return EscalationAssessment{
		Probability:     50,
		Reason:          "Standard troubleshooting progression",
		RecommendedPath: "Tier 2 Support",
		Urgency:         UrgencyMedium,
		Confidence:      ConfidenceMedium,
	}
}
