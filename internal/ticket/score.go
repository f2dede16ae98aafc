package ticket

import "github.com/Pradipwasre/xumo-support-ai/pkg/models"

// Point budget for the data-quality score, out of 100.
const (
	descLongPoints   = 30 // description longer than 50 chars
	descMediumPoints = 20 // longer than 20 chars
	descShortPoints  = 10 // non-empty

	devicePointsEach = 12
	devicePointsCap  = 25

	stepPointsEach = 8
	stepPointsCap  = 25

	completenessPoints = 20
)

// Score grades a record's completeness and richness into a three-level
// confidence label. Pure function: the same record always scores the same.
// The pipeline scores the anonymized record, so placeholder text (not the
// original PII) determines description length.
func Score(rec models.TicketRecord) models.ConfidenceLevel {
	score := 0.0

	// Issue description quality.
	if desc := rec.IssueDescription; desc != "" {
		switch {
		case len(desc) > 50:
			score += descLongPoints
		case len(desc) > 20:
			score += descMediumPoints
		default:
			score += descShortPoints
		}
	}

	// Device detail richness. Device identifiers survive anonymization, so
	// this dimension is unaffected by redaction.
	populated := 0
	for _, v := range rec.DeviceDetails {
		if v != "" {
			populated++
		}
	}
	score += capped(populated*devicePointsEach, devicePointsCap)

	// Troubleshooting history.
	score += capped(len(rec.TroubleshootingCompleted)*stepPointsEach, stepPointsCap)

	// Data completeness across the three core fields.
	core := 0
	if rec.IssueDescription != "" {
		core++
	}
	if len(rec.DeviceDetails) > 0 {
		core++
	}
	if len(rec.TroubleshootingCompleted) > 0 {
		core++
	}
	score += float64(core) / 3.0 * completenessPoints

	if score > 100 {
		score = 100
	}

	switch {
	case score >= 80:
		return models.ConfidenceHigh
	case score >= 60:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func capped(points, limit int) float64 {
	if points > limit {
		points = limit
	}
	return float64(points)
}
