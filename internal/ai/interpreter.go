package ai

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

// ErrNoReply signals that no reply text was available to interpret.
var ErrNoReply = errors.New("no reply text to interpret")

// Reply markers, located independently by first occurrence in the
// lower-cased reply. A missing marker leaves its field at the default;
// a malformed one fails the whole parse.
const (
	markerProbability = "probability:"
	markerReason      = "reason:"
	markerPath        = "path:"
	markerUrgency     = "urgency:"
)

// InterpretEscalation parses a semi-structured provider reply into an
// escalation assessment. It never panics on malformed input.
//
// The returned error explains why the assessment fell back to defaults:
// ErrNoReply when reply is empty, or a parse error when a marker was
// malformed or no marker was found at all (in both cases confidence is
// forced to Low and no field is updated). Callers can branch on the error
// instead of inferring from the confidence label.
func InterpretEscalation(reply string) (models.EscalationAssessment, error) {
	assessment := models.DefaultEscalationAssessment()

	if strings.TrimSpace(reply) == "" {
		return assessment, ErrNoReply
	}

	parsed, err := parseEscalationReply(strings.ToLower(reply))
	if err == nil && parsed == (parsedReply{}) {
		err = fmt.Errorf("reply contains no recognized markers")
	}
	if err != nil {
		assessment.Confidence = models.ConfidenceLow
		return assessment, err
	}

	if parsed.probability != nil {
		assessment.Probability = *parsed.probability
	}
	if parsed.reason != nil {
		assessment.Reason = *parsed.reason
	}
	if parsed.path != nil {
		assessment.RecommendedPath = *parsed.path
	}
	if parsed.urgency != nil {
		assessment.Urgency = *parsed.urgency
	}
	assessment.Confidence = models.ConfidenceHigh

	return assessment, nil
}

// parsedReply holds marker values found in a reply. Nil means the marker was
// absent, which is not an error.
type parsedReply struct {
	probability *int
	reason      *string
	path        *string
	urgency     *string
}

// parseEscalationReply extracts every present marker, all-or-nothing: one
// malformed marker fails the lot so partial garbage never overwrites the
// defaults.
func parseEscalationReply(lower string) (parsedReply, error) {
	var out parsedReply

	if rest, ok := textAfter(lower, markerProbability); ok {
		// Value is the first whitespace-delimited token before the next '%'.
		numText := rest
		if i := strings.Index(rest, "%"); i >= 0 {
			numText = rest[:i]
		}
		fields := strings.Fields(numText)
		if len(fields) == 0 {
			return parsedReply{}, fmt.Errorf("probability marker has no value")
		}
		f, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return parsedReply{}, fmt.Errorf("parse probability %q: %w", fields[0], err)
		}
		p := int(f)
		out.probability = &p
	}

	if rest, ok := textAfter(lower, markerReason); ok {
		v := strings.TrimSpace(beforeComma(rest))
		out.reason = &v
	}

	if rest, ok := textAfter(lower, markerPath); ok {
		v := strings.TrimSpace(beforeComma(rest))
		out.path = &v
	}

	if rest, ok := textAfter(lower, markerUrgency); ok {
		// Urgency takes the remainder of the reply, no delimiter.
		v := strings.TrimSpace(rest)
		out.urgency = &v
	}

	return out, nil
}

func textAfter(s, marker string) (string, bool) {
	i := strings.Index(s, marker)
	if i < 0 {
		return "", false
	}
	return s[i+len(marker):], true
}

func beforeComma(s string) string {
	if i := strings.Index(s, ","); i >= 0 {
		return s[:i]
	}
	return s
}
