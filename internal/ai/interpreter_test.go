package ai

import (
	"errors"
	"testing"

	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

func TestInterpretEscalation_EmptyReplyReturnsDefaults(t *testing.T) {
	got, err := InterpretEscalation("")
	if !errors.Is(err, ErrNoReply) {
		t.Fatalf("err = %v, want ErrNoReply", err)
	}
	if got != models.DefaultEscalationAssessment() {
		t.Errorf("assessment = %+v, want exact default tuple", got)
	}
}

func TestInterpretEscalation_WhitespaceOnlyIsEmpty(t *testing.T) {
	_, err := InterpretEscalation("   \n\t ")
	if !errors.Is(err, ErrNoReply) {
		t.Errorf("err = %v, want ErrNoReply", err)
	}
}

func TestInterpretEscalation_WellFormedReply(t *testing.T) {
	reply := "Probability: 85%, Reason: Multiple failed troubleshooting attempts, Path: Engineering, Urgency: High"
	got, err := InterpretEscalation(reply)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if got.Probability != 85 {
		t.Errorf("probability = %d, want 85", got.Probability)
	}
	if got.Reason != "multiple failed troubleshooting attempts" {
		t.Errorf("reason = %q", got.Reason)
	}
	if got.RecommendedPath != "engineering" {
		t.Errorf("path = %q", got.RecommendedPath)
	}
	if got.Urgency != "high" {
		t.Errorf("urgency = %q", got.Urgency)
	}
	if got.Confidence != models.ConfidenceHigh {
		t.Errorf("confidence = %s, want High", got.Confidence)
	}
}

func TestInterpretEscalation_MixedCaseMarkers(t *testing.T) {
	got, err := InterpretEscalation("PROBABILITY: 70%, REASON: repeated outages, PATH: tier 2, URGENCY: Medium")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if got.Probability != 70 || got.Urgency != "medium" {
		t.Errorf("assessment = %+v", got)
	}
}

func TestInterpretEscalation_PartialMarkersKeepDefaults(t *testing.T) {
	got, err := InterpretEscalation("Probability: 90% based on the history")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	defaults := models.DefaultEscalationAssessment()
	if got.Probability != 90 {
		t.Errorf("probability = %d, want 90", got.Probability)
	}
	if got.Reason != defaults.Reason || got.RecommendedPath != defaults.RecommendedPath || got.Urgency != defaults.Urgency {
		t.Errorf("absent markers must keep defaults: %+v", got)
	}
	if got.Confidence != models.ConfidenceHigh {
		t.Errorf("confidence = %s, want High", got.Confidence)
	}
}

func TestInterpretEscalation_FractionalProbabilityTruncates(t *testing.T) {
	got, err := InterpretEscalation("Probability: 72.6%")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if got.Probability != 72 {
		t.Errorf("probability = %d, want 72", got.Probability)
	}
}

func TestInterpretEscalation_NoMarkersFallsBackLow(t *testing.T) {
	got, err := InterpretEscalation("this is not a valid response")
	if err == nil {
		t.Fatal("expected an error describing the downgrade")
	}
	defaults := models.DefaultEscalationAssessment()
	if got.Probability != defaults.Probability || got.Reason != defaults.Reason ||
		got.RecommendedPath != defaults.RecommendedPath || got.Urgency != defaults.Urgency {
		t.Errorf("fields must stay at defaults: %+v", got)
	}
	if got.Confidence != models.ConfidenceLow {
		t.Errorf("confidence = %s, want Low", got.Confidence)
	}
}

func TestInterpretEscalation_MalformedProbabilityFailsWholeParse(t *testing.T) {
	got, err := InterpretEscalation("Probability: soon%, Reason: real reason, Urgency: High")
	if err == nil {
		t.Fatal("expected parse error")
	}
	defaults := models.DefaultEscalationAssessment()
	// All-or-nothing: the well-formed markers must not commit either.
	if got.Reason != defaults.Reason || got.Urgency != defaults.Urgency {
		t.Errorf("partial values leaked through: %+v", got)
	}
	if got.Confidence != models.ConfidenceLow {
		t.Errorf("confidence = %s, want Low", got.Confidence)
	}
}

func TestInterpretEscalation_NeverPanics(t *testing.T) {
	inputs := []string{
		"Probability:",
		"Probability: %",
		"Reason:, Path:, Urgency:",
		"probability:probability:probability:",
		"Urgency: ",
	}
	for _, in := range inputs {
		got, _ := InterpretEscalation(in)
		if got.Probability < 0 || got.Probability > 100 {
			t.Errorf("InterpretEscalation(%q): probability out of range: %d", in, got.Probability)
		}
	}
}
