package ai

import (
	"context"
	"regexp"
	"strings"
)

// SimulatedClassifier is the keyword fallback used when no AI backend is
// configured. Pattern order is fixed (technical, billing, feedback, then
// general), so the same input always yields the same category.
type SimulatedClassifier struct{}

func NewSimulatedClassifier() *SimulatedClassifier { return &SimulatedClassifier{} }

var (
	technicalPattern = regexp.MustCompile(`fehler|bug|absturz|friert|funktioniert nicht|error|crash|problem`)
	billingPattern   = regexp.MustCompile(`rechnung|zahlung|preis|kosten|bezahlen|invoice|payment|bill`)
	feedbackPattern  = regexp.MustCompile(`vorschlag|feedback|verbesserung|toll|super|gut|schlecht|suggestion`)
)

func (s *SimulatedClassifier) Categorize(_ context.Context, subject, message, _ string) (*Categorization, error) {
	text := strings.ToLower(subject + " " + message)

	switch {
	case technicalPattern.MatchString(text):
		return &Categorization{Category: "technical", Confidence: 0.8, Reasoning: "Simulation: Technical keywords detected"}, nil
	case billingPattern.MatchString(text):
		return &Categorization{Category: "billing", Confidence: 0.8, Reasoning: "Simulation: Billing keywords detected"}, nil
	case feedbackPattern.MatchString(text):
		return &Categorization{Category: "feedback", Confidence: 0.8, Reasoning: "Simulation: Feedback keywords detected"}, nil
	default:
		return &Categorization{Category: "general", Confidence: 0.5, Reasoning: "Simulation: No specific keywords, defaulting to general"}, nil
	}
}
