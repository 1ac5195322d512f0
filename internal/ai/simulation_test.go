package ai

import (
	"context"
	"testing"
)

func TestSimulatedClassifier_Categories(t *testing.T) {
	cases := []struct {
		name       string
		subject    string
		message    string
		category   string
		confidence float64
	}{
		{"technical german", "Fehler im System", "Die App friert ständig ein", "technical", 0.8},
		{"technical english", "Crash report", "error on startup", "technical", 0.8},
		{"billing", "Frage zur Rechnung", "Wie kann ich bezahlen?", "billing", 0.8},
		{"feedback", "Vorschlag", "Die Oberfläche ist super", "feedback", 0.8},
		{"general fallback", "Hallo", "Ich habe eine Frage zu Ihren Öffnungszeiten", "general", 0.5},
		{"keyword in subject only", "Bug", "", "technical", 0.8},
		{"case insensitive", "RECHNUNG", "", "billing", 0.8},
	}

	c := NewSimulatedClassifier()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Categorize(context.Background(), tc.subject, tc.message, "user-1")
			if err != nil {
				t.Fatalf("Categorize error: %v", err)
			}
			if got.Category != tc.category {
				t.Fatalf("expected category %q, got %q", tc.category, got.Category)
			}
			if got.Confidence != tc.confidence {
				t.Fatalf("expected confidence %v, got %v", tc.confidence, got.Confidence)
			}
			if got.Reasoning == "" {
				t.Fatal("expected non-empty reasoning")
			}
		})
	}
}

// Technical wins over billing and feedback when keywords from several
// categories appear; pattern order is fixed.
func TestSimulatedClassifier_PatternOrder(t *testing.T) {
	c := NewSimulatedClassifier()

	got, err := c.Categorize(context.Background(), "Fehler in der Rechnung", "super schlecht", "u")
	if err != nil {
		t.Fatalf("Categorize error: %v", err)
	}
	if got.Category != "technical" {
		t.Fatalf("expected technical to win, got %q", got.Category)
	}

	got, err = c.Categorize(context.Background(), "Rechnung", "tolles Produkt", "u")
	if err != nil {
		t.Fatalf("Categorize error: %v", err)
	}
	if got.Category != "billing" {
		t.Fatalf("expected billing to win over feedback, got %q", got.Category)
	}
}

func TestSimulatedClassifier_Deterministic(t *testing.T) {
	c := NewSimulatedClassifier()

	first, err := c.Categorize(context.Background(), "Problem mit der Zahlung", "crash", "u")
	if err != nil {
		t.Fatalf("Categorize error: %v", err)
	}
	for i := 0; i < 50; i++ {
		got, err := c.Categorize(context.Background(), "Problem mit der Zahlung", "crash", "u")
		if err != nil {
			t.Fatalf("Categorize error: %v", err)
		}
		if got.Category != first.Category || got.Confidence != first.Confidence {
			t.Fatalf("run %d differed: %+v vs %+v", i, got, first)
		}
	}
}
