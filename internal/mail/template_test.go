package mail

import (
	"strings"
	"testing"
)

func TestRenderResponseEmail_Defaults(t *testing.T) {
	html, err := RenderResponseEmail(&ResponseEmailData{
		RecipientName:   "Max",
		ResponseBody:    "Erste Zeile\nZweite Zeile",
		OriginalMessage: "Meine Frage",
	})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	for _, want := range []string{
		"Hallo Max,",
		"vielen Dank für Ihre Anfrage. Hier ist unsere Antwort:",
		"Erste Zeile<br>Zweite Zeile",
		"Ihre ursprüngliche Nachricht:",
		"Meine Frage",
		"Mit freundlichen Grüßen,<br>Ihr KI-Sekretärin Team",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered email missing %q:\n%s", want, html)
		}
	}
}

func TestRenderResponseEmail_ProfileOverrides(t *testing.T) {
	html, err := RenderResponseEmail(&ResponseEmailData{
		RecipientName:   "Max",
		ResponseBody:    "Antwort",
		OriginalMessage: "Frage",
		Intro:           "hier kommt unsere Rückmeldung:",
		Signature:       "Beste Grüße\nACME GmbH",
	})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	if !strings.Contains(html, "hier kommt unsere Rückmeldung:") {
		t.Fatal("custom intro not rendered")
	}
	if !strings.Contains(html, "Beste Grüße<br>ACME GmbH") {
		t.Fatal("custom signature not rendered")
	}
	if strings.Contains(html, "vielen Dank für Ihre Anfrage") {
		t.Fatal("default intro must be replaced")
	}
}

func TestRenderResponseEmail_EscapesHTML(t *testing.T) {
	html, err := RenderResponseEmail(&ResponseEmailData{
		RecipientName:   "Max",
		ResponseBody:    `<script>alert("x")</script>`,
		OriginalMessage: "a < b",
	})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	if strings.Contains(html, "<script>") {
		t.Fatal("script tag must be escaped")
	}
	if !strings.Contains(html, "a &lt; b") {
		t.Fatal("original message must be escaped")
	}
}

func TestRenderResponseEmail_NilData(t *testing.T) {
	if _, err := RenderResponseEmail(nil); err == nil {
		t.Fatal("expected error for nil data")
	}
}
