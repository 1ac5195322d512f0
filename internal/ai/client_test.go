package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPClassifier_Categorize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categorize" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}

		var req categorizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Subject != "Fehler" || req.UserID != "user-1" {
			t.Errorf("unexpected request payload: %+v", req)
		}

		_ = json.NewEncoder(w).Encode(Categorization{
			Category:   "technical",
			Confidence: 0.93,
			Reasoning:  "model verdict",
		})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, 2*time.Second)

	got, err := c.Categorize(context.Background(), "Fehler", "App stürzt ab", "user-1")
	if err != nil {
		t.Fatalf("Categorize error: %v", err)
	}
	if got.Category != "technical" || got.Confidence != 0.93 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestHTTPClassifier_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, 2*time.Second)

	if _, err := c.Categorize(context.Background(), "s", "m", "u"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestHTTPClassifier_EmptyCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Categorization{})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, 2*time.Second)

	if _, err := c.Categorize(context.Background(), "s", "m", "u"); err == nil {
		t.Fatal("expected error for empty category")
	}
}
