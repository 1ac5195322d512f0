package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inquiry_service/internal/models"
)

type fakeProcessor struct {
	limits []int
	result *models.BatchResult
	err    error
}

func (f *fakeProcessor) ProcessBatch(_ context.Context, limit int) (*models.BatchResult, error) {
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &models.BatchResult{Results: []models.BatchItemResult{}}, nil
}

func TestProcessRun_LimitHandling(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
	}{
		{"default", "", http.StatusOK, 5},
		{"explicit", "?limit=3", http.StatusOK, 3},
		{"capped at 20", "?limit=100", http.StatusOK, 20},
		{"zero clamped to 1", "?limit=0", http.StatusOK, 1},
		{"negative clamped to 1", "?limit=-1", http.StatusOK, 1},
		{"garbage rejected", "?limit=abc", http.StatusBadRequest, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			proc := &fakeProcessor{}
			h := NewProcessHandler(proc, true)

			req := httptest.NewRequest(http.MethodPost, "/api/process-inquiries"+tc.query, nil)
			rec := httptest.NewRecorder()

			h.Run(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d (%s)", tc.wantStatus, rec.Code, rec.Body.String())
			}

			if tc.wantStatus == http.StatusOK {
				if len(proc.limits) != 1 || proc.limits[0] != tc.wantLimit {
					t.Fatalf("expected batch with limit %d, got %v", tc.wantLimit, proc.limits)
				}
			} else if len(proc.limits) != 0 {
				t.Fatalf("processor must not run on bad input, got %v", proc.limits)
			}
		})
	}
}

func TestProcessRun_ReturnsBatchResult(t *testing.T) {
	proc := &fakeProcessor{
		result: &models.BatchResult{
			Processed:      2,
			SimulationMode: true,
			Results: []models.BatchItemResult{
				{ID: "a", Categorized: true, Category: "technical", Confidence: 0.8},
				{ID: "b", Error: "backend down"},
			},
		},
	}
	h := NewProcessHandler(proc, true)

	req := httptest.NewRequest(http.MethodPost, "/api/process-inquiries", nil)
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	var got models.BatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Processed != 2 || len(got.Results) != 2 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestProcessHealth(t *testing.T) {
	h := NewProcessHandler(&fakeProcessor{}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/process-inquiries/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected status %v", body["status"])
	}
	if body["simulation_mode"] != true {
		t.Fatalf("expected simulation_mode true, got %v", body["simulation_mode"])
	}
}
