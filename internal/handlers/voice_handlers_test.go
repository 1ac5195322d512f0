package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inquiry_service/internal/models"
	"inquiry_service/internal/voice"
)

type fakeVoiceExecutor struct {
	got    string
	result voice.Result
}

func (f *fakeVoiceExecutor) Execute(_ context.Context, command string) voice.Result {
	f.got = command
	return f.result
}

func TestVoiceExecute_CreatedShape(t *testing.T) {
	exec := &fakeVoiceExecutor{
		result: voice.Created{
			Meeting: &models.Meeting{ID: "m-1", Title: "Meeting mit Anna"},
			Msg:     "Meeting wurde erstellt.",
		},
	}
	h := NewVoiceHandler(exec)

	req := httptest.NewRequest(http.MethodPost, "/api/voice-commands",
		strings.NewReader(`{"command":"Lege ein Meeting mit Anna am Dienstag um 14 Uhr an"}`))
	rec := httptest.NewRecorder()
	h.Execute(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(exec.got, "Anna") {
		t.Fatalf("command not passed through: %q", exec.got)
	}

	var body struct {
		Kind    string          `json:"kind"`
		Message string          `json:"message"`
		Meeting *models.Meeting `json:"meeting"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Kind != "created" || body.Meeting == nil || body.Meeting.ID != "m-1" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestVoiceExecute_FailedStillOK(t *testing.T) {
	h := NewVoiceHandler(&fakeVoiceExecutor{result: voice.Failed{Msg: "Unbekannter Befehl"}})

	req := httptest.NewRequest(http.MethodPost, "/api/voice-commands",
		strings.NewReader(`{"command":"blabla"}`))
	rec := httptest.NewRecorder()
	h.Execute(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for failed command, got %d", rec.Code)
	}

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["kind"] != "failed" {
		t.Fatalf("expected kind failed, got %v", body["kind"])
	}
}

func TestVoiceExecute_MissingCommand(t *testing.T) {
	h := NewVoiceHandler(&fakeVoiceExecutor{result: voice.Failed{}})

	req := httptest.NewRequest(http.MethodPost, "/api/voice-commands",
		strings.NewReader(`{"command":"  "}`))
	rec := httptest.NewRecorder()
	h.Execute(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
