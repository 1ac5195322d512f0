package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inquiry_service/internal/models"

	"github.com/go-chi/chi/v5"
)

type fakeInquiryService struct {
	updatedID  string
	updatedUpd *models.InquiryUpdateRequest
}

func (f *fakeInquiryService) Create(_ context.Context, req *models.InquiryRequest) (*models.Inquiry, error) {
	return &models.Inquiry{ID: "inq-1", Subject: req.Subject}, nil
}

func (f *fakeInquiryService) Get(_ context.Context, id, _, _ string) (*models.Inquiry, error) {
	return &models.Inquiry{ID: id}, nil
}

func (f *fakeInquiryService) ListByUser(context.Context, string) ([]*models.Inquiry, error) {
	return nil, nil
}

func (f *fakeInquiryService) Update(_ context.Context, id, _, _ string, upd *models.InquiryUpdateRequest) (*models.Inquiry, error) {
	f.updatedID = id
	f.updatedUpd = upd
	inq := &models.Inquiry{ID: id, Status: models.InquiryStatusOpen}
	if upd.Status != nil {
		inq.Status = *upd.Status
	}
	inq.Notes = upd.Notes
	return inq, nil
}

func TestInquiryUpdate_NotesFlowThrough(t *testing.T) {
	svc := &fakeInquiryService{}
	h := NewInquiryHandler(svc, nil)

	body := `{"notes":"Rückruf am Montag vereinbart"}`
	req := httptest.NewRequest(http.MethodPut, "/api/inquiries/inq-1", strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "inq-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.updatedID != "inq-1" {
		t.Fatalf("expected update for inq-1, got %q", svc.updatedID)
	}
	if svc.updatedUpd == nil || svc.updatedUpd.Notes == nil {
		t.Fatal("expected the notes field to reach the service")
	}
	if *svc.updatedUpd.Notes != "Rückruf am Montag vereinbart" {
		t.Fatalf("unexpected notes %q", *svc.updatedUpd.Notes)
	}

	var got models.Inquiry
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Notes == nil || *got.Notes != "Rückruf am Montag vereinbart" {
		t.Fatalf("expected notes on the response, got %+v", got)
	}
}
