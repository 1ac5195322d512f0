package handlers

import (
	"context"
	"errors"
	"net/http"

	"inquiry_service/internal/auth"
	"inquiry_service/internal/models"
	"inquiry_service/internal/repository"
	"inquiry_service/internal/service"

	"github.com/go-chi/chi/v5"
)

// InquiryService describes the service layer methods the handlers need.
type InquiryService interface {
	Create(ctx context.Context, req *models.InquiryRequest) (*models.Inquiry, error)
	Get(ctx context.Context, id, userID, role string) (*models.Inquiry, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Inquiry, error)
	Update(ctx context.Context, id, userID, role string, upd *models.InquiryUpdateRequest) (*models.Inquiry, error)
}

// ResponseLister loads the draft responses attached to an inquiry.
type ResponseLister interface {
	ListByInquiry(ctx context.Context, inquiryID string) ([]*models.AIResponse, error)
}

type InquiryHandler struct {
	service   InquiryService
	responses ResponseLister
}

func NewInquiryHandler(service InquiryService, responses ResponseLister) *InquiryHandler {
	return &InquiryHandler{service: service, responses: responses}
}

// POST /api/inquiries
// 201: created inquiry
// 400: invalid input
// 500: internal error
func (h *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.InquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	inq, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, inq)
}

// GET /api/inquiries
// 200: inquiries of the authenticated user, newest first
func (h *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	list, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if list == nil {
		list = []*models.Inquiry{}
	}

	writeJSON(w, http.StatusOK, list)
}

// GET /api/inquiries/{id}
// 200 / 403 / 404
func (h *InquiryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())
	role := auth.RoleFromContext(r.Context())

	inq, err := h.service.Get(r.Context(), id, userID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "forbidden")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "inquiry not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	responses := []*models.AIResponse{}
	if h.responses != nil {
		if list, err := h.responses.ListByInquiry(r.Context(), inq.ID); err == nil && list != nil {
			responses = list
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"inquiry":   inq,
		"responses": responses,
	})
}

// PUT /api/inquiries/{id}
// 200 / 400 / 403 / 404
func (h *InquiryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())
	role := auth.RoleFromContext(r.Context())

	var upd models.InquiryUpdateRequest
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	inq, err := h.service.Update(r.Context(), id, userID, role, &upd)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "forbidden")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "inquiry not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, inq)
}
