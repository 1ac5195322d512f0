package handlers

import (
	"context"
	"errors"
	"net/http"

	"inquiry_service/internal/auth"
	"inquiry_service/internal/mail"
	"inquiry_service/internal/models"
	"inquiry_service/internal/repository"
	"inquiry_service/internal/service"
)

type ResponseSender interface {
	Send(ctx context.Context, responseID, userID string) (*models.AIResponse, error)
}

type ResponseHandler struct {
	sender ResponseSender
}

func NewResponseHandler(sender ResponseSender) *ResponseHandler {
	return &ResponseHandler{sender: sender}
}

type sendResponseRequest struct {
	ResponseID string `json:"response_id"`
}

// POST /api/send-inquiry-response
// 200: the sent response
// 400 / 403 / 404 / 500
func (h *ResponseHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendResponseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	userID := auth.UserIDFromContext(r.Context())

	resp, err := h.sender.Send(r.Context(), req.ResponseID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "forbidden")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "response not found")
		case errors.Is(err, mail.ErrNotConfigured):
			writeError(w, http.StatusInternalServerError, "mail transport is not configured")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
