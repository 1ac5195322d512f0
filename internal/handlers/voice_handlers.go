package handlers

import (
	"context"
	"net/http"
	"strings"

	"inquiry_service/internal/voice"
)

type VoiceExecutor interface {
	Execute(ctx context.Context, command string) voice.Result
}

type VoiceHandler struct {
	executor VoiceExecutor
}

func NewVoiceHandler(executor VoiceExecutor) *VoiceHandler {
	return &VoiceHandler{executor: executor}
}

type voiceCommandRequest struct {
	Command string `json:"command"`
}

// POST /api/voice-commands
// 200: { "kind": "...", "message": "...", ... }
// 400: missing command
//
// Failed commands still return 200: the command was processed, the outcome
// is in the payload. Only a malformed request is a client error.
func (h *VoiceHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req voiceCommandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		writeError(w, http.StatusBadRequest, "command is required")
		return
	}

	result := h.executor.Execute(r.Context(), req.Command)

	body := map[string]any{
		"kind":    result.Kind(),
		"message": result.Message(),
	}
	switch res := result.(type) {
	case voice.Created:
		body["meeting"] = res.Meeting
	case voice.Listed:
		body["meetings"] = res.Meetings
	case voice.Deleted:
		body["deleted_meeting"] = res.Meeting
	}

	writeJSON(w, http.StatusOK, body)
}
